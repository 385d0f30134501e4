// Copyright 2025 Empire Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the gateway's process configuration from
// environment variables.
package config

import (
	"os"
	"strconv"
)

// DefaultSystemPrompt seeds new sessions when CHAD_SYSTEM_PROMPT is
// not set.
const DefaultSystemPrompt = "You are Chad, Empire Labs' AI operator. " +
	"You are direct, practical and concise. You help visitors understand " +
	"Empire Labs' services: automation, AI integration, dashboards and " +
	"R&D support. When internal knowledge is provided, ground your answer " +
	"in it; never invent company facts."

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	Port    int
	MaxBody string

	// Access control
	APIKey   string
	AdminKey string

	// Conversation settings
	SystemPrompt       string
	MaxSessionMessages int
	RateLimit          int

	// Storage
	DBDir string

	// Retrieval
	TopK int

	// Providers
	OpenRouterAPIKey string
	OpenRouterModel  string
	OllamaBaseURL    string
	OllamaModel      string
	EmbeddingModel   string
	NumCtx           int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables, applying
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Port:               getEnvInt("PORT", 8000),
		MaxBody:            getEnv("CHAD_MAX_BODY", "16K"),
		APIKey:             getEnv("CHAD_API_KEY", ""),
		AdminKey:           getEnv("CHAD_ADMIN_KEY", ""),
		SystemPrompt:       getEnv("CHAD_SYSTEM_PROMPT", DefaultSystemPrompt),
		MaxSessionMessages: getEnvInt("CHAD_MAX_SESSION_MSGS", 12),
		RateLimit:          getEnvInt("CHAD_RATE_LIMIT", 20),
		DBDir:              getEnv("CHAD_DB_DIR", "chad.db"),
		TopK:               getEnvInt("CHAD_RAG_K", 6),
		OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:    getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://127.0.0.1:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "llama3.1"),
		EmbeddingModel:     getEnv("EMBED_MODEL", "nomic-embed-text"),
		NumCtx:             getEnvInt("OLLAMA_NUM_CTX", 8192),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
