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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the completion and embedding backends.
type Config struct {
	// OpenRouterAPIKey is the cloud provider credential. When non-empty
	// the gateway routes completions to OpenRouter exclusively; when
	// empty it routes to the local Ollama backend.
	OpenRouterAPIKey string

	// OpenRouterModel is the model identifier used on the cloud path.
	// Example: "openai/gpt-4o-mini"
	OpenRouterModel string

	// OpenRouterBaseURL is the chat-completions base URL.
	OpenRouterBaseURL string

	// SiteURL is sent as the HTTP-Referer attribution header on
	// OpenRouter requests.
	SiteURL string

	// AppName is sent as the X-Title attribution header on OpenRouter
	// requests.
	AppName string

	// OllamaBaseURL is the local inference server base URL.
	// Example: "http://127.0.0.1:11434"
	OllamaBaseURL string

	// OllamaModel is the model identifier used on the local path.
	OllamaModel string

	// NumCtx is the extended context window size passed to Ollama.
	NumCtx int

	// EmbeddingModel is the model identifier used for text embeddings.
	// Example: "nomic-embed-text"
	EmbeddingModel string

	// CompletionTimeout bounds a single completion call.
	CompletionTimeout time.Duration

	// EmbedTimeout bounds a single embedding call.
	EmbedTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithOpenRouterKey sets the cloud provider credential.
func WithOpenRouterKey(key string) ConfigOption {
	return func(c *Config) {
		c.OpenRouterAPIKey = key
	}
}

// WithOpenRouterModel sets the cloud model identifier.
func WithOpenRouterModel(model string) ConfigOption {
	return func(c *Config) {
		c.OpenRouterModel = model
	}
}

// WithOpenRouterBaseURL sets the cloud chat-completions base URL.
func WithOpenRouterBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.OpenRouterBaseURL = url
	}
}

// WithAttribution sets the OpenRouter attribution headers.
func WithAttribution(siteURL, appName string) ConfigOption {
	return func(c *Config) {
		c.SiteURL = siteURL
		c.AppName = appName
	}
}

// WithOllamaBaseURL sets the local inference server URL.
func WithOllamaBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.OllamaBaseURL = url
	}
}

// WithOllamaModel sets the local model identifier.
func WithOllamaModel(model string) ConfigOption {
	return func(c *Config) {
		c.OllamaModel = model
	}
}

// WithNumCtx sets the Ollama context window size.
func WithNumCtx(numCtx int) ConfigOption {
	return func(c *Config) {
		c.NumCtx = numCtx
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionTimeout bounds a single completion call.
func WithCompletionTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.CompletionTimeout = d
	}
}

// WithEmbedTimeout bounds a single embedding call.
func WithEmbedTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedTimeout = d
	}
}

// DefaultConfig returns a Config with the local Ollama backend selected
// and the documented OpenRouter defaults for when a key is supplied.
func DefaultConfig() *Config {
	return &Config{
		OpenRouterModel:   "openai/gpt-4o-mini",
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		SiteURL:           "https://empirelabs.com.au",
		AppName:           "empirelabs-chad",
		OllamaBaseURL:     "http://127.0.0.1:11434",
		OllamaModel:       "llama3.1",
		NumCtx:            8192,
		EmbeddingModel:    "nomic-embed-text",
		CompletionTimeout: 120 * time.Second,
		EmbedTimeout:      30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form:
// credentials trimmed, base URLs without trailing slashes.
func (c *Config) Normalize() {
	c.OpenRouterAPIKey = strings.TrimSpace(c.OpenRouterAPIKey)
	c.OpenRouterBaseURL = strings.TrimSuffix(strings.TrimSpace(c.OpenRouterBaseURL), "/")
	c.OllamaBaseURL = strings.TrimSuffix(strings.TrimSpace(c.OllamaBaseURL), "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.UseOpenRouter() {
		if c.OpenRouterBaseURL == "" {
			return errors.New("ai config: OpenRouterBaseURL is required")
		}
		if c.OpenRouterModel == "" {
			return errors.New("ai config: OpenRouterModel is required")
		}
	} else {
		if c.OllamaBaseURL == "" {
			return errors.New("ai config: OllamaBaseURL is required")
		}
		if c.OllamaModel == "" {
			return errors.New("ai config: OllamaModel is required")
		}
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CompletionTimeout <= 0 {
		return errors.New("ai config: CompletionTimeout must be positive")
	}
	if c.EmbedTimeout <= 0 {
		return errors.New("ai config: EmbedTimeout must be positive")
	}
	return nil
}

// UseOpenRouter reports whether the cloud backend is selected. The
// choice is made once at startup from the presence of a credential,
// never re-checked per request.
func (c *Config) UseOpenRouter() bool {
	return strings.TrimSpace(c.OpenRouterAPIKey) != ""
}
