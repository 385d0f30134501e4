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


// Package openrouter implements the cloud completion backend.
// Requests go to OpenRouter's OpenAI-compatible chat-completions API
// with bearer-token authorization and the attribution headers the
// service recommends.
package openrouter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/empirelabs/chad/ai"
	"github.com/empirelabs/chad/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer against OpenRouter.
type Completer struct {
	client  llms.Model
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ ai.Completer = (*Completer)(nil)

// attributionTransport injects the optional OpenRouter attribution
// headers on every request.
type attributionTransport struct {
	base    http.RoundTripper
	siteURL string
	appName string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.appName != "" {
		req.Header.Set("X-Title", t.appName)
	}
	return t.base.RoundTrip(req)
}

// NewCompleter creates the cloud completer from the configuration.
// The config must carry a non-empty OpenRouter credential.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if !config.UseOpenRouter() {
		return nil, errors.New("openrouter: API key not set")
	}

	httpClient := &http.Client{
		Timeout: config.CompletionTimeout,
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			siteURL: config.SiteURL,
			appName: config.AppName,
		},
	}

	client, err := openai.New(
		openai.WithBaseURL(config.OpenRouterBaseURL),
		openai.WithToken(config.OpenRouterAPIKey),
		openai.WithModel(config.OpenRouterModel),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:  client,
		model:   config.OpenRouterModel,
		timeout: config.CompletionTimeout,
		logger:  slog.Default().With("component", "openrouter-completer"),
	}, nil
}

// Complete invokes the chat-completions endpoint with the full message
// list and returns the first choice's content. Upstream failures are
// wrapped in *ai.ProviderError; an empty model reply is replaced with
// ai.FallbackReply.
func (c *Completer) Complete(ctx context.Context, messages []core.Message, opts ai.CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.client.GenerateContent(ctx, toContent(messages),
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
	)
	if err != nil {
		c.logger.Error("completion failed", "model", c.model, "err", err)
		return "", &ai.ProviderError{Provider: "openrouter", Err: err}
	}
	if len(response.Choices) < 1 {
		return "", &ai.ProviderError{Provider: "openrouter", Err: errors.New("no completion choices in response")}
	}

	reply := strings.TrimSpace(response.Choices[0].Content)
	if reply == "" {
		c.logger.Warn("empty reply from model, substituting fallback", "model", c.model)
		return ai.FallbackReply, nil
	}
	return reply, nil
}

// Model returns the configured model identifier.
func (c *Completer) Model() string {
	return c.model
}

// toContent maps conversation messages onto the langchaingo content
// representation.
func toContent(messages []core.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case core.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case core.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	return content
}
