// Package ollama implements the local completion and embedding backend
// against an Ollama server.
package ollama

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
	"github.com/tmc/langchaingo/llms/ollama"
)

// Completer implements ai.Completer against a local Ollama server.
type Completer struct {
	client  llms.Model
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ ai.Completer = (*Completer)(nil)

// NewCompleter creates the local completer from the configuration.
// The configured context window size is passed through to the runner.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(config.OllamaBaseURL),
		ollama.WithModel(config.OllamaModel),
		ollama.WithRunnerNumCtx(config.NumCtx),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:  client,
		model:   config.OllamaModel,
		timeout: config.CompletionTimeout,
		logger:  slog.Default().With("component", "ollama-completer"),
	}, nil
}

// Complete invokes the local inference endpoint with the full message
// list. Failures (including an unreachable server) are wrapped in
// *ai.ProviderError; an empty model reply is replaced with
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
		return "", &ai.ProviderError{Provider: "ollama", Err: err}
	}
	if len(response.Choices) < 1 {
		return "", &ai.ProviderError{Provider: "ollama", Err: errors.New("no message in response")}
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

// Ping probes the Ollama server for liveness. Best-effort: any reachable
// HTTP response counts as alive.
func Ping(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

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
