// Package httpapi exposes the chat gateway over HTTP.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/empirelabs/chad/ai"
	chatollama "github.com/empirelabs/chad/ai/ollama"
	"github.com/empirelabs/chad/gateway"
	"github.com/empirelabs/chad/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config carries the transport-level settings.
type Config struct {
	// APIKey is the optional shared secret; when set, chat requests
	// must carry it in the x-api-key header.
	APIKey string

	// AdminKey authorizes debug-source visibility via the x-admin-key
	// header.
	AdminKey string

	// MaxBody is the request body ceiling in echo's size notation
	// (e.g. "16K").
	MaxBody string

	// OllamaBaseURL is probed by the health endpoint.
	OllamaBaseURL string

	// EmbeddingModel is reported by the health endpoint.
	EmbeddingModel string
}

// Handler handles HTTP requests for the gateway.
type Handler struct {
	orch      *gateway.Orchestrator
	completer ai.Completer
	chunks    storage.ChunkStore
	config    Config
	logger    *slog.Logger
}

// NewHandler creates a new handler.
func NewHandler(orch *gateway.Orchestrator, completer ai.Completer, chunks storage.ChunkStore, config Config) *Handler {
	if config.MaxBody == "" {
		config.MaxBody = "16K"
	}
	return &Handler{
		orch:      orch,
		completer: completer,
		chunks:    chunks,
		config:    config,
		logger:    slog.Default().With("component", "httpapi"),
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.HTTPErrorHandler = h.errorHandler
	e.Use(middleware.Recover())

	e.POST("/api/chat", h.Chat, middleware.BodyLimit(h.config.MaxBody))
	e.GET("/health", h.Health)
	e.GET("/demo", h.Demo)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Sources   []string `json:"sources,omitempty"`
}

// Chat handles one conversation turn.
func (h *Handler) Chat(c echo.Context) error {
	if h.config.APIKey != "" && c.Request().Header.Get("x-api-key") != h.config.APIKey {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "unauthorized"})
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
	}

	debug := c.Request().Header.Get("x-debug-sources") == "1" &&
		h.config.AdminKey != "" &&
		c.Request().Header.Get("x-admin-key") == h.config.AdminKey

	result, err := h.orch.Chat(c.Request().Context(), gateway.ChatRequest{
		SessionID:    req.SessionID,
		Message:      req.Message,
		ClientID:     c.RealIP(),
		DebugSources: debug,
	})
	if err != nil {
		return h.chatError(c, err)
	}

	return c.JSON(http.StatusOK, chatResponse{
		SessionID: result.SessionID,
		Reply:     result.Reply,
		Sources:   result.Sources,
	})
}

func (h *Handler) chatError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gateway.ErrEmptyMessage):
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": err.Error()})
	case errors.Is(err, gateway.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, map[string]string{"detail": err.Error()})
	}

	var perr *ai.ProviderError
	if errors.As(err, &perr) {
		h.logger.Error("upstream provider failure", "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": perr.Error()})
	}

	h.logger.Error("unhandled chat error", "err", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"detail": "Internal Server Error",
		"error":  err.Error(),
	})
}

// Health reports process liveness, configured models, a best-effort
// probe of the local inference backend, and whether the knowledge index
// holds any chunks. Always 200 while the process is alive.
func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()

	ollamaAlive := chatollama.Ping(ctx, h.config.OllamaBaseURL) == nil

	kbReady := false
	if count, err := h.chunks.CountChunks(ctx); err == nil && count > 0 {
		kbReady = true
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"model":       h.completer.Model(),
		"embed_model": h.config.EmbeddingModel,
		"ollama":      ollamaAlive,
		"kb_ready":    kbReady,
	})
}

// Demo serves the browser demo page.
func (h *Handler) Demo(c echo.Context) error {
	return c.HTML(http.StatusOK, demoHTML)
}

// errorHandler converts errors that escape the handlers (body-limit
// rejections, panics recovered by middleware, unknown routes) into the
// gateway's JSON error shape. No stack traces leak to the client.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "Internal Server Error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			detail = msg
		} else {
			detail = http.StatusText(code)
		}
	} else {
		h.logger.Error("unhandled exception", "err", err)
	}

	payload := map[string]string{"detail": detail}
	if code == http.StatusInternalServerError && !errors.As(err, &httpErr) {
		payload["error"] = err.Error()
	}
	if err := c.JSON(code, payload); err != nil {
		h.logger.Error("failed to write error response", "err", err)
	}
}
