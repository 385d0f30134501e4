package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/empirelabs/chad/ai"
	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/retrieval"
	"github.com/empirelabs/chad/storage"
	"github.com/google/uuid"
)

// Config carries the orchestrator's behavioral settings.
type Config struct {
	// SystemPrompt seeds every new session as its first message.
	SystemPrompt string

	// MaxSessionMessages caps retained history: the system prompt plus
	// this many most recent messages survive trimming.
	MaxSessionMessages int

	// Temperature and MaxTokens are passed through to the completion
	// backend on every call.
	Temperature float64
	MaxTokens   int
}

// ChatRequest is one inbound chat turn, already parsed and size-checked
// by the transport layer.
type ChatRequest struct {
	// SessionID is the caller-supplied session identifier; empty for a
	// fresh conversation.
	SessionID string

	// Message is the user's message text.
	Message string

	// ClientID identifies the caller for admission control (typically
	// the network address).
	ClientID string

	// DebugSources requests retrieval provenance in the result. The
	// transport layer only sets this for admin-authorized callers.
	DebugSources bool
}

// ChatResult is the outcome of one successful chat turn.
type ChatResult struct {
	SessionID string
	Reply     string
	Sources   []string
}

// Orchestrator drives the per-request pipeline: admission, validation,
// session resolution, identity short-circuit, retrieval augmentation,
// completion, and persistence. All collaborators are explicit
// dependencies injected at construction; the orchestrator holds no
// global state.
type Orchestrator struct {
	sessions  storage.SessionStore
	retriever *retrieval.Retriever
	completer ai.Completer
	limiter   *RateLimiter
	config    Config
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates the request pipeline over its collaborators.
func NewOrchestrator(
	sessions storage.SessionStore,
	retriever *retrieval.Retriever,
	completer ai.Completer,
	limiter *RateLimiter,
	config Config,
	opts ...Option,
) (*Orchestrator, error) {
	if sessions == nil {
		return nil, ErrSessionStoreRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if limiter == nil {
		return nil, ErrLimiterRequired
	}
	if config.MaxSessionMessages < 1 {
		config.MaxSessionMessages = 12
	}
	if config.MaxTokens < 1 {
		config.MaxTokens = 800
	}

	o := &Orchestrator{
		sessions:  sessions,
		retriever: retriever,
		completer: completer,
		limiter:   limiter,
		config:    config,
		logger:    slog.Default().With("component", "orchestrator"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Chat runs one conversation turn through the pipeline.
//
// Failure behavior: rate-limit and validation failures reject before any
// state changes; provider failures abort without persisting the turn, so
// a session never records a user message with a missing assistant reply;
// retrieval failures never surface (the turn proceeds with empty
// context). A session-save failure propagates after the reply was
// computed; the reply is lost and the caller sees the error.
func (o *Orchestrator) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if !o.limiter.Admit(req.ClientID) {
		o.logger.Info("request rejected by rate limiter", "client", req.ClientID)
		return nil, ErrRateLimited
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := o.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session load: %w", err)
	}
	if len(history) == 0 {
		history = []core.Message{{Role: core.RoleSystem, Content: o.config.SystemPrompt}}
	}

	if isIdentityQuestion(message) {
		history = append(history,
			core.Message{Role: core.RoleUser, Content: message},
			core.Message{Role: core.RoleAssistant, Content: IdentityReply},
		)
		if err := o.persist(ctx, sessionID, history); err != nil {
			return nil, err
		}
		o.logger.Info("identity short-circuit", "session", sessionID)
		return &ChatResult{SessionID: sessionID, Reply: IdentityReply}, nil
	}

	chunks := o.retriever.Retrieve(ctx, message)

	// The context block is ephemeral: injected before the user turn for
	// this completion only, never persisted, so each turn gets freshly
	// retrieved context.
	prompt := make([]core.Message, 0, len(history)+2)
	prompt = append(prompt, history...)
	if len(chunks) > 0 {
		prompt = append(prompt, core.Message{
			Role:    core.RoleSystem,
			Content: "Relevant internal knowledge:\n" + retrieval.FormatContext(chunks),
		})
	}
	prompt = append(prompt, core.Message{Role: core.RoleUser, Content: message})

	reply, err := o.completer.Complete(ctx, prompt, ai.CompletionOptions{
		Temperature: o.config.Temperature,
		MaxTokens:   o.config.MaxTokens,
	})
	if err != nil {
		o.logger.Error("completion failed", "session", sessionID, "err", err)
		return nil, err
	}

	history = append(history,
		core.Message{Role: core.RoleUser, Content: message},
		core.Message{Role: core.RoleAssistant, Content: reply},
	)
	if err := o.persist(ctx, sessionID, history); err != nil {
		return nil, err
	}

	result := &ChatResult{SessionID: sessionID, Reply: reply}
	if req.DebugSources && len(chunks) > 0 {
		result.Sources = retrieval.Sources(chunks)
	}
	return result, nil
}

func (o *Orchestrator) persist(ctx context.Context, sessionID string, history []core.Message) error {
	trimmed := core.Trim(history, o.config.MaxSessionMessages)
	if err := o.sessions.Save(ctx, sessionID, trimmed); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}
