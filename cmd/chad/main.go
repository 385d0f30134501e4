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

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v2"

	"github.com/empirelabs/chad/ai"
	"github.com/empirelabs/chad/ai/ollama"
	"github.com/empirelabs/chad/ai/openrouter"
	"github.com/empirelabs/chad/config"
	"github.com/empirelabs/chad/gateway"
	"github.com/empirelabs/chad/httpapi"
	"github.com/empirelabs/chad/ingestion"
	"github.com/empirelabs/chad/retrieval"
	"github.com/empirelabs/chad/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "chad",
		Usage: "Empire Labs' conversational gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the chat gateway HTTP server",
				Action: serveCommand,
			},
			{
				Name:   "ingest",
				Usage:  "Index knowledge-base documents for retrieval",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kb",
						Aliases:  []string{"k"},
						Usage:    "Path to the knowledge-base directory (.md/.txt files)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the BadgerDB database directory (defaults to CHAD_DB_DIR)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding workers",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Run a retrieval query against the knowledge index",
				ArgsUsage: "<query text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to the BadgerDB database directory (defaults to CHAD_DB_DIR)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of chunks to retrieve",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	cfg := config.Load()
	logger := slog.Default().With("component", "main")

	backend, err := badger.OpenBackend(cfg.DBDir, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	sessions := badger.NewSessionStore(backend)
	chunks := badger.NewChunkStore(backend)

	aiConfig := newAIConfig(cfg)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := ollama.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	var completer ai.Completer
	if aiConfig.UseOpenRouter() {
		completer, err = openrouter.NewCompleter(aiConfig)
	} else {
		completer, err = ollama.NewCompleter(aiConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to create completer: %w", err)
	}
	logger.Info("provider selected", "model", completer.Model(), "cloud", aiConfig.UseOpenRouter())

	retriever, err := retrieval.NewRetriever(embedder, chunks, retrieval.WithTopK(cfg.TopK))
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	limiter := gateway.NewRateLimiter(cfg.RateLimit)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go limiter.Run(ctx, 5*time.Minute)

	orch, err := gateway.NewOrchestrator(sessions, retriever, completer, limiter, gateway.Config{
		SystemPrompt:       cfg.SystemPrompt,
		MaxSessionMessages: cfg.MaxSessionMessages,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	httpapi.NewHandler(orch, completer, chunks, httpapi.Config{
		APIKey:         cfg.APIKey,
		AdminKey:       cfg.AdminKey,
		MaxBody:        cfg.MaxBody,
		OllamaBaseURL:  cfg.OllamaBaseURL,
		EmbeddingModel: cfg.EmbeddingModel,
	}).RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()
	logger.Info("gateway listening", "port", cfg.Port, "db", cfg.DBDir)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := config.Load()

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.DBDir
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunks := badger.NewChunkStore(backend)

	aiConfig := newAIConfig(cfg)
	embedder, err := ollama.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	var opts []ingestion.Option
	if workers := c.Int("workers"); workers > 0 {
		opts = append(opts, ingestion.WithPoolSize(workers))
	}
	pipeline, err := ingestion.NewPipeline(chunks, embedder, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	kbDir := c.String("kb")
	fmt.Fprintf(os.Stderr, "Indexing %s into %s\n", kbDir, dbPath)

	added, err := pipeline.IngestDir(ctx, kbDir)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	total, err := chunks.CountChunks(ctx)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	if added == 0 {
		fmt.Fprintln(os.Stderr, "Nothing new to add. Index already up to date.")
	} else {
		fmt.Fprintf(os.Stderr, "Added %d chunks (%d total).\n", added, total)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := config.Load()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = cfg.DBDir
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	chunks := badger.NewChunkStore(backend)

	embedder, err := ollama.NewEmbedder(newAIConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	topK := c.Int("top-k")
	if topK < 1 {
		topK = cfg.TopK
	}
	retriever, err := retrieval.NewRetriever(embedder, chunks, retrieval.WithTopK(topK))
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	results := retriever.Retrieve(ctx, query)
	if len(results) == 0 {
		fmt.Println(retrieval.EmptyContext)
		return nil
	}

	for i, chunk := range results {
		fmt.Printf("%d. [%.4f] %s\n%s\n\n", i+1, chunk.Score, chunk.Source, chunk.Text)
	}
	return nil
}

func newAIConfig(cfg *config.Config) *ai.Config {
	return ai.NewConfig(
		ai.WithOpenRouterKey(cfg.OpenRouterAPIKey),
		ai.WithOpenRouterModel(cfg.OpenRouterModel),
		ai.WithOllamaBaseURL(cfg.OllamaBaseURL),
		ai.WithOllamaModel(cfg.OllamaModel),
		ai.WithNumCtx(cfg.NumCtx),
		ai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
