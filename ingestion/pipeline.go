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

package ingestion

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/empirelabs/chad/ai"
	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/storage"
)

const (
	defaultChunkChars   = 1200
	defaultChunkOverlap = 150
)

// Pipeline indexes knowledge-base documents: it chunks each file,
// embeds new chunks concurrently and writes them to the chunk store.
// Re-running over the same corpus is cheap because chunks are keyed by
// content and already-indexed text is skipped before embedding.
type Pipeline struct {
	chunks   storage.ChunkStore
	embedder ai.Embedder
	pool     *ants.Pool

	chunkChars   int
	chunkOverlap int
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking overrides the chunk window and overlap sizes, both in
// runes. Non-positive values keep the defaults.
func WithChunking(maxChars, overlap int) Option {
	return func(p *Pipeline) error {
		if maxChars > 0 {
			p.chunkChars = maxChars
		}
		if overlap >= 0 && overlap < p.chunkChars {
			p.chunkOverlap = overlap
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(chunks storage.ChunkStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunks:       chunks,
		embedder:     embedder,
		pool:         pool,
		chunkChars:   defaultChunkChars,
		chunkOverlap: defaultChunkOverlap,
		logger:       slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestDir walks dir recursively, indexing every .md and .txt file.
// It returns the number of chunks added across all files. Files that
// cannot be read are logged and skipped.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (int, error) {
	added := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		text, readErr := os.ReadFile(path)
		if readErr != nil {
			p.logger.Warn("skipping unreadable file", "path", path, "err", readErr)
			return nil
		}

		n, ingestErr := p.IngestText(ctx, path, string(text))
		if ingestErr != nil {
			return ingestErr
		}
		added += n
		return nil
	})
	return added, err
}

// IngestText chunks text, embeds the chunks not already indexed and
// stores them under the given source label. It returns the number of
// chunks added. Per-chunk embedding failures are logged and skipped so
// one bad chunk does not abort a whole document.
func (p *Pipeline) IngestText(ctx context.Context, source, text string) (int, error) {
	pieces := ChunkText(text, p.chunkChars, p.chunkOverlap)
	if len(pieces) == 0 {
		return 0, nil
	}

	// Dedup before embedding: content-keyed IDs make re-runs skip all
	// already-indexed text without touching the embedder.
	var fresh []string
	for _, piece := range pieces {
		exists, err := p.chunks.HasChunk(ctx, core.IDFromContent(piece))
		if err != nil {
			return 0, err
		}
		if !exists {
			fresh = append(fresh, piece)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		toStore []*core.KnowledgeChunk
	)
	for _, piece := range fresh {
		piece := piece
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			vector, err := p.embedder.EmbedText(ctx, piece)
			if err != nil {
				p.logger.Error("embedding failed, chunk skipped",
					"source", source, "err", err)
				return
			}
			mu.Lock()
			toStore = append(toStore, &core.KnowledgeChunk{
				Text:   piece,
				Source: source,
				Vector: vector,
			})
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return 0, submitErr
		}
	}
	wg.Wait()

	if len(toStore) == 0 {
		return 0, nil
	}
	if err := p.chunks.AddChunks(ctx, toStore...); err != nil {
		return 0, err
	}

	p.logger.Info("indexed document", "source", source, "chunks", len(toStore))
	return len(toStore), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
