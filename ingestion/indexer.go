// Copyright 2025 Pawhaven Labs
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
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/pawhaven/docindex/ai"
	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/storage"
)

const (
	// DefaultMaxEmbeddingInputLength bounds the content prefix used for the
	// document-level embedding, respecting embedding service input limits.
	DefaultMaxEmbeddingInputLength = 8000

	// DefaultEmbedTimeout bounds each embedding service call.
	DefaultEmbedTimeout = 30 * time.Second
)

// Indexer performs the embed-and-persist step shared by the ingestion
// pipeline and the reindexer: given a document in the processing state and
// its chunk texts, it requests embeddings, stores the chunks, and resolves
// the document to indexed or error.
type Indexer struct {
	repo          storage.DocumentRepository
	embedder      ai.Embedder
	maxEmbedInput int
	embedTimeout  time.Duration
	logger        *slog.Logger
}

// NewIndexer creates an indexer. maxEmbedInput and embedTimeout fall back to
// the package defaults when zero.
func NewIndexer(repo storage.DocumentRepository, embedder ai.Embedder, maxEmbedInput int, embedTimeout time.Duration, logger *slog.Logger) (*Indexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if maxEmbedInput <= 0 {
		maxEmbedInput = DefaultMaxEmbeddingInputLength
	}
	if embedTimeout <= 0 {
		embedTimeout = DefaultEmbedTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		repo:          repo,
		embedder:      embedder,
		maxEmbedInput: maxEmbedInput,
		embedTimeout:  embedTimeout,
		logger:        logger.With("component", "indexer"),
	}, nil
}

// IndexChunks embeds chunkTexts and the document content prefix, persists
// the chunks, and flips the document status.
//
// On embedding success, chunk i stores the vector at position i of the
// embedder's response (the embedder's order-preservation contract is what
// ties vectors back to chunk indices). On any embedding failure — including
// timeout and a response length mismatch — every chunk is still persisted
// with no embedding and the document resolves to the error status, so the
// text remains browsable until a reindex succeeds.
//
// Store-layer write errors are returned to the caller; the document is not
// reported successfully processed when its rows failed to persist.
func (ix *Indexer) IndexChunks(ctx context.Context, doc *core.Document, chunkTexts []string) (*core.Document, error) {
	if len(chunkTexts) == 0 {
		// Empty content: nothing to embed, the document is trivially indexed.
		doc.ChunkCount = 0
		doc.Embedding = nil
		doc.Status = core.StatusIndexed
		return ix.repo.UpdateDocument(ctx, doc)
	}

	vectors, docVector, embedErr := ix.embed(ctx, doc, chunkTexts)

	chunks := make([]*core.DocumentChunk, len(chunkTexts))
	for i, text := range chunkTexts {
		chunks[i] = &core.DocumentChunk{
			DocumentId: doc.Id,
			ChunkIndex: i,
			ChunkText:  text,
			TokenCount: core.EstimateTokens(text),
		}
		if embedErr == nil {
			chunks[i].Embedding = vectors[i]
		}
	}

	if _, err := ix.repo.AddChunks(ctx, chunks...); err != nil {
		return nil, fmt.Errorf("persisting chunks for document %d: %w", doc.Id, err)
	}

	doc.ChunkCount = len(chunks)
	if embedErr != nil {
		ix.logger.Warn("embedding failed, storing chunks without vectors",
			"document", doc.Id, "chunks", len(chunks), "err", embedErr)
		doc.Embedding = nil
		doc.Status = core.StatusError
	} else {
		doc.Embedding = docVector
		doc.Status = core.StatusIndexed
	}

	updated, err := ix.repo.UpdateDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("updating document %d: %w", doc.Id, err)
	}
	return updated, nil
}

// embed requests the chunk batch embedding and the document-level embedding.
// Both calls share the configured timeout. Any failure is reported as one
// embedding error so the caller takes the fallback path atomically.
func (ix *Indexer) embed(ctx context.Context, doc *core.Document, chunkTexts []string) ([][]float32, []float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, ix.embedTimeout)
	defer cancel()

	vectors, err := ix.embedder.EmbedTexts(embedCtx, chunkTexts)
	if err != nil {
		return nil, nil, err
	}
	if len(vectors) != len(chunkTexts) {
		return nil, nil, fmt.Errorf("%w: expected %d, received %d",
			ErrEmbeddingMismatch, len(chunkTexts), len(vectors))
	}

	docCtx, cancel := context.WithTimeout(ctx, ix.embedTimeout)
	defer cancel()

	docVector, err := ix.embedder.EmbedText(docCtx, truncateRunes(doc.Content, ix.maxEmbedInput))
	if err != nil {
		return nil, nil, err
	}

	return vectors, docVector, nil
}

// truncateRunes cuts s to at most max bytes without splitting a multi-byte rune.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
