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
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pawhaven/docindex/ai"
	"github.com/pawhaven/docindex/chunk"
	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/extract"
	"github.com/pawhaven/docindex/storage"
)

// DefaultPoolSize is the number of files processed concurrently.
const DefaultPoolSize = 4

// Pipeline ingests batches of raw files into the document store. Each file
// is extracted, chunked, embedded, and persisted independently; a failing
// file never blocks or fails its siblings.
type Pipeline struct {
	repo      storage.DocumentRepository
	extractor extract.Extractor
	indexer   *Indexer

	poolSize     int
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPoolSize sets the number of concurrently processed files.
func WithPoolSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.poolSize = n
		}
	}
}

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithChunkOverlap sets the character overlap between consecutive chunks.
func WithChunkOverlap(n int) PipelineOption {
	return func(p *Pipeline) {
		if n >= 0 {
			p.chunkOverlap = n
		}
	}
}

// WithMaxEmbeddingInputLength bounds the content prefix sent for the
// document-level embedding.
func WithMaxEmbeddingInputLength(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.indexer.maxEmbedInput = n
		}
	}
}

// WithEmbedTimeout bounds each embedding service call.
func WithEmbedTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if d > 0 {
			p.indexer.embedTimeout = d
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
			p.indexer.logger = logger.With("component", "indexer")
		}
	}
}

// NewPipeline creates an ingestion pipeline over the given repository,
// extractor, and embedder.
func NewPipeline(repo storage.DocumentRepository, extractor extract.Extractor, embedder ai.Embedder, opts ...PipelineOption) (*Pipeline, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	indexer, err := NewIndexer(repo, embedder, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		repo:      repo,
		extractor: extractor,
		indexer:   indexer,
		poolSize:  DefaultPoolSize,
		chunkSize: chunk.DefaultTargetSize,
		logger:    slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Indexer exposes the pipeline's embed-and-persist step for reuse by the
// reindexer, so both paths share one fallback behavior.
func (p *Pipeline) Indexer() *Indexer {
	return p.indexer
}

// Ingest processes files into folderId and reports the per-file outcome.
// The returned BatchResult always accounts for every input file: each one
// appears either in Succeeded or in Failures. A non-nil error is returned
// only for batch-level failures, never for individual file failures.
func (p *Pipeline) Ingest(ctx context.Context, files []core.RawFile, folderId core.ID) (*core.BatchResult, error) {
	result := &core.BatchResult{}
	if len(files) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(p.poolSize)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	recordFailure := func(name, reason string) {
		mu.Lock()
		defer mu.Unlock()
		result.FailedCount++
		result.Failures = append(result.Failures, core.FileFailure{Name: name, Reason: reason})
	}
	recordSuccess := func(doc *core.Document) {
		mu.Lock()
		defer mu.Unlock()
		result.Succeeded = append(result.Succeeded, doc)
	}

	for _, file := range files {
		if ctx.Err() != nil {
			recordFailure(file.Name, fmt.Sprintf("batch cancelled: %v", ctx.Err()))
			continue
		}
		file := file
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			doc, err := p.ingestFile(ctx, file, folderId)
			if err != nil {
				p.logger.Warn("file ingestion failed", "file", file.Name, "err", err)
				recordFailure(file.Name, err.Error())
				return
			}
			recordSuccess(doc)
		})
		if submitErr != nil {
			wg.Done()
			recordFailure(file.Name, fmt.Sprintf("scheduling: %v", submitErr))
		}
	}
	wg.Wait()

	p.logger.Info("batch complete",
		"folder", folderId,
		"succeeded", len(result.Succeeded),
		"failed", result.FailedCount)
	return result, nil
}

// ingestFile runs the full pipeline for one file. Documents that fail after
// creation are left in the error status rather than deleted, preserving
// whatever was extracted for later reindexing.
func (p *Pipeline) ingestFile(ctx context.Context, file core.RawFile, folderId core.ID) (*core.Document, error) {
	if err := core.ValidateRawFile(&file); err != nil {
		return nil, err
	}

	fileType := file.DeclaredType
	if fileType == "" {
		fileType = filepath.Ext(file.Name)
	}

	text, err := p.extractor.Extract(ctx, file.Data, fileType)
	if err != nil {
		return nil, fmt.Errorf("extracting %q: %w", file.Name, err)
	}

	chunkTexts := chunk.Split(text, p.chunkSize, p.chunkOverlap)

	doc := &core.Document{
		FolderId:    folderId,
		Title:       file.Name,
		Content:     text,
		Status:      core.StatusProcessing,
		SizeBytes:   file.Size(),
		ContentHash: core.Fingerprint(text),
	}
	doc, err = p.repo.CreateDocument(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("creating document for %q: %w", file.Name, err)
	}

	indexed, err := p.indexer.IndexChunks(ctx, doc, chunkTexts)
	if err != nil {
		// Chunk or status persistence failed. Try to surface the error state
		// on the record; either way the file counts as failed.
		doc.Status = core.StatusError
		if _, updErr := p.repo.UpdateDocument(ctx, doc); updErr != nil {
			p.logger.Error("failed to mark document errored",
				"document", doc.Id, "err", updErr)
		}
		return nil, err
	}
	return indexed, nil
}
