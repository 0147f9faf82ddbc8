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


package docindex

import (
	"log/slog"

	"github.com/pawhaven/docindex/ai"
	"github.com/pawhaven/docindex/ai/openai"
	"github.com/pawhaven/docindex/extract"
	"github.com/pawhaven/docindex/ingestion"
	"github.com/pawhaven/docindex/reindex"
	"github.com/pawhaven/docindex/storage"
	"github.com/pawhaven/docindex/storage/badger"
)

// Library is the top-level handle to a document index: the storage backend,
// the document repository, the extractor registry, and the embedder, wired
// together and ready to build pipelines from.
type Library struct {
	backend   *badger.Backend
	repo      storage.DocumentRepository
	extractor extract.Extractor
	embedder  ai.Embedder
	logger    *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// OpenLibrary opens or creates a document index at filePath.
func OpenLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Library{
		backend:   backend,
		repo:      repo,
		extractor: extract.DefaultRegistry(),
		embedder:  embedder,
		logger:    slog.Default(),
	}, nil
}

// Close releases the repository and the storage backend.
func (l *Library) Close() error {
	if err := l.repo.Close(); err != nil {
		l.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the underlying document repository.
func (l *Library) DocumentRepository() storage.DocumentRepository {
	return l.repo
}

// NewIngestionPipeline builds an ingestion pipeline over the library's
// repository, extractor registry, and embedder.
func (l *Library) NewIngestionPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(l.repo, l.extractor, l.embedder, opts...)
}

// NewReindexer builds a reindexer sharing the given pipeline's indexer, so
// ingestion and reindex resolve documents through the same path.
func (l *Library) NewReindexer(pipeline *ingestion.Pipeline, opts ...reindex.Option) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(l.repo, pipeline.Indexer(), opts...)
}
