package ingestion

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingMismatch indicates the embedder returned a different number
	// of vectors than texts submitted. Treated like any other embedding
	// failure: chunks are persisted without embeddings.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
