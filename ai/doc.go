// Package ai defines the embedding service abstraction used by the
// ingestion pipeline and reindexer.
//
// The Embedder interface covers both single-text and order-preserving batch
// embedding. Production use goes through the openai subpackage, which talks
// to any OpenAI-compatible endpoint; tests use the mock subpackage.
package ai
