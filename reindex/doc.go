// Package reindex rebuilds the chunks and embeddings of stored documents
// from their persisted content, without re-reading the original files.
//
// A Reindexer handles single-document reindexing with an in-flight guard:
// at most one reindex runs per document at a time, and concurrent requests
// for the same document are rejected with ErrReindexInFlight. The Bulk
// runner walks the whole store (or only errored documents) in batches with
// progress reporting and retry, for recovery after embedding model changes
// or extended service outages.
//
// Reindexing is idempotent with respect to document identity: the document
// id, folder, title, and content are preserved, while chunks are replaced
// wholesale and the status resolves to indexed or error exactly as during
// initial ingestion.
package reindex
