// Package ingestion provides pipeline orchestration for turning uploaded
// files into indexed, embedded document chunks.
//
// The Pipeline type manages the ingestion workflow for a batch of files:
//   - Extracting plain text per file
//   - Creating a document row in the processing state
//   - Splitting the text into chunks
//   - Generating chunk and document-level embeddings
//   - Persisting chunks and resolving the document to indexed or error
//
// Files within a batch are processed concurrently on a bounded worker pool,
// and failures are isolated per file: one unparseable file never aborts the
// rest of the batch. An embedding failure degrades a file rather than
// failing it — its chunks are stored without vectors and the document is
// marked error so a later reindex can recover it.
package ingestion
