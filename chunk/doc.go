// Package chunk splits extracted document text into retrieval-sized pieces.
//
// Splitting is a pure function of its inputs: the same text and parameters
// always produce the same chunk sequence. That determinism is what makes
// reindexing a document with unchanged content reproduce the identical
// chunk set.
package chunk
