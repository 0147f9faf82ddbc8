package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint computes a BLAKE2b content hash of a document's extracted text.
// Two documents with equal fingerprints have byte-identical content, which is
// what makes repeated reindexing of unchanged content a no-op at the chunk level.
func Fingerprint(text string) uint64 {
	return uint64(IDFromContent(text))
}

// DocumentStatus tracks where a document is in the indexing lifecycle.
type DocumentStatus int

const (
	// StatusProcessing is the initial, transient state while a document's
	// chunks and embeddings are being produced.
	StatusProcessing DocumentStatus = iota + 1
	// StatusIndexed means chunks are persisted and embeddings were computed.
	StatusIndexed
	// StatusError means chunks are persisted but the embedding step failed.
	// The document text remains browsable; a later reindex can recover it.
	StatusError
)

// String returns the wire representation of the status.
func (s DocumentStatus) String() string {
	switch s {
	case StatusProcessing:
		return "processing"
	case StatusIndexed:
		return "indexed"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseDocumentStatus converts a wire value back to a DocumentStatus.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch s {
	case "processing":
		return StatusProcessing, nil
	case "indexed":
		return StatusIndexed, nil
	case "error":
		return StatusError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Document represents one ingested file in the knowledge base.
// Content holds the full extracted text; the chunks carry the same text
// split into retrieval-sized pieces.
type Document struct {
	Id          ID
	FolderId    ID
	Title       string
	Content     string
	Status      DocumentStatus
	ChunkCount  int
	SizeBytes   int64
	ContentHash uint64    // Fingerprint of Content as of the last index pass
	Embedding   []float32 // Document-level embedding (empty until computed)
	InsertedAt  time.Time
	LastUpdated time.Time // Updated on every status transition
}

// SizeKb returns the source file size in whole kilobytes, rounded up.
func (d *Document) SizeKb() int64 {
	if d.SizeBytes <= 0 {
		return 0
	}
	return (d.SizeBytes + 1023) / 1024
}

// HasEmbedding reports whether the document-level embedding was computed.
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// DocumentChunk is a bounded-size contiguous piece of a document's text,
// the unit of embedding and retrieval. Chunks are replaced wholesale on
// reindex, never patched individually.
type DocumentChunk struct {
	Id         ID
	DocumentId ID
	ChunkIndex int // 0-based position within the document
	ChunkText  string
	TokenCount int
	Embedding  []float32 // Empty if the embedding step failed for this document
	InsertedAt time.Time
}

// RawFile is an uploaded file as submitted to the ingestion pipeline.
type RawFile struct {
	Name         string
	DeclaredType string // Extension or MIME type as declared by the uploader
	Data         []byte
}

// Size returns the declared byte size of the file.
func (f *RawFile) Size() int64 {
	return int64(len(f.Data))
}

// FileFailure records a file that could not be ingested at all
// (extraction-level failure; no document row exists for it).
type FileFailure struct {
	Name   string
	Reason string
}

// BatchResult aggregates per-file outcomes of one ingestion call.
// Documents land in Succeeded whether they finished indexed or error;
// only files that failed before a document was created count as failures.
type BatchResult struct {
	Succeeded   []*Document
	FailedCount int
	Failures    []FileFailure
}

// EstimateTokens returns a rough token count for text, using the common
// four-characters-per-token heuristic in place of a real tokenizer.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
