package storage

import (
	"context"

	"github.com/pawhaven/docindex/core"
)

// DocumentRepository persists documents and their chunks.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// CreateDocument adds a document to storage.
	// Generates an ID from sequence when Id is 0 and sets the
	// InsertedAt/LastUpdated timestamps.
	// Returns the document with generated fields populated.
	CreateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// UpdateDocument updates an existing document.
	// Updates the LastUpdated timestamp automatically and maintains the
	// folder index when the document moved.
	// Returns ErrNotFound if the document doesn't exist.
	UpdateDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocumentsByFolder retrieves all documents in a folder, ordered by ID.
	GetDocumentsByFolder(ctx context.Context, folderId core.ID) ([]*core.Document, error)

	// ListDocuments retrieves every stored document. No ordering is
	// guaranteed.
	ListDocuments(ctx context.Context) ([]*core.Document, error)

	// DeleteDocument removes a document and cascades to all of its chunks.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error

	// AddChunks adds chunks to storage. Generates IDs from sequence and
	// sets InsertedAt timestamps. Chunks are keyed by (DocumentId, ChunkIndex).
	// Returns the chunks with generated fields populated.
	AddChunks(ctx context.Context, chunks ...*core.DocumentChunk) ([]*core.DocumentChunk, error)

	// GetChunks retrieves all chunks of a document, ordered by ChunkIndex.
	GetChunks(ctx context.Context, documentId core.ID) ([]*core.DocumentChunk, error)

	// DeleteChunksForDocument removes every chunk of a document.
	// Deleting zero chunks is not an error.
	DeleteChunksForDocument(ctx context.Context, documentId core.ID) error

	// CountChunks returns the number of persisted chunks for a document.
	CountChunks(ctx context.Context, documentId core.ID) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}
