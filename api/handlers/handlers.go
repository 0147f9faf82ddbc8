package handlers

import (
	"log/slog"

	"github.com/pawhaven/docindex/ingestion"
	"github.com/pawhaven/docindex/reindex"
	"github.com/pawhaven/docindex/storage"
)

// Handlers bundles the HTTP handlers exposed by the API.
type Handlers struct {
	Document *DocumentHandler
}

func NewHandlers(
	pipeline *ingestion.Pipeline,
	reindexer *reindex.Reindexer,
	repo storage.DocumentRepository,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		Document: NewDocumentHandler(pipeline, reindexer, repo, logger),
	}
}
