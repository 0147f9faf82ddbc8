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


package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/ingestion"
	"github.com/pawhaven/docindex/reindex"
	"github.com/pawhaven/docindex/storage"
)

// DocumentHandler serves the document ingestion and reindex endpoints.
type DocumentHandler struct {
	pipeline  *ingestion.Pipeline
	reindexer *reindex.Reindexer
	repo      storage.DocumentRepository
	logger    *slog.Logger
}

func NewDocumentHandler(pipeline *ingestion.Pipeline, reindexer *reindex.Reindexer, repo storage.DocumentRepository, logger *slog.Logger) *DocumentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentHandler{
		pipeline:  pipeline,
		reindexer: reindexer,
		repo:      repo,
		logger:    logger.With("component", "api"),
	}
}

// DocumentResponse is the JSON shape of a document.
type DocumentResponse struct {
	Id           uint64 `json:"id"`
	FolderId     uint64 `json:"folderId"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	ChunkCount   int    `json:"chunkCount"`
	SizeBytes    int64  `json:"sizeBytes"`
	HasEmbedding bool   `json:"hasEmbedding"`
	InsertedAt   string `json:"insertedAt"`
	LastUpdated  string `json:"lastUpdated"`
	Content      string `json:"content,omitempty"`
}

// FailureResponse reports one file that could not be ingested.
type FailureResponse struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchResponse is the JSON shape of a batch ingestion outcome.
type BatchResponse struct {
	Succeeded   []DocumentResponse `json:"succeeded"`
	FailedCount int                `json:"failedCount"`
	Failures    []FailureResponse  `json:"failures"`
}

// ErrorResponse is the JSON shape of an error reply.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// IngestBatch accepts a multipart upload of files under the "files" field
// plus a "folderId" form value, and ingests them as one batch. The reply
// accounts for every uploaded file, succeeded or failed.
func (h *DocumentHandler) IngestBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		h.handleError(c, http.StatusBadRequest, "No files provided", nil)
		return
	}

	folderId, err := parseFolderId(c.PostForm("folderId"))
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid folderId", err)
		return
	}

	files := make([]core.RawFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		raw, err := readUpload(header)
		if err != nil {
			h.handleError(c, http.StatusBadRequest, "Failed to read upload "+header.Filename, err)
			return
		}
		files = append(files, raw)
	}

	result, err := h.pipeline.Ingest(c.Request.Context(), files, folderId)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to process batch", err)
		return
	}

	c.JSON(http.StatusOK, toBatchResponse(result))
}

// Reindex rebuilds chunks and embeddings for one document.
// Replies 404 when the document does not exist and 409 when another
// reindex of the same document is already running.
func (h *DocumentHandler) Reindex(c *gin.Context) {
	id, err := parseDocumentId(c.Param("id"))
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid document id", err)
		return
	}

	doc, err := h.reindexer.Reindex(c.Request.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.handleError(c, http.StatusNotFound, "Document not found", err)
		return
	case errors.Is(err, reindex.ErrReindexInFlight):
		h.handleError(c, http.StatusConflict, "Reindex already in progress", err)
		return
	case err != nil:
		h.handleError(c, http.StatusInternalServerError, "Failed to reindex document", err)
		return
	}

	c.JSON(http.StatusOK, toDocumentResponse(doc, false))
}

// GetDocument returns one document including its extracted content.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, err := parseDocumentId(c.Param("id"))
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid document id", err)
		return
	}

	doc, err := h.repo.GetDocument(c.Request.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.handleError(c, http.StatusNotFound, "Document not found", err)
		return
	case err != nil:
		h.handleError(c, http.StatusInternalServerError, "Failed to get document", err)
		return
	}

	c.JSON(http.StatusOK, toDocumentResponse(doc, true))
}

// ListByFolder returns all documents in a folder, without content bodies.
func (h *DocumentHandler) ListByFolder(c *gin.Context) {
	folderId, err := parseFolderId(c.Param("folderId"))
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid folder id", err)
		return
	}

	docs, err := h.repo.GetDocumentsByFolder(c.Request.Context(), folderId)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to list documents", err)
		return
	}

	responses := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = toDocumentResponse(doc, false)
	}
	c.JSON(http.StatusOK, gin.H{"documents": responses})
}

func (h *DocumentHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message, "path", c.Request.URL.Path, "err", err)

	response := ErrorResponse{Message: message}
	if err != nil {
		response.Error = err.Error()
	}
	c.JSON(status, response)
}

func parseFolderId(s string) (core.ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return core.ID(v), nil
}

func parseDocumentId(s string) (core.ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return core.ID(v), nil
}

func readUpload(header *multipart.FileHeader) (core.RawFile, error) {
	f, err := header.Open()
	if err != nil {
		return core.RawFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return core.RawFile{}, err
	}

	declared := header.Header.Get("Content-Type")
	if declared == "application/octet-stream" {
		// Generic browser default: fall back to the filename extension.
		declared = ""
	}
	return core.RawFile{
		Name:         header.Filename,
		DeclaredType: declared,
		Data:         data,
	}, nil
}

func toDocumentResponse(doc *core.Document, includeContent bool) DocumentResponse {
	resp := DocumentResponse{
		Id:           uint64(doc.Id),
		FolderId:     uint64(doc.FolderId),
		Title:        doc.Title,
		Status:       doc.Status.String(),
		ChunkCount:   doc.ChunkCount,
		SizeBytes:    doc.SizeBytes,
		HasEmbedding: doc.HasEmbedding(),
		InsertedAt:   doc.InsertedAt.Format(time.RFC3339),
		LastUpdated:  doc.LastUpdated.Format(time.RFC3339),
	}
	if includeContent {
		resp.Content = doc.Content
	}
	return resp
}

func toBatchResponse(result *core.BatchResult) BatchResponse {
	resp := BatchResponse{
		Succeeded:   make([]DocumentResponse, len(result.Succeeded)),
		FailedCount: result.FailedCount,
		Failures:    make([]FailureResponse, len(result.Failures)),
	}
	for i, doc := range result.Succeeded {
		resp.Succeeded[i] = toDocumentResponse(doc, false)
	}
	for i, failure := range result.Failures {
		resp.Failures[i] = FailureResponse{Name: failure.Name, Reason: failure.Reason}
	}
	return resp
}
