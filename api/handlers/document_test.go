package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhaven/docindex/ai/mock"
	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/extract"
	"github.com/pawhaven/docindex/ingestion"
	"github.com/pawhaven/docindex/reindex"
	"github.com/pawhaven/docindex/storage"
	"github.com/pawhaven/docindex/storage/badger"
)

func setupRouter(t *testing.T) (*gin.Engine, storage.DocumentRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	pipeline, err := ingestion.NewPipeline(repo, extract.DefaultRegistry(), mock.NewEmbedder())
	require.NoError(t, err)
	reindexer, err := reindex.NewReindexer(repo, pipeline.Indexer())
	require.NoError(t, err)

	h := NewHandlers(pipeline, reindexer, repo, slog.Default())

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	docs := v1.Group("/documents")
	docs.POST("/batch", h.Document.IngestBatch)
	docs.POST("/:id/reindex", h.Document.Reindex)
	docs.GET("/:id", h.Document.GetDocument)
	v1.GET("/folders/:folderId/documents", h.Document.ListByFolder)

	return engine, repo
}

func multipartBatch(t *testing.T, folderId string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("folderId", folderId))
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestIngestBatchEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartBatch(t, "5", map[string]string{
		"notes.txt":  "Some notes worth indexing.",
		"readme.md":  "A readme file.",
		"binary.xyz": "unsupported",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Succeeded, 2)
	assert.Equal(t, 1, resp.FailedCount)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "binary.xyz", resp.Failures[0].Name)

	for _, doc := range resp.Succeeded {
		assert.Equal(t, uint64(5), doc.FolderId)
		assert.Equal(t, "indexed", doc.Status)
		assert.Empty(t, doc.Content, "batch responses omit content bodies")
	}
}

func TestIngestBatchNoFiles(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartBatch(t, "1", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestBatchBadFolderId(t *testing.T) {
	router, _ := setupRouter(t)

	body, contentType := multipartBatch(t, "not-a-number", map[string]string{"a.txt": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDocumentEndpoint(t *testing.T) {
	router, repo := setupRouter(t)

	doc, err := repo.CreateDocument(context.Background(), &core.Document{
		FolderId: 2,
		Title:    "stored.txt",
		Content:  "stored content",
		Status:   core.StatusIndexed,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/documents/%d", doc.Id), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(doc.Id), resp.Id)
	assert.Equal(t, "stored.txt", resp.Title)
	assert.Equal(t, "stored content", resp.Content)
}

func TestGetDocumentNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents/99999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/documents/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReindexEndpoint(t *testing.T) {
	router, repo := setupRouter(t)

	doc, err := repo.CreateDocument(context.Background(), &core.Document{
		FolderId: 1,
		Title:    "rebuild.txt",
		Content:  "content that needs new chunks",
		Status:   core.StatusError,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/documents/%d/reindex", doc.Id), nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "indexed", resp.Status)
	assert.Equal(t, 1, resp.ChunkCount)
}

func TestReindexNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/documents/424242/reindex", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListByFolderEndpoint(t *testing.T) {
	router, repo := setupRouter(t)

	for i := 0; i < 3; i++ {
		_, err := repo.CreateDocument(context.Background(), &core.Document{
			FolderId: 9,
			Title:    fmt.Sprintf("doc-%d.txt", i),
			Content:  "body",
			Status:   core.StatusIndexed,
		})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/folders/9/documents", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Documents []DocumentResponse `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Documents, 3)
}
