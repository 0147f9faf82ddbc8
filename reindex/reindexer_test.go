package reindex

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhaven/docindex/ai/mock"
	"github.com/pawhaven/docindex/core"
	"github.com/pawhaven/docindex/extract"
	"github.com/pawhaven/docindex/ingestion"
	"github.com/pawhaven/docindex/storage"
	"github.com/pawhaven/docindex/storage/badger"
)

type reindexFixture struct {
	repo      storage.DocumentRepository
	embedder  *mock.Embedder
	pipeline  *ingestion.Pipeline
	reindexer *Reindexer
}

func setupReindexer(t *testing.T, opts ...Option) *reindexFixture {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	embedder := mock.NewEmbedder()
	pipeline, err := ingestion.NewPipeline(repo, extract.DefaultRegistry(), embedder,
		ingestion.WithChunkSize(100))
	require.NoError(t, err)

	reindexer, err := NewReindexer(repo, pipeline.Indexer(), append([]Option{WithChunkSize(100)}, opts...)...)
	require.NoError(t, err)

	return &reindexFixture{
		repo:      repo,
		embedder:  embedder,
		pipeline:  pipeline,
		reindexer: reindexer,
	}
}

func (f *reindexFixture) ingestOne(t *testing.T, name, content string) *core.Document {
	t.Helper()
	result, err := f.pipeline.Ingest(context.Background(),
		[]core.RawFile{{Name: name, Data: []byte(content)}}, 1)
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	return result.Succeeded[0]
}

func TestReindexNotFound(t *testing.T) {
	f := setupReindexer(t)

	_, err := f.reindexer.Reindex(context.Background(), 98765)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReindexRecoversErroredDocument(t *testing.T) {
	f := setupReindexer(t)

	// Ingest while the embedding service is down.
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("service down")
	}
	content := strings.Repeat("Sentences that will split into several chunks. ", 6)
	doc := f.ingestOne(t, "broken.txt", content)
	require.Equal(t, core.StatusError, doc.Status)

	// Service is back; reindex must recover the document.
	f.embedder.EmbedTextsFunc = nil
	recovered, err := f.reindexer.Reindex(context.Background(), doc.Id)
	require.NoError(t, err)

	assert.Equal(t, doc.Id, recovered.Id)
	assert.Equal(t, core.StatusIndexed, recovered.Status)
	assert.True(t, recovered.HasEmbedding())
	assert.Equal(t, doc.ContentHash, recovered.ContentHash)

	chunks, err := f.repo.GetChunks(context.Background(), doc.Id)
	require.NoError(t, err)
	require.Equal(t, recovered.ChunkCount, len(chunks))
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEmpty(t, c.Embedding)
	}
}

func TestReindexIdempotentForUnchangedContent(t *testing.T) {
	f := setupReindexer(t)

	content := strings.Repeat("Stable content produces stable chunks every time. ", 6)
	doc := f.ingestOne(t, "stable.txt", content)
	require.Equal(t, core.StatusIndexed, doc.Status)

	before, err := f.repo.GetChunks(context.Background(), doc.Id)
	require.NoError(t, err)

	reindexed, err := f.reindexer.Reindex(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusIndexed, reindexed.Status)
	assert.Equal(t, doc.ChunkCount, reindexed.ChunkCount)

	after, err := f.repo.GetChunks(context.Background(), doc.Id)
	require.NoError(t, err)
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].ChunkText, after[i].ChunkText)
		assert.Equal(t, before[i].ChunkIndex, after[i].ChunkIndex)
	}
}

func TestReindexRefreshesStaleContentHash(t *testing.T) {
	f := setupReindexer(t)

	doc := f.ingestOne(t, "hashed.txt", "Content whose hash tracks the last index pass.")
	require.Equal(t, core.Fingerprint(doc.Content), doc.ContentHash)

	// A record whose hash fell out of sync with its content.
	doc.ContentHash++
	_, err := f.repo.UpdateDocument(context.Background(), doc)
	require.NoError(t, err)

	reindexed, err := f.reindexer.Reindex(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.Fingerprint(reindexed.Content), reindexed.ContentHash)

	stored, err := f.repo.GetDocument(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.Fingerprint(stored.Content), stored.ContentHash)
}

func TestReindexReplacesStaleChunks(t *testing.T) {
	f := setupReindexer(t)

	content := strings.Repeat("Sentence padding for the chunker to work with here. ", 8)
	doc := f.ingestOne(t, "resize.txt", content)
	originalCount := doc.ChunkCount
	require.Greater(t, originalCount, 1)

	// A reindexer with a much larger chunk size produces fewer chunks; no
	// stale rows from the first pass may survive.
	wide, err := NewReindexer(f.repo, f.pipeline.Indexer(), WithChunkSize(10000))
	require.NoError(t, err)

	reindexed, err := wide.Reindex(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, reindexed.ChunkCount)

	count, err := f.repo.CountChunks(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReindexConflict(t *testing.T) {
	f := setupReindexer(t)

	doc := f.ingestOne(t, "contended.txt", "Some content to fight over.")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		close(entered)
		<-release
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{0.5}
		}
		return vectors, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.reindexer.Reindex(context.Background(), doc.Id)
	}()

	<-entered

	// Second reindex of the same document while the first is mid-flight.
	_, err := f.reindexer.Reindex(context.Background(), doc.Id)
	assert.ErrorIs(t, err, ErrReindexInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	// Once the first finishes, reindexing is allowed again.
	f.embedder.EmbedTextsFunc = nil
	_, err = f.reindexer.Reindex(context.Background(), doc.Id)
	assert.NoError(t, err)
}
