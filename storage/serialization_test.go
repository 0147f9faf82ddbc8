package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawhaven/docindex/core"
)

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := &core.Document{
		Id:          42,
		FolderId:    7,
		Title:       "quarterly-report.pdf",
		Content:     "extracted text with unicode: 日本語",
		Status:      core.StatusIndexed,
		ChunkCount:  3,
		SizeBytes:   4096,
		ContentHash: core.Fingerprint("extracted text with unicode: 日本語"),
		Embedding:   []float32{0.25, -0.5, 1.0},
		InsertedAt:  now,
		LastUpdated: now.Add(time.Minute),
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDocumentRoundTripNoEmbedding(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	doc := &core.Document{
		Id:          1,
		Title:       "failed.txt",
		Status:      core.StatusError,
		InsertedAt:  now,
		LastUpdated: now,
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)
	assert.False(t, got.HasEmbedding())
	assert.Equal(t, core.StatusError, got.Status)
}

func TestChunkRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	chunk := &core.DocumentChunk{
		Id:         9,
		DocumentId: 42,
		ChunkIndex: 2,
		ChunkText:  "a piece of the document",
		TokenCount: 6,
		Embedding:  []float32{0.1, 0.2},
		InsertedAt: now,
	}

	got, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, got)
}

func TestIDRoundTrip(t *testing.T) {
	got, err := UnmarshalID(MarshalID(core.ID(123456789)))
	require.NoError(t, err)
	assert.Equal(t, core.ID(123456789), got)
}

func TestUnmarshalDocumentGarbage(t *testing.T) {
	_, err := UnmarshalDocument([]byte{})
	assert.Error(t, err)
}
