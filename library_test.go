package docindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLibrary(t *testing.T) {
	t.Run("create new library", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_index")
		lib, err := OpenLibrary(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, lib)
		defer lib.Close()

		assert.NotNil(t, lib.DocumentRepository())
		assert.NotNil(t, lib.backend)
		assert.NotNil(t, lib.extractor)
		assert.NotNil(t, lib.embedder)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// A file path instead of a directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		lib, err := OpenLibrary(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, lib)
	})
}

func TestLibrary_Close(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, lib.Close())
}

func TestLibrary_FactoryMethods(t *testing.T) {
	lib, err := OpenLibrary(t.TempDir())
	require.NoError(t, err)
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline()
	require.NoError(t, err)
	require.NotNil(t, pipeline)

	reindexer, err := lib.NewReindexer(pipeline)
	require.NoError(t, err)
	assert.NotNil(t, reindexer)
}
