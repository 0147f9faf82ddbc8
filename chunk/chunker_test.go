package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	assert.Nil(t, Split("", DefaultTargetSize, 0))
	assert.Nil(t, Split("   \n\t  ", DefaultTargetSize, 0))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	text := "A short document that fits in one chunk."
	chunks := Split(text, DefaultTargetSize, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitChunkSizeBound(t *testing.T) {
	text := strings.Repeat("word ", 2000) // ~10000 bytes
	chunks := Split(text, 500, 0)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 500, "chunk %d exceeds target size", i)
		assert.NotEmpty(t, c)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	para1 := strings.Repeat("a", 450)
	para2 := strings.Repeat("b", 450)
	text := para1 + "\n\n" + para2

	chunks := Split(text, 500, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	// One long run of sentences, no paragraph breaks.
	sentence := "This sentence provides filler text for boundary testing. "
	text := strings.Repeat(sentence, 50)

	chunks := Split(text, 300, 0)

	require.Greater(t, len(chunks), 1)
	// Every chunk except possibly the last should end at a sentence boundary.
	for i := 0; i < len(chunks)-1; i++ {
		assert.True(t, strings.HasSuffix(chunks[i], "."),
			"chunk %d does not end on a sentence: %q", i, chunks[i])
	}
}

func TestSplitHardCutWithoutWhitespace(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks := Split(text, 300, 0)

	require.Len(t, chunks, 4)
	assert.Equal(t, 300, len(chunks[0]))
	assert.Equal(t, 100, len(chunks[3]))

	// Concatenation reconstructs the input exactly when no whitespace
	// was trimmed.
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitNeverSplitsRunes(t *testing.T) {
	// 3-byte runes, chunk size not a multiple of 3.
	text := strings.Repeat("日本語テキスト", 200)
	chunks := Split(text, 100, 0)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.True(t, strings.ToValidUTF8(c, "") == c,
			"chunk %d contains invalid UTF-8", i)
	}
}

func TestSplitOverlap(t *testing.T) {
	text := strings.Repeat("x", 900)
	chunks := Split(text, 300, 50)

	require.Greater(t, len(chunks), 3)
	// With overlap, each chunk after the first repeats the tail of the
	// previous one.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-50:]
		assert.True(t, strings.HasPrefix(chunks[i], tail),
			"chunk %d does not start with previous tail", i)
	}
}

func TestSplitTargetSmallerThanRune(t *testing.T) {
	// A target narrower than a single rune must still make progress: each
	// rune comes out whole instead of the loop stalling at offset zero.
	text := strings.Repeat("€", 4) // 3 bytes per rune
	chunks := Split(text, 2, 0)

	require.Len(t, chunks, 4)
	for i, c := range chunks {
		assert.Equal(t, "€", c, "chunk %d", i)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))

	// Overlap must not reintroduce the stall.
	chunks = Split(text, 2, 1)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "€", chunks[0])
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100)

	first := Split(text, 400, 0)
	second := Split(text, 400, 0)

	assert.Equal(t, first, second)
}

func TestSplitDefaultsOnInvalidParams(t *testing.T) {
	text := strings.Repeat("word ", 50)

	// Non-positive target falls back to the default size.
	chunks := Split(text, 0, 0)
	require.Len(t, chunks, 1)

	// Overlap >= target is clamped rather than looping forever.
	chunks = Split(strings.Repeat("x", 500), 100, 100)
	assert.NotEmpty(t, chunks)
}
