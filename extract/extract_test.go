package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextCanExtract(t *testing.T) {
	p := NewPlainText()

	assert.True(t, p.CanExtract(".txt"))
	assert.True(t, p.CanExtract(".md"))
	assert.True(t, p.CanExtract(".TXT"))
	assert.True(t, p.CanExtract("text/plain"))
	assert.True(t, p.CanExtract("text/plain; charset=utf-8"))
	assert.False(t, p.CanExtract(".pdf"))
	assert.False(t, p.CanExtract(".xyz"))
	assert.False(t, p.CanExtract(""))
}

func TestPlainTextExtract(t *testing.T) {
	p := NewPlainText()

	text, err := p.Extract(context.Background(), []byte("hello world"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestPlainTextExtractInvalidUTF8(t *testing.T) {
	p := NewPlainText()

	_, err := p.Extract(context.Background(), []byte{0xff, 0xfe, 0x00}, ".txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestPDFCanExtract(t *testing.T) {
	p := NewPDF()

	assert.True(t, p.CanExtract(".pdf"))
	assert.True(t, p.CanExtract("application/pdf"))
	assert.True(t, p.CanExtract(".PDF"))
	assert.False(t, p.CanExtract(".txt"))
}

func TestPDFExtractCorruptBytes(t *testing.T) {
	p := NewPDF()

	_, err := p.Extract(context.Background(), []byte("this is not a pdf"), ".pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestRegistryDispatch(t *testing.T) {
	r := DefaultRegistry()

	text, err := r.Extract(context.Background(), []byte("plain content"), ".md")
	require.NoError(t, err)
	assert.Equal(t, "plain content", text)
}

func TestRegistryUnsupportedFormat(t *testing.T) {
	r := DefaultRegistry()

	assert.False(t, r.CanExtract(".xyz"))

	_, err := r.Extract(context.Background(), []byte("data"), ".xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegistryFirstMatchWins(t *testing.T) {
	r := NewRegistry(NewPlainText(), NewPlainText())

	text, err := r.Extract(context.Background(), []byte("ok"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}
