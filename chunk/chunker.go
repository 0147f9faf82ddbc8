package chunk

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultTargetSize is the preferred chunk length in bytes.
	DefaultTargetSize = 1200

	// toleranceDivisor controls how far below the target a natural boundary
	// may fall before a hard cut is used instead (target/5 = 20%).
	toleranceDivisor = 5
)

// Split divides text into ordered chunks of at most targetSize bytes,
// preferring paragraph breaks, then sentence ends, nearest to targetSize.
// When no natural boundary falls within the tolerance window the text is
// hard-cut at targetSize, backed up so a multi-byte rune is never split.
//
// Chunks are whitespace-trimmed at their boundaries; concatenating them
// in order reproduces the document text modulo that stripped whitespace
// (with overlap == 0). overlap carries up to that many trailing bytes of
// each cut into the following chunk, for callers that want context to
// bleed across chunk borders.
//
// Empty or whitespace-only input yields no chunks. Text shorter than
// targetSize yields exactly one.
func Split(text string, targetSize, overlap int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if targetSize <= 0 {
		targetSize = DefaultTargetSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= targetSize {
		overlap = targetSize / 2
	}

	var chunks []string
	remaining := text
	for len(remaining) > 0 {
		if len(remaining) <= targetSize {
			if trimmed := strings.TrimSpace(remaining); trimmed != "" {
				chunks = append(chunks, trimmed)
			}
			break
		}

		cut := boundaryCut(remaining, targetSize)
		if trimmed := strings.TrimSpace(remaining[:cut]); trimmed != "" {
			chunks = append(chunks, trimmed)
		}

		advance := cut - overlap
		if advance <= 0 {
			advance = cut
		}
		advance = runeStart(remaining, advance)
		if advance <= 0 {
			advance = cut
		}
		remaining = remaining[advance:]
	}

	return chunks
}

// boundaryCut picks the cut position for the next chunk of s, which is
// known to be longer than targetSize. The returned index is positive,
// never lands inside a multi-byte rune, and stays at or below targetSize
// except when the first rune alone is wider than the target.
func boundaryCut(s string, targetSize int) int {
	lo := targetSize - targetSize/toleranceDivisor
	hi := runeStart(s, targetSize)
	if hi == 0 {
		// The first rune is wider than targetSize. Emit it whole so the
		// caller always consumes input.
		_, width := utf8.DecodeRuneInString(s)
		return width
	}
	if lo < 1 {
		lo = 1
	}

	// Paragraph break closest to the target wins.
	if idx := strings.LastIndex(s[:hi], "\n\n"); idx >= lo {
		return idx
	}

	// Then the end of a sentence.
	for i := hi - 1; i >= lo; i-- {
		if !isSentenceEnd(s[i]) {
			continue
		}
		if i+1 >= len(s) || isBoundarySpace(s[i+1]) {
			return i + 1
		}
	}

	// Then any whitespace, so words survive where possible.
	for i := hi - 1; i >= lo; i-- {
		if isBoundarySpace(s[i]) {
			return i
		}
	}

	// No natural boundary in the window: hard cut at the target.
	return hi
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isBoundarySpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// runeStart backs i up to the start of the rune it points into.
func runeStart(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
