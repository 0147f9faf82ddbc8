package reindex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTrackerReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 100, 25)

	p.Start()
	p.Update(10)
	assert.Empty(t, buf.String(), "below the interval, nothing reported yet")

	p.Update(25)
	assert.Contains(t, buf.String(), "25/100")

	p.Update(60)
	assert.Contains(t, buf.String(), "60/100")
}

func TestProgressTrackerFinish(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 50, 10)

	p.Start()
	p.Update(30)
	p.Finish()

	out := buf.String()
	assert.Contains(t, out, "50/50")
	assert.Contains(t, out, "100.0%")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressTrackerCapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 1)

	p.Start()
	p.Update(999)
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTrackerIgnoresUpdatesBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 1)

	p.Update(5)
	p.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, p.Elapsed())
}
