package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerFrames(t *testing.T) {
	assert.Equal(t, []string{"◐", "◓", "◑", "◒"}, SpinnerFrames.Frames)
	assert.Equal(t, 100*time.Millisecond, SpinnerFrames.FPS)
}

func TestSpinner_StartStop(t *testing.T) {
	DisableColors()
	var out syncBuffer

	s := NewSpinner(&out, "Searching")
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	got := out.String()
	assert.Contains(t, got, "◐ Searching...")
	assert.Contains(t, got, "◓ Searching...", "animation advanced")
	assert.True(t, strings.HasSuffix(got, "\r"), "line is cleared on stop")
}

func TestSpinner_StopIdempotent(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "x")

	assert.NotPanics(t, func() {
		s.Stop()
		s.Start()
		s.Start()
		s.Stop()
		s.Stop()
	})
}

func TestSpinner_SetLabel(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "one")
	s.SetLabel("two")
	assert.Equal(t, "two", s.Label())
}
