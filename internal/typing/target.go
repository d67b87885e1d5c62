package typing

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Target is the surface the animation writes to. SetText replaces whatever is displayed.
type Target interface {
	SetText(text string)
}

// WriterTarget redraws a single terminal line on an io.Writer.
type WriterTarget struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	failed bool
}

// NewWriterTarget returns a WriterTarget that prints prefix before each frame.
func NewWriterTarget(w io.Writer, prefix string) *WriterTarget {
	return &WriterTarget{w: w, prefix: prefix}
}

// SetText returns the cursor to column 0, clears the line and writes the new frame.
func (t *WriterTarget) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintf(t.w, "\r\x1b[K%s%s", t.prefix, text); err != nil && !t.failed {
		// Only the first failure is logged; the animation keeps running regardless.
		t.failed = true
		slog.Warn("WriterTarget.SetText: write failed", "error", err)
	}
}

// LineTarget keeps the latest frame in memory for a renderer that redraws on its own schedule.
type LineTarget struct {
	mu      sync.RWMutex
	text    string
	changes chan struct{}
}

// NewLineTarget creates an empty LineTarget.
func NewLineTarget() *LineTarget {
	return &LineTarget{changes: make(chan struct{}, 1)}
}

// SetText stores text and signals Changes without blocking.
func (t *LineTarget) SetText(text string) {
	t.mu.Lock()
	t.text = text
	t.mu.Unlock()

	select {
	case t.changes <- struct{}{}:
	default:
		// a signal is already pending; the reader will pick up the latest text
	}
}

// Text returns the latest frame.
func (t *LineTarget) Text() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.text
}

// Changes receives a value whenever the frame changed since the last receive.
// Bursts of writes coalesce into one signal.
func (t *LineTarget) Changes() <-chan struct{} {
	return t.changes
}
