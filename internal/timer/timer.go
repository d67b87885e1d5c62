// Package timer provides a cancellable delay scheduler shared by the animation
// loop and the form's auto-dismissing banners.
package timer

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// timerEntry tracks a scheduled timer
type timerEntry struct {
	timer *time.Timer
}

// SimpleTimer schedules functions with time.AfterFunc and keeps a handle per
// schedule so that any of them can be cancelled before it fires.
type SimpleTimer struct {
	timers map[string]*timerEntry
	mu     sync.Mutex
	nextID int64
}

// NewSimpleTimer creates a new SimpleTimer.
func NewSimpleTimer() *SimpleTimer {
	slog.Debug("Creating SimpleTimer")
	return &SimpleTimer{
		timers: make(map[string]*timerEntry),
	}
}

// ScheduleAfter schedules a function to run after a delay.
// A function whose timer was cancelled never runs, even if its timer already expired.
func (t *SimpleTimer) ScheduleAfter(delay time.Duration, fn func()) (string, error) {
	if fn == nil {
		return "", fmt.Errorf("SimpleTimer.ScheduleAfter: nil function")
	}
	if delay < 0 {
		delay = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := fmt.Sprintf("timer_%d", t.nextID)

	// The callback blocks on t.mu until the entry below is registered.
	t.timers[id] = &timerEntry{
		timer: time.AfterFunc(delay, func() {
			t.mu.Lock()
			_, live := t.timers[id]
			delete(t.timers, id)
			t.mu.Unlock()
			if !live {
				return
			}
			fn()
		}),
	}

	return id, nil
}

// Cancel cancels a scheduled function by ID. Unknown IDs are ignored.
func (t *SimpleTimer) Cancel(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, exists := t.timers[id]; exists {
		entry.timer.Stop()
		delete(t.timers, id)
		return nil
	}

	slog.Debug("SimpleTimer.Cancel: timer not found", "id", id)
	return nil
}

// Stop cancels all scheduled timers.
func (t *SimpleTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, entry := range t.timers {
		entry.timer.Stop()
	}
	slog.Debug("SimpleTimer stopped all timers", "count", len(t.timers))
	t.timers = make(map[string]*timerEntry)
}
