// Package testutil provides common test utilities and helpers for CyberCore tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
)

// ScheduledCall is one pending function held by a ManualScheduler.
type ScheduledCall struct {
	ID    string
	Delay time.Duration
	Fn    func()
}

// ManualScheduler records scheduled functions and runs them only when a test says so.
// It satisfies the scheduler interfaces used by typing and contact.
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  int
	pending []ScheduledCall
	delays  []time.Duration
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// ScheduleAfter queues fn.
func (s *ManualScheduler) ScheduleAfter(delay time.Duration, fn func()) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("manual_%d", s.nextID)
	s.pending = append(s.pending, ScheduledCall{ID: id, Delay: delay, Fn: fn})
	s.delays = append(s.delays, delay)
	return id, nil
}

// Cancel drops a queued function. Unknown IDs are ignored.
func (s *ManualScheduler) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.pending {
		if c.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return nil
}

// Pending returns the number of queued functions.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Delays returns every delay ever requested, in order.
func (s *ManualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Fire runs the oldest queued function and reports whether there was one.
func (s *ManualScheduler) Fire() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	next.Fn()
	return true
}

// FireN fires up to n queued functions and returns how many ran.
func (s *ManualScheduler) FireN(n int) int {
	ran := 0
	for ran < n && s.Fire() {
		ran++
	}
	return ran
}

// RecordingTarget remembers every frame written to it.
type RecordingTarget struct {
	mu     sync.Mutex
	frames []string
}

// SetText appends text to the recorded frames.
func (r *RecordingTarget) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, text)
}

// Frames returns a copy of the recorded frames.
func (r *RecordingTarget) Frames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

// Last returns the most recent frame, or "" if none.
func (r *RecordingTarget) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return ""
	}
	return r.frames[len(r.frames)-1]
}

// WebhookRecorder is an httptest server that records form posts and answers with a fixed status.
type WebhookRecorder struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	requests []RecordedRequest
}

// RecordedRequest is one request seen by a WebhookRecorder.
type RecordedRequest struct {
	Method string
	Header http.Header
	Form   url.Values
}

// NewWebhookRecorder starts a server replying with status. The server is closed when t ends.
func NewWebhookRecorder(t *testing.T, status int) *WebhookRecorder {
	t.Helper()
	rec := &WebhookRecorder{status: status}
	rec.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		rec.mu.Lock()
		rec.requests = append(rec.requests, RecordedRequest{
			Method: r.Method,
			Header: r.Header.Clone(),
			Form:   r.PostForm,
		})
		code := rec.status
		rec.mu.Unlock()
		w.WriteHeader(code)
	}))
	t.Cleanup(rec.Close)
	return rec
}

// Requests returns the recorded requests.
func (r *WebhookRecorder) Requests() []RecordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedRequest(nil), r.requests...)
}

// SetStatus changes the status returned for subsequent requests.
func (r *WebhookRecorder) SetStatus(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}
