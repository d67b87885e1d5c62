// Package typing drives the hero text animation: it types a phrase one
// character at a time, holds it, deletes it again and moves on to the next
// phrase in the rotation.
package typing

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/BTreeMap/CyberCore/internal/timer"
)

// MaxJitter bounds the random offset added to every character delay.
const MaxJitter = 50 * time.Millisecond

// Error variables for construction and lifecycle failures
var (
	ErrNoPhrases      = errors.New("typing: phrase list is empty")
	ErrNilTarget      = errors.New("typing: render target is nil")
	ErrInvalidConfig  = errors.New("typing: intervals must not be negative")
	ErrAlreadyStarted = errors.New("typing: sequencer already started")
	ErrStopped        = errors.New("typing: sequencer stopped")
)

// Mode is the animation phase of a Sequencer.
type Mode int

const (
	// Typing appends one character per tick.
	Typing Mode = iota
	// PauseAfterType holds the fully typed phrase.
	PauseAfterType
	// Deleting removes one character per tick.
	Deleting
)

func (m Mode) String() string {
	switch m {
	case Typing:
		return "typing"
	case PauseAfterType:
		return "pause"
	case Deleting:
		return "deleting"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config holds the animation timing.
type Config struct {
	TypeInterval   time.Duration // delay between typed characters
	DeleteInterval time.Duration // delay between deleted characters
	PauseAfterType time.Duration // hold time for a fully typed phrase
	Loop           bool          // keep cycling after the last phrase
}

// DefaultConfig returns the stock timing: 100ms per typed character, 50ms per
// deleted character, a 2s hold and endless looping.
func DefaultConfig() Config {
	return Config{
		TypeInterval:   100 * time.Millisecond,
		DeleteInterval: 50 * time.Millisecond,
		PauseAfterType: 2 * time.Second,
		Loop:           true,
	}
}

func (c Config) validate() error {
	if c.TypeInterval < 0 || c.DeleteInterval < 0 || c.PauseAfterType < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Scheduler runs a function after a delay and can cancel it by ID.
type Scheduler interface {
	ScheduleAfter(delay time.Duration, fn func()) (string, error)
	Cancel(id string) error
}

// Opts holds configuration options for a Sequencer.
type Opts struct {
	Config    Config
	Scheduler Scheduler
	Jitter    func() time.Duration
}

// Option defines a configuration option for a Sequencer.
type Option func(*Opts)

// WithConfig sets the animation timing.
func WithConfig(cfg Config) Option {
	return func(o *Opts) {
		o.Config = cfg
	}
}

// WithScheduler sets the scheduler used to chain ticks.
func WithScheduler(s Scheduler) Option {
	return func(o *Opts) {
		o.Scheduler = s
	}
}

// WithJitter replaces the per-tick jitter source.
func WithJitter(fn func() time.Duration) Option {
	return func(o *Opts) {
		o.Jitter = fn
	}
}

// WithRand draws jitter uniformly from [0, MaxJitter) using r.
func WithRand(r *rand.Rand) Option {
	return func(o *Opts) {
		o.Jitter = func() time.Duration {
			return time.Duration(r.Int64N(int64(MaxJitter)))
		}
	}
}

// WithoutJitter disables jitter entirely.
func WithoutJitter() Option {
	return WithJitter(func() time.Duration { return 0 })
}

func defaultJitter() time.Duration {
	return time.Duration(rand.Int64N(int64(MaxJitter)))
}

// Snapshot is a point-in-time view of a Sequencer.
type Snapshot struct {
	PhraseIndex int
	CharIndex   int
	Mode        Mode
	Text        string
	Ticks       uint64
	Done        bool
}

// Sequencer renders an ever-changing prefix of the current phrase into its target.
//
// Each tick schedules the next one; the pending tick is kept as a handle so
// Stop can cancel it. All state is guarded by mu, and the target is written
// while mu is held so nothing renders after Stop returns.
type Sequencer struct {
	target  Target
	phrases [][]rune
	cfg     Config
	sched   Scheduler
	jitter  func() time.Duration

	mu          sync.Mutex
	phraseIndex int
	charIndex   int
	mode        Mode
	text        string
	ticks       uint64
	pending     string
	started     bool
	stopped     bool
	finished    bool
	done        chan struct{}
}

// NewSequencer creates a Sequencer over phrases rendering into target.
// Ticks run on a private timer.SimpleTimer unless WithScheduler is given.
func NewSequencer(target Target, phrases []string, opts ...Option) (*Sequencer, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}

	o := Opts{Config: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Config.validate(); err != nil {
		return nil, err
	}
	if o.Scheduler == nil {
		o.Scheduler = timer.NewSimpleTimer()
	}
	if o.Jitter == nil {
		o.Jitter = defaultJitter
	}

	runes := make([][]rune, len(phrases))
	for i, p := range phrases {
		runes[i] = []rune(p)
	}

	slog.Debug("Sequencer created", "phrases", len(phrases), "type_interval", o.Config.TypeInterval,
		"delete_interval", o.Config.DeleteInterval, "pause", o.Config.PauseAfterType, "loop", o.Config.Loop)

	return &Sequencer{
		target:  target,
		phrases: runes,
		cfg:     o.Config,
		sched:   o.Scheduler,
		jitter:  o.Jitter,
		mode:    Typing,
		done:    make(chan struct{}),
	}, nil
}

// Start runs the first tick immediately and chains the rest through the scheduler.
func (s *Sequencer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.stepLocked()
	return nil
}

// Stop cancels the pending tick. It is safe to call more than once.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.pending != "" {
		if err := s.sched.Cancel(s.pending); err != nil {
			slog.Warn("Sequencer.Stop: failed to cancel pending tick", "id", s.pending, "error", err)
		}
		s.pending = ""
	}
	s.closeDone()
	slog.Debug("Sequencer stopped", "ticks", s.ticks)
}

// Done is closed once the sequence reaches its terminal state or is stopped.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

// State returns a snapshot of the current state.
func (s *Sequencer) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		PhraseIndex: s.phraseIndex,
		CharIndex:   s.charIndex,
		Mode:        s.mode,
		Text:        s.text,
		Ticks:       s.ticks,
		Done:        s.finished || s.stopped,
	}
}

func (s *Sequencer) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.finished {
		return
	}
	s.pending = ""
	s.stepLocked()
}

// stepLocked performs one tick and schedules the next. Caller holds mu.
func (s *Sequencer) stepLocked() {
	s.ticks++

	delay, more := s.advance()
	if !more {
		s.finished = true
		s.closeDone()
		slog.Debug("Sequencer finished", "phrase_index", s.phraseIndex, "ticks", s.ticks)
		return
	}

	id, err := s.sched.ScheduleAfter(delay, s.tick)
	if err != nil {
		slog.Error("Sequencer: failed to schedule next tick", "error", err)
		s.finished = true
		s.closeDone()
		return
	}
	s.pending = id
}

// advance applies one transition and returns the delay before the next tick.
// It returns false when the sequence has reached its terminal state.
func (s *Sequencer) advance() (time.Duration, bool) {
	phrase := s.phrases[s.phraseIndex]

	switch s.mode {
	case Typing:
		if s.charIndex < len(phrase) {
			s.charIndex++
		}
		s.render(string(phrase[:s.charIndex]))
		if s.charIndex == len(phrase) {
			s.mode = PauseAfterType
			return s.cfg.PauseAfterType, true
		}
		return s.cfg.TypeInterval + s.jitter(), true

	case PauseAfterType:
		// The hold has elapsed; this tick writes nothing.
		if !s.cfg.Loop && s.phraseIndex == len(s.phrases)-1 {
			return 0, false
		}
		s.mode = Deleting
		return s.cfg.DeleteInterval + s.jitter(), true

	case Deleting:
		if s.charIndex > 0 {
			s.charIndex--
		}
		s.render(string(phrase[:s.charIndex]))
		if s.charIndex == 0 {
			s.phraseIndex = (s.phraseIndex + 1) % len(s.phrases)
			s.mode = Typing
			return s.cfg.TypeInterval + s.jitter(), true
		}
		return s.cfg.DeleteInterval + s.jitter(), true
	}

	return 0, false
}

func (s *Sequencer) render(text string) {
	s.text = text
	s.target.SetText(text)
}

func (s *Sequencer) closeDone() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
