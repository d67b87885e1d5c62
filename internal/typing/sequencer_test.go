package typing

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/BTreeMap/CyberCore/internal/testutil"
)

func testConfig(loop bool) Config {
	return Config{
		TypeInterval:   10 * time.Millisecond,
		DeleteInterval: 10 * time.Millisecond,
		PauseAfterType: 0,
		Loop:           loop,
	}
}

func newTestSequencer(t *testing.T, phrases []string, cfg Config) (*Sequencer, *testutil.RecordingTarget, *testutil.ManualScheduler) {
	t.Helper()
	target := &testutil.RecordingTarget{}
	sched := testutil.NewManualScheduler()
	seq, err := NewSequencer(target, phrases, WithConfig(cfg), WithScheduler(sched), WithoutJitter())
	if err != nil {
		t.Fatalf("NewSequencer returned error: %v", err)
	}
	return seq, target, sched
}

func TestNewSequencerErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		phrases []string
		opts    []Option
		wantErr error
	}{
		{
			name:    "nil target",
			target:  nil,
			phrases: []string{"A"},
			wantErr: ErrNilTarget,
		},
		{
			name:    "empty phrases",
			target:  &testutil.RecordingTarget{},
			phrases: nil,
			wantErr: ErrNoPhrases,
		},
		{
			name:    "negative interval",
			target:  &testutil.RecordingTarget{},
			phrases: []string{"A"},
			opts:    []Option{WithConfig(Config{TypeInterval: -time.Millisecond})},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSequencer(tt.target, tt.phrases, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSequencer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TypeInterval != 100*time.Millisecond || cfg.DeleteInterval != 50*time.Millisecond ||
		cfg.PauseAfterType != 2*time.Second || !cfg.Loop {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestRenderSequence(t *testing.T) {
	seq, target, sched := newTestSequencer(t, []string{"AB", "C"}, testConfig(true))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if ran := sched.FireN(9); ran != 9 {
		t.Fatalf("expected 9 ticks to fire, got %d", ran)
	}

	want := []string{"A", "AB", "A", "", "C", "", "A", "AB"}
	got := target.Frames()
	if len(got) != len(want) {
		t.Fatalf("frames = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCharIndexStaysInBounds(t *testing.T) {
	phrases := []string{"SYSTEM ACCESSED", "BUILD FUTURE", "", "X"}
	seq, _, sched := newTestSequencer(t, phrases, testConfig(true))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	for i := 0; i < 500; i++ {
		st := seq.State()
		if st.PhraseIndex < 0 || st.PhraseIndex >= len(phrases) {
			t.Fatalf("tick %d: phrase index %d out of range", i, st.PhraseIndex)
		}
		if n := len([]rune(phrases[st.PhraseIndex])); st.CharIndex < 0 || st.CharIndex > n {
			t.Fatalf("tick %d: char index %d out of [0,%d]", i, st.CharIndex, n)
		}
		if !sched.Fire() {
			t.Fatalf("tick %d: nothing scheduled", i)
		}
	}
}

func TestTypingRendersPrefixes(t *testing.T) {
	phrase := "WELCOME"
	seq, target, sched := newTestSequencer(t, []string{phrase}, testConfig(true))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sched.FireN(len(phrase) - 1)

	frames := target.Frames()
	if len(frames) != len(phrase) {
		t.Fatalf("expected %d frames, got %d", len(phrase), len(frames))
	}
	for n := 1; n <= len(phrase); n++ {
		if frames[n-1] != phrase[:n] {
			t.Errorf("frame %d = %q, want %q", n, frames[n-1], phrase[:n])
		}
	}
	if st := seq.State(); st.Mode != PauseAfterType {
		t.Errorf("expected pause after typing the whole phrase, got %s", st.Mode)
	}
}

func TestFullCycleAdvancesOnePhrase(t *testing.T) {
	phrases := []string{"ABC", "DE", "F"}
	seq, target, sched := newTestSequencer(t, phrases, testConfig(true))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	// 3 typing ticks (one already ran in Start), 1 pause tick, 3 deleting ticks.
	sched.FireN(2 + 1 + 3)

	st := seq.State()
	if st.PhraseIndex != 1 || st.CharIndex != 0 || st.Mode != Typing {
		t.Errorf("after one cycle got %+v, want phrase 1, char 0, typing", st)
	}
	if target.Last() != "" {
		t.Errorf("expected empty text after deleting, got %q", target.Last())
	}
}

func TestPauseTickDoesNotRender(t *testing.T) {
	seq, target, sched := newTestSequencer(t, []string{"AB"}, testConfig(true))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sched.Fire() // "AB"
	before := len(target.Frames())
	sched.Fire() // pause
	if got := len(target.Frames()); got != before {
		t.Errorf("pause tick rendered %d frames", got-before)
	}
	if st := seq.State(); st.Mode != Deleting {
		t.Errorf("expected deleting after pause, got %s", st.Mode)
	}
}

func TestNoLoopStopsAfterLastPhrase(t *testing.T) {
	seq, target, sched := newTestSequencer(t, []string{"Hi", "Yo"}, testConfig(false))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	ran := sched.FireN(1000)
	if ran >= 1000 {
		t.Fatal("sequence never terminated")
	}
	if sched.Pending() != 0 {
		t.Errorf("expected nothing scheduled, got %d", sched.Pending())
	}
	if target.Last() != "Yo" {
		t.Errorf("expected final phrase to stay displayed, got %q", target.Last())
	}

	select {
	case <-seq.Done():
	default:
		t.Error("expected Done to be closed")
	}
	st := seq.State()
	if !st.Done || st.PhraseIndex != 1 || st.CharIndex != 2 {
		t.Errorf("unexpected terminal state %+v", st)
	}
}

func TestNoLoopSinglePhrase(t *testing.T) {
	seq, target, sched := newTestSequencer(t, []string{"BUILD"}, testConfig(false))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sched.FireN(100)

	if got := target.Frames(); len(got) != 5 || got[4] != "BUILD" {
		t.Errorf("unexpected frames %q", got)
	}
	if !seq.State().Done {
		t.Error("expected sequence to be done")
	}
}

func TestStopCancelsPendingTick(t *testing.T) {
	seq, target, sched := newTestSequencer(t, []string{"ABC"}, testConfig(true))

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if sched.Pending() != 1 {
		t.Fatalf("expected one pending tick, got %d", sched.Pending())
	}

	seq.Stop()
	seq.Stop()

	if sched.Pending() != 0 {
		t.Errorf("expected pending tick to be cancelled, got %d", sched.Pending())
	}
	frames := len(target.Frames())
	sched.FireN(10)
	if len(target.Frames()) != frames {
		t.Error("rendered after Stop")
	}
	if err := seq.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("Start after Stop error = %v, want %v", err, ErrStopped)
	}

	select {
	case <-seq.Done():
	default:
		t.Error("expected Done to be closed after Stop")
	}
}

func TestStaleTickIgnoredAfterStop(t *testing.T) {
	seq, target, _ := newTestSequencer(t, []string{"ABC"}, testConfig(true))
	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	seq.Stop()

	// A timer that already fired may still call tick after Stop.
	seq.tick()
	if len(target.Frames()) != 1 {
		t.Errorf("expected no render from a stale tick, frames %q", target.Frames())
	}
}

func TestStartTwice(t *testing.T) {
	seq, _, _ := newTestSequencer(t, []string{"A"}, testConfig(true))
	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := seq.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start error = %v, want %v", err, ErrAlreadyStarted)
	}
}

func TestDelays(t *testing.T) {
	target := &testutil.RecordingTarget{}
	sched := testutil.NewManualScheduler()
	cfg := Config{
		TypeInterval:   10 * time.Millisecond,
		DeleteInterval: 20 * time.Millisecond,
		PauseAfterType: 30 * time.Millisecond,
		Loop:           true,
	}
	jitter := 7 * time.Millisecond
	seq, err := NewSequencer(target, []string{"AB"}, WithConfig(cfg), WithScheduler(sched),
		WithJitter(func() time.Duration { return jitter }))
	if err != nil {
		t.Fatalf("NewSequencer returned error: %v", err)
	}

	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sched.FireN(4)

	want := []time.Duration{
		17 * time.Millisecond, // "A"
		30 * time.Millisecond, // "AB", hold without jitter
		27 * time.Millisecond, // pause elapsed
		27 * time.Millisecond, // "A"
		17 * time.Millisecond, // "" and back to typing
	}
	got := sched.Delays()
	if len(got) != len(want) {
		t.Fatalf("delays = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWithRandJitterBounded(t *testing.T) {
	target := &testutil.RecordingTarget{}
	sched := testutil.NewManualScheduler()
	cfg := Config{TypeInterval: 100 * time.Millisecond, DeleteInterval: 100 * time.Millisecond, Loop: true}
	seq, err := NewSequencer(target, []string{"ABCDEFGH"}, WithConfig(cfg), WithScheduler(sched),
		WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("NewSequencer returned error: %v", err)
	}
	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sched.FireN(200)

	for i, d := range sched.Delays() {
		if d == 0 {
			continue // hold
		}
		if d < 100*time.Millisecond || d >= 100*time.Millisecond+MaxJitter {
			t.Errorf("delay %d = %v outside [100ms, 150ms)", i, d)
		}
	}
}

func TestMultiByteCharacters(t *testing.T) {
	seq, target, sched := newTestSequencer(t, []string{"héé"}, testConfig(true))
	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sched.FireN(2)

	want := []string{"h", "hé", "héé"}
	got := target.Frames()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestModeString(t *testing.T) {
	tests := map[Mode]string{
		Typing:         "typing",
		PauseAfterType: "pause",
		Deleting:       "deleting",
		Mode(9):        "Mode(9)",
	}
	for m, want := range tests {
		if m.String() != want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(m), m.String(), want)
		}
	}
}

func TestSequencerWithRealTimer(t *testing.T) {
	target := NewLineTarget()
	cfg := Config{
		TypeInterval:   time.Millisecond,
		DeleteInterval: time.Millisecond,
		PauseAfterType: time.Millisecond,
		Loop:           false,
	}
	seq, err := NewSequencer(target, []string{"OK"}, WithConfig(cfg), WithoutJitter())
	if err != nil {
		t.Fatalf("NewSequencer returned error: %v", err)
	}
	if err := seq.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	select {
	case <-seq.Done():
	case <-time.After(2 * time.Second):
		seq.Stop()
		t.Fatal("sequence did not finish")
	}
	if target.Text() != "OK" {
		t.Errorf("expected final text OK, got %q", target.Text())
	}
}
