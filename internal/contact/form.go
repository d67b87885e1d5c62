package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/timer"
)

const (
	// DefaultBannerDuration is how long a success or failure banner stays visible.
	DefaultBannerDuration = 5 * time.Second
	// TimestampLayout formats the client-side submission time.
	TimestampLayout = "1/2/2006, 3:04:05 PM"
)

// ErrSubmissionInFlight is returned by Submit while an earlier submission is pending.
var ErrSubmissionInFlight = errors.New("contact: a submission is already in progress")

// Scheduler runs a function after a delay and can cancel it by ID.
type Scheduler interface {
	ScheduleAfter(delay time.Duration, fn func()) (string, error)
	Cancel(id string) error
}

// FormOpts holds configuration options for a Form.
type FormOpts struct {
	Scheduler      Scheduler
	BannerDuration time.Duration
	Clock          func() time.Time
	OnChange       func()
}

// FormOption defines a configuration option for a Form.
type FormOption func(*FormOpts)

// WithScheduler sets the scheduler that dismisses banners.
func WithScheduler(s Scheduler) FormOption {
	return func(o *FormOpts) {
		o.Scheduler = s
	}
}

// WithBannerDuration sets how long banners stay visible.
func WithBannerDuration(d time.Duration) FormOption {
	return func(o *FormOpts) {
		o.BannerDuration = d
	}
}

// WithClock sets the clock used to stamp submissions.
func WithClock(now func() time.Time) FormOption {
	return func(o *FormOpts) {
		o.Clock = now
	}
}

// WithOnChange registers a callback invoked after any asynchronous state change,
// such as a banner being dismissed. It is called without the form's lock held.
func WithOnChange(fn func()) FormOption {
	return func(o *FormOpts) {
		o.OnChange = fn
	}
}

// FieldView is the rendered state of a single field.
type FieldView struct {
	Value   string
	State   models.FieldState
	Message string
}

// Snapshot is a point-in-time view of the form.
type Snapshot struct {
	Fields     map[models.Field]FieldView
	Banner     models.Banner
	Submitting bool
}

// Form holds the contact form's values and validation states and runs submissions.
type Form struct {
	submitter      Submitter
	sched          Scheduler
	bannerDuration time.Duration
	now            func() time.Time
	onChange       func()

	mu         sync.Mutex
	values     map[models.Field]string
	states     map[models.Field]models.FieldState
	messages   map[models.Field]string
	banner     models.Banner
	bannerID   string
	bannerGen  uint64
	submitting bool
}

// NewForm creates an empty Form that delivers through submitter.
func NewForm(submitter Submitter, opts ...FormOption) (*Form, error) {
	if submitter == nil {
		return nil, errors.New("contact: submitter is required")
	}
	cfg := FormOpts{BannerDuration: DefaultBannerDuration, Clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = timer.NewSimpleTimer()
	}

	f := &Form{
		submitter:      submitter,
		sched:          cfg.Scheduler,
		bannerDuration: cfg.BannerDuration,
		now:            cfg.Clock,
		onChange:       cfg.OnChange,
	}
	f.resetLocked()
	return f, nil
}

// Input sets a field's value and clears an error shown on it.
func (f *Form) Input(field models.Field, value string) error {
	if !models.IsValidField(field) {
		return models.ErrUnknownField
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[field] = value
	if f.states[field] == models.FieldStateError {
		f.states[field] = models.FieldStateNeutral
		f.messages[field] = ""
	}
	return nil
}

// Blur validates a single field, as when focus leaves it.
func (f *Form) Blur(field models.Field) (models.FieldResult, error) {
	if !models.IsValidField(field) {
		return models.FieldResult{Field: field, Err: models.ErrUnknownField}, models.ErrUnknownField
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	res := ValidateField(field, f.values[field])
	if field != models.FieldMessage {
		f.applyLocked(res)
	}
	return res, nil
}

// Value returns the current value of a field.
func (f *Form) Value(field models.Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Submit validates every field and, when all pass, delivers the submission once.
//
// Validation failures return OutcomeInvalid without touching the network. A
// delivery failure returns OutcomeFailed together with the cause, which is
// only meant for diagnostics.
func (f *Form) Submit(ctx context.Context) (models.Outcome, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return "", ErrSubmissionInFlight
	}
	f.hideBannerLocked()

	sub := models.Submission{
		Name:    f.values[models.FieldName],
		Phone:   f.values[models.FieldPhone],
		Message: f.values[models.FieldMessage],
	}
	result := ValidateForm(sub)
	for _, r := range result.Fields {
		f.applyLocked(r)
	}
	if !result.Valid() {
		f.mu.Unlock()
		slog.Debug("Form.Submit: validation failed", "errors", result.Errors())
		f.notify()
		return models.OutcomeInvalid, nil
	}

	f.submitting = true
	sub.Timestamp = f.now().Format(TimestampLayout)
	f.mu.Unlock()
	f.notify()

	err := f.submitter.Submit(ctx, sub)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.showBannerLocked(models.BannerFailure)
		f.mu.Unlock()
		slog.Error("Form.Submit: delivery failed", "error", err)
		f.notify()
		return models.OutcomeFailed, err
	}
	f.resetLocked()
	f.showBannerLocked(models.BannerSuccess)
	f.mu.Unlock()
	slog.Info("Form.Submit: submission accepted")
	f.notify()
	return models.OutcomeSubmitted, nil
}

// Snapshot returns the current form state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := make(map[models.Field]FieldView, len(models.Fields))
	for _, field := range models.Fields {
		fields[field] = FieldView{
			Value:   f.values[field],
			State:   f.states[field],
			Message: f.messages[field],
		}
	}
	return Snapshot{Fields: fields, Banner: f.banner, Submitting: f.submitting}
}

// Close cancels a pending banner dismissal.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelBannerTimerLocked()
}

func (f *Form) applyLocked(r models.FieldResult) {
	f.states[r.Field] = r.State()
	f.messages[r.Field] = r.Message()
}

func (f *Form) resetLocked() {
	f.values = make(map[models.Field]string, len(models.Fields))
	f.states = make(map[models.Field]models.FieldState, len(models.Fields))
	f.messages = make(map[models.Field]string, len(models.Fields))
}

func (f *Form) showBannerLocked(b models.Banner) {
	f.cancelBannerTimerLocked()
	f.banner = b
	f.bannerGen++
	gen := f.bannerGen

	id, err := f.sched.ScheduleAfter(f.bannerDuration, func() { f.dismissBanner(gen) })
	if err != nil {
		slog.Warn("Form: failed to schedule banner dismissal", "banner", b, "error", err)
		return
	}
	f.bannerID = id
}

func (f *Form) hideBannerLocked() {
	f.cancelBannerTimerLocked()
	f.banner = models.BannerNone
}

func (f *Form) cancelBannerTimerLocked() {
	if f.bannerID == "" {
		return
	}
	if err := f.sched.Cancel(f.bannerID); err != nil {
		slog.Debug("Form: failed to cancel banner timer", "id", f.bannerID, "error", err)
	}
	f.bannerID = ""
}

func (f *Form) dismissBanner(gen uint64) {
	f.mu.Lock()
	if gen != f.bannerGen || f.banner == models.BannerNone {
		f.mu.Unlock()
		return
	}
	f.banner = models.BannerNone
	f.bannerID = ""
	f.mu.Unlock()
	f.notify()
}

func (f *Form) notify() {
	if f.onChange != nil {
		f.onChange()
	}
}
