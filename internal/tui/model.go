// Package tui renders the CyberCore landing page in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BTreeMap/CyberCore/internal/contact"
	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/page"
	"github.com/BTreeMap/CyberCore/internal/typing"
)

const (
	// DefaultScrollThreshold is the scroll offset, in lines, past which the nav turns solid.
	DefaultScrollThreshold = 2
	// DefaultRevealMargin shrinks the bottom of the viewport, in lines, for card reveals.
	DefaultRevealMargin = 2

	defaultWidth  = 80
	defaultHeight = 24
	noFocus       = -1
)

var (
	ErrNilLine = errors.New("tui: typing line is required")
	ErrNilForm = errors.New("tui: contact form is required")
)

// Signal is a coalescing wake-up channel for changes made outside the UI loop.
type Signal chan struct{}

// NewSignal creates a Signal.
func NewSignal() Signal {
	return make(Signal, 1)
}

// Notify wakes the receiver without blocking.
func (s Signal) Notify() {
	select {
	case s <- struct{}{}:
	default:
	}
}

// Opts holds configuration options for the Model.
type Opts struct {
	ScrollThreshold int
	RevealMargin    int
	KeyMap          KeyMap
	FormSignal      Signal
}

// Option defines a configuration option for the Model.
type Option func(*Opts)

// WithScrollThreshold sets the scroll offset at which the nav turns solid.
func WithScrollThreshold(lines int) Option {
	return func(o *Opts) {
		o.ScrollThreshold = lines
	}
}

// WithRevealMargin sets how many lines at the bottom of the viewport do not count for reveals.
func WithRevealMargin(lines int) Option {
	return func(o *Opts) {
		o.RevealMargin = lines
	}
}

// WithKeyMap replaces the default keybindings.
func WithKeyMap(k KeyMap) Option {
	return func(o *Opts) {
		o.KeyMap = k
	}
}

// WithFormSignal sets the signal the contact form notifies on background changes.
func WithFormSignal(s Signal) Option {
	return func(o *Opts) {
		o.FormSignal = s
	}
}

// Model represents the state of the TUI application.
type Model struct {
	ctx        context.Context
	line       *typing.LineTarget
	form       *contact.Form
	formSignal Signal

	width  int
	height int
	ready  bool

	// Page state
	scroll   int
	nav      page.Nav
	menu     page.Menu
	observer *page.RevealObserver
	anchors  *page.Anchors
	hero     string

	// Contact form
	inputs []textinput.Model
	focus  int

	// Help
	help     help.Model
	keyMap   KeyMap
	showHelp bool

	// Status
	statusMsg string
}

// New creates a new TUI model showing line in the hero and form in the contact section.
func New(line *typing.LineTarget, form *contact.Form, opts ...Option) (Model, error) {
	if line == nil {
		return Model{}, ErrNilLine
	}
	if form == nil {
		return Model{}, ErrNilForm
	}
	cfg := Opts{
		ScrollThreshold: DefaultScrollThreshold,
		RevealMargin:    DefaultRevealMargin,
		KeyMap:          DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	observer := page.NewRevealObserver()
	observer.RootMarginBottom = -float64(cfg.RevealMargin)

	m := Model{
		ctx:        context.Background(),
		line:       line,
		form:       form,
		formSignal: cfg.FormSignal,
		width:      defaultWidth,
		height:     defaultHeight,
		nav:        page.Nav{Threshold: float64(cfg.ScrollThreshold)},
		observer:   observer,
		anchors:    page.NewAnchors(),
		hero:       line.Text(),
		inputs:     newInputs(),
		focus:      noFocus,
		help:       help.New(),
		keyMap:     cfg.KeyMap,
		statusMsg:  "Welcome to CyberCore Systems",
	}
	m.relayout()
	return m, nil
}

func newInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(models.Fields))
	for i, f := range models.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 40
		switch f {
		case models.FieldName:
			in.Placeholder = "Your name"
			in.CharLimit = 64
		case models.FieldPhone:
			in.Placeholder = "+1 555 555 0123"
			in.CharLimit = 24
		case models.FieldMessage:
			in.Placeholder = "Tell us about your project (optional)"
			in.CharLimit = 500
		}
		inputs[i] = in
	}
	return inputs
}

// Messages

type frameMsg string

type formChangedMsg struct{}

type submitResultMsg struct {
	outcome models.Outcome
	err     error
}

// Commands

func waitForFrame(ctx context.Context, line *typing.LineTarget) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-line.Changes():
			return frameMsg(line.Text())
		case <-ctx.Done():
			return nil
		}
	}
}

func waitForSignal(ctx context.Context, s Signal) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-s:
			return formChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func submitForm(ctx context.Context, form *contact.Form) tea.Cmd {
	return func() tea.Msg {
		outcome, err := form.Submit(ctx)
		return submitResultMsg{outcome: outcome, err: err}
	}
}

// Init starts listening for typing frames and form changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForFrame(m.ctx, m.line),
		waitForSignal(m.ctx, m.formSignal),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.relayout()
		return m, nil

	case frameMsg:
		m.hero = string(msg)
		return m, waitForFrame(m.ctx, m.line)

	case formChangedMsg:
		return m, waitForSignal(m.ctx, m.formSignal)

	case submitResultMsg:
		return m.handleSubmitResult(msg), nil

	case tea.KeyMsg:
		if m.focus != noFocus {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.relayout()

	case key.Matches(msg, m.keyMap.Up):
		m.scroll--
		m.relayout()

	case key.Matches(msg, m.keyMap.Down):
		m.scroll++
		m.relayout()

	case key.Matches(msg, m.keyMap.Menu):
		m.menu.Toggle()
		m.relayout()

	case key.Matches(msg, m.keyMap.Home):
		m.jumpToSection(0)
	case key.Matches(msg, m.keyMap.About):
		m.jumpToSection(1)
	case key.Matches(msg, m.keyMap.Serv):
		m.jumpToSection(2)
	case key.Matches(msg, m.keyMap.Reach):
		m.jumpToSection(3)

	case key.Matches(msg, m.keyMap.Next):
		m.jump("#" + sectionContact)
		m.focus = 0
		m.statusMsg = "Editing contact form (esc to leave)"
		return m, m.inputs[m.focus].Focus()
	}
	return m, nil
}

// handleFormKey routes keys to the focused input while the contact form is active.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keyMap.Next):
		m.blurFocused()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()

	case key.Matches(msg, m.keyMap.Leave):
		m.blurFocused()
		m.focus = noFocus
		m.statusMsg = ""
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		m.statusMsg = "Sending..."
		return m, submitForm(m.ctx, m.form)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	field := models.Fields[m.focus]
	if err := m.form.Input(field, m.inputs[m.focus].Value()); err != nil {
		slog.Warn("Model.handleFormKey: failed to update field", "field", field, "error", err)
	}
	return m, cmd
}

// syncInputs copies the form's values into the text inputs, which clears them
// after the form resets on a successful submission.
func (m *Model) syncInputs() {
	for i, f := range models.Fields {
		if v := m.form.Value(f); m.inputs[i].Value() != v {
			m.inputs[i].SetValue(v)
		}
	}
}

func (m *Model) blurFocused() {
	if m.focus == noFocus {
		return
	}
	field := models.Fields[m.focus]
	if _, err := m.form.Blur(field); err != nil {
		slog.Warn("Model.blurFocused: failed to validate field", "field", field, "error", err)
	}
	m.inputs[m.focus].Blur()
}

func (m Model) handleSubmitResult(msg submitResultMsg) Model {
	switch {
	case errors.Is(msg.err, contact.ErrSubmissionInFlight):
		m.statusMsg = "Already sending, please wait"
	case msg.outcome == models.OutcomeInvalid:
		m.statusMsg = "Please fix the highlighted fields"
	case msg.outcome == models.OutcomeFailed:
		m.statusMsg = "Message could not be sent"
	case msg.outcome == models.OutcomeSubmitted:
		m.statusMsg = "Message sent"
	}
	m.syncInputs()
	return m
}

// jumpToSection follows the i-th nav link. Sections are numbered in page order.
func (m *Model) jumpToSection(i int) {
	ids := m.anchors.IDs()
	if i < 0 || i >= len(ids) {
		return
	}
	m.jump("#" + ids[i])
}

// jump scrolls to an in-page link. Unknown targets are ignored.
func (m *Model) jump(href string) {
	off, ok := m.anchors.Resolve(href)
	if !ok {
		slog.Debug("Model.jump: unknown anchor", "href", href)
		return
	}
	m.scroll = off
	m.relayout()
}

// relayout recomputes section offsets, clamps the scroll position and reveals
// cards that scrolled into view.
func (m *Model) relayout() {
	lines, blocks := m.document()
	for _, b := range blocks {
		if b.card {
			m.observer.Observe(b.id, page.Span{Top: float64(b.top), Height: float64(b.height)})
			continue
		}
		m.anchors.Register(b.id, b.top)
	}

	body := m.bodyHeight()
	m.scroll = max(0, min(m.scroll, len(lines)-body))
	m.observer.Update(page.Span{Top: float64(m.scroll), Height: float64(body)})
}

func (m Model) bodyHeight() int {
	h := m.height - lipgloss.Height(m.renderNav()) - lipgloss.Height(m.renderFooter())
	return max(1, h)
}

// Scroll returns the current scroll offset in lines.
func (m Model) Scroll() int { return m.scroll }

// Focused returns the focused form field, or "" when the form is not active.
func (m Model) Focused() models.Field {
	if m.focus == noFocus {
		return ""
	}
	return models.Fields[m.focus]
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	lines, _ := m.document()
	body := m.bodyHeight()
	end := min(len(lines), m.scroll+body)
	start := min(m.scroll, end)
	visible := append([]string(nil), lines[start:end]...)
	for len(visible) < body {
		visible = append(visible, "")
	}

	var content strings.Builder
	content.WriteString(m.renderNav())
	content.WriteString("\n")
	content.WriteString(strings.Join(visible, "\n"))
	content.WriteString("\n")
	content.WriteString(m.renderFooter())
	return content.String()
}

// Run starts the program and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui program failed: %w", err)
	}
	return nil
}
