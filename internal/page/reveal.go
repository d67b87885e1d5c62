package page

import "log/slog"

// Default observer settings: a card reveals once a tenth of it is inside the
// viewport shrunk by 100 units at the bottom.
const (
	DefaultRevealThreshold  = 0.1
	DefaultRootMarginBottom = -100
)

// Span is a vertical extent in page coordinates.
type Span struct {
	Top    float64
	Height float64
}

// Bottom returns the end of the span.
func (s Span) Bottom() float64 {
	return s.Top + s.Height
}

// Entrance is the visual state of an observed element.
type Entrance struct {
	Opacity float64
	OffsetY float64
}

var (
	hiddenEntrance   = Entrance{Opacity: 0, OffsetY: 30}
	revealedEntrance = Entrance{Opacity: 1, OffsetY: 0}
)

type observed struct {
	id       string
	span     Span
	revealed bool
}

// RevealObserver reveals elements once enough of them intersects the viewport.
// Revealed elements stay revealed.
type RevealObserver struct {
	Threshold        float64
	RootMarginBottom float64

	targets []*observed
	index   map[string]*observed
}

// NewRevealObserver creates an observer with the default threshold and root margin.
func NewRevealObserver() *RevealObserver {
	return &RevealObserver{
		Threshold:        DefaultRevealThreshold,
		RootMarginBottom: DefaultRootMarginBottom,
		index:            make(map[string]*observed),
	}
}

// Observe starts watching id at span. Observing an id again moves it.
func (o *RevealObserver) Observe(id string, span Span) {
	if t, ok := o.index[id]; ok {
		t.span = span
		return
	}
	t := &observed{id: id, span: span}
	o.targets = append(o.targets, t)
	o.index[id] = t
}

// Update checks every hidden target against viewport and returns the ids that
// were revealed by this call, in observation order.
func (o *RevealObserver) Update(viewport Span) []string {
	root := Span{Top: viewport.Top, Height: viewport.Height + o.RootMarginBottom}

	var revealed []string
	for _, t := range o.targets {
		if t.revealed {
			continue
		}
		if ratio := IntersectionRatio(t.span, root); ratio > 0 && ratio >= o.Threshold {
			t.revealed = true
			revealed = append(revealed, t.id)
		}
	}
	if len(revealed) > 0 {
		slog.Debug("RevealObserver revealed targets", "ids", revealed, "viewport_top", viewport.Top)
	}
	return revealed
}

// Visible reports whether id has been revealed.
func (o *RevealObserver) Visible(id string) bool {
	t, ok := o.index[id]
	return ok && t.revealed
}

// Entrance returns the visual state for id. Unknown ids render as revealed.
func (o *RevealObserver) Entrance(id string) Entrance {
	t, ok := o.index[id]
	if ok && !t.revealed {
		return hiddenEntrance
	}
	return revealedEntrance
}

// IntersectionRatio returns the fraction of target that lies inside root.
// An empty target counts as fully inside when its edge is within root.
func IntersectionRatio(target, root Span) float64 {
	if root.Height <= 0 {
		return 0
	}
	if target.Height <= 0 {
		if target.Top >= root.Top && target.Top <= root.Bottom() {
			return 1
		}
		return 0
	}

	top := max(target.Top, root.Top)
	bottom := min(target.Bottom(), root.Bottom())
	if bottom <= top {
		return 0
	}
	return (bottom - top) / target.Height
}
