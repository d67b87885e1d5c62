package page

import "strings"

// Anchors maps in-page link targets to scroll offsets.
type Anchors struct {
	offsets map[string]int
	order   []string
}

// NewAnchors creates an empty anchor table.
func NewAnchors() *Anchors {
	return &Anchors{offsets: make(map[string]int)}
}

// Register records the scroll offset of section id.
func (a *Anchors) Register(id string, offset int) {
	if _, ok := a.offsets[id]; !ok {
		a.order = append(a.order, id)
	}
	a.offsets[id] = offset
}

// Resolve returns the offset for a "#id" link. Links that are not in-page or
// whose target does not exist resolve to false and should be ignored.
func (a *Anchors) Resolve(href string) (int, bool) {
	id, ok := strings.CutPrefix(href, "#")
	if !ok || id == "" {
		return 0, false
	}
	off, ok := a.offsets[id]
	return off, ok
}

// IDs returns the registered ids in registration order.
func (a *Anchors) IDs() []string {
	return append([]string(nil), a.order...)
}
