// Package page holds the stateless reactions of the landing page: the nav
// background that darkens on scroll, the collapsible menu, entrance reveals for
// cards scrolled into view and in-page anchor links.
package page

// Nav background colors.
const (
	NavBackgroundTranslucent = "rgba(10, 10, 10, 0.95)"
	NavBackgroundSolid       = "rgba(10, 10, 10, 0.98)"
)

// DefaultScrollThreshold is the scroll offset past which the nav turns solid.
const DefaultScrollThreshold = 50

// Nav picks the navigation background for a scroll offset.
type Nav struct {
	Threshold float64
}

// NewNav returns a Nav using DefaultScrollThreshold.
func NewNav() Nav {
	return Nav{Threshold: DefaultScrollThreshold}
}

// Solid reports whether the nav should use its solid background at scrollY.
func (n Nav) Solid(scrollY float64) bool {
	return scrollY > n.Threshold
}

// Style returns the background color for scrollY.
func (n Nav) Style(scrollY float64) string {
	if n.Solid(scrollY) {
		return NavBackgroundSolid
	}
	return NavBackgroundTranslucent
}

// Menu is the collapsible navigation menu on narrow screens.
type Menu struct {
	open bool
}

// Toggle flips the menu and returns the new state.
func (m *Menu) Toggle() bool {
	m.open = !m.open
	return m.open
}

// Open shows the menu.
func (m *Menu) Open() { m.open = true }

// Close hides the menu.
func (m *Menu) Close() { m.open = false }

// IsOpen reports whether the menu is shown.
func (m *Menu) IsOpen() bool { return m.open }
