package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BTreeMap/CyberCore/internal/models"
	"github.com/BTreeMap/CyberCore/internal/page"
)

// Nav backgrounds, matching the page's translucent and solid rgba colors as
// closely as a terminal allows.
var navBackgrounds = map[string]lipgloss.Color{
	page.NavBackgroundTranslucent: lipgloss.Color("236"),
	page.NavBackgroundSolid:       lipgloss.Color("233"),
}

var fieldLabels = map[models.Field]string{
	models.FieldName:    "Name",
	models.FieldPhone:   "Phone",
	models.FieldMessage: "Message",
}

var (
	accentColor = lipgloss.Color("14")
	dimColor    = lipgloss.Color("240")
	okColor     = lipgloss.Color("10")
	errColor    = lipgloss.Color("9")
)

type block struct {
	id     string
	top    int
	height int
	card   bool
}

type docBuilder struct {
	lines  []string
	blocks []block
}

func (d *docBuilder) add(s string) {
	d.lines = append(d.lines, strings.Split(s, "\n")...)
}

func (d *docBuilder) section(id string) {
	d.blocks = append(d.blocks, block{id: id, top: len(d.lines)})
}

func (d *docBuilder) card(id, rendered string) {
	top := len(d.lines)
	d.add(rendered)
	d.blocks = append(d.blocks, block{id: id, top: top, height: len(d.lines) - top, card: true})
}

// document lays out the scrollable page body. Block heights do not depend on
// reveal or form state, so offsets stay stable while the user scrolls.
func (m Model) document() ([]string, []block) {
	var d docBuilder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Padding(0, 1)
	dimStyle := lipgloss.NewStyle().Foreground(dimColor).Padding(0, 1)

	d.section(sectionHome)
	d.add("")
	d.add(headerStyle.Render(heroTitle))
	d.add(dimStyle.Render(heroSubtitle))
	d.add("")
	d.add(m.renderHero())
	d.add("")

	d.section(sectionAbout)
	d.add(headerStyle.Render("ABOUT US"))
	d.add("")
	for _, c := range aboutCards {
		d.card(c.id, m.renderCard(c))
		d.add("")
	}

	d.section(sectionServices)
	d.add(headerStyle.Render("SERVICES"))
	d.add("")
	for _, c := range serviceCards {
		d.card(c.id, m.renderCard(c))
		d.add("")
	}

	d.section(sectionContact)
	d.add(headerStyle.Render("CONTACT"))
	d.add("")
	d.add(m.renderForm())
	d.add("")

	return d.lines, d.blocks
}

func (m Model) renderHero() string {
	prompt := lipgloss.NewStyle().Foreground(okColor).Bold(true)
	cursor := lipgloss.NewStyle().Foreground(accentColor)
	return " " + prompt.Render("> "+m.hero) + cursor.Render("█")
}

func (m Model) renderCard(c card) string {
	width := max(20, min(m.width-4, 64))
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Width(width)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	out := style.Render(titleStyle.Render(c.title) + "\n" + c.body)
	if m.observer.Entrance(c.id).Opacity == 0 {
		return strings.Repeat("\n", lipgloss.Height(out)-1)
	}
	return out
}

func (m Model) renderForm() string {
	snap := m.form.Snapshot()

	labelStyle := lipgloss.NewStyle().Width(10).Padding(0, 1)
	focusStyle := labelStyle.Foreground(accentColor).Bold(true)
	okStyle := lipgloss.NewStyle().Foreground(okColor).PaddingLeft(11)
	errStyle := lipgloss.NewStyle().Foreground(errColor).PaddingLeft(11)

	var lines []string
	for i, f := range models.Fields {
		label := labelStyle.Render(fieldLabels[f])
		if i == m.focus {
			label = focusStyle.Render(fieldLabels[f])
		}
		lines = append(lines, label+m.inputs[i].View())

		view := snap.Fields[f]
		switch view.State {
		case models.FieldStateError:
			lines = append(lines, errStyle.Render(view.Message))
		case models.FieldStateSuccess:
			lines = append(lines, okStyle.Render("✓"))
		default:
			lines = append(lines, "")
		}
	}

	button := "[ SEND MESSAGE ]"
	if snap.Submitting {
		button = "[ SENDING... ]"
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).PaddingLeft(11).Render(button))

	switch snap.Banner {
	case models.BannerSuccess:
		lines = append(lines, lipgloss.NewStyle().Foreground(okColor).Padding(0, 1).Render(bannerSuccessText))
	case models.BannerFailure:
		lines = append(lines, lipgloss.NewStyle().Foreground(errColor).Padding(0, 1).Render(bannerFailureText))
	default:
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderNav() string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Background(navBackgrounds[m.nav.Style(float64(m.scroll))]).
		Width(max(1, m.width)).
		Padding(0, 1)

	ids := m.anchors.IDs()
	bar := "CYBERCORE"
	if m.width >= 60 {
		labels := make([]string, len(ids))
		for i, id := range ids {
			labels[i] = sectionLabels[id]
		}
		bar += "   " + strings.Join(labels, "  ")
	}
	bar += "   ≡ menu"
	out := style.Render(bar)

	if m.menu.IsOpen() {
		itemStyle := style.Bold(false)
		for i, id := range ids {
			out += "\n" + itemStyle.Render(fmt.Sprintf("%d. %s", i+1, sectionLabels[id]))
		}
	}
	return out
}

func (m Model) renderFooter() string {
	style := lipgloss.NewStyle().Foreground(dimColor).Padding(0, 1)
	h := m.help
	h.ShowAll = m.showHelp
	return style.Render(m.statusMsg) + "\n" + h.View(m.keyMap)
}
