// Package headerbar renders the workflow tabs at the top of the screen.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ipv/internal/ui/render"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// Workflow identifiers, matching session.Workflow().
const (
	BW     = "bw"
	Cutout = "cutout"
)

type tab struct {
	key      string
	name     string
	workflow string
}

var tabs = []tab{
	{"F1", "B&W Converter", BW},
	{"F2", "Cutout", Cutout},
}

// Render returns the header line for width columns. The title sits on the
// left, the tabs are centered and the right side shows hint.
func Render(current string, width int, hint string) string {
	if width < 20 {
		return ""
	}
	t := styles.T()

	parts := make([]string, 0, len(tabs))
	for _, tb := range tabs {
		keyStyle, nameStyle := t.S().Muted, t.S().Base
		if tb.workflow == current {
			keyStyle, nameStyle = t.S().Active, t.S().Active
		}
		parts = append(parts, keyStyle.Render(tb.key)+" "+nameStyle.Render(tb.name))
	}
	center := strings.Join(parts, t.S().Subtle.Render(" │ "))

	title := styles.Gradient("ipv", true, t.Primary, t.Secondary)
	right := t.S().Subtle.Render(hint)

	// Title and hint take the edges; tabs are centered in what is left.
	side := max(lipgloss.Width(title), lipgloss.Width(right))
	middle := width - 2*side - 2
	if middle < lipgloss.Width(center) {
		return render.Row(center, "", width)
	}
	pad := (middle - lipgloss.Width(center)) / 2
	left := title + strings.Repeat(" ", side+1-lipgloss.Width(title)+pad) + center
	return render.Row(left, right, width)
}
