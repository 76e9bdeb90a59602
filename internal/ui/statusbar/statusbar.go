// Package statusbar renders the bottom bar: the session status line on the
// left, image facts and service health on the right.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/ipv/internal/ui/render"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

// Tone colors the status text.
type Tone int

const (
	Neutral Tone = iota
	Success
	Failure
)

// Info is what the bar shows.
type Info struct {
	Status string
	Tone   Tone

	// Image facts; FileName empty means no image.
	FileName string
	Width    int
	Height   int
	Bytes    int

	// Breaker is the circuit breaker state name ("closed", "open", ...).
	Breaker string
}

// Render returns the bar for width columns, border included.
func Render(info Info, width int) string {
	s := styles.T().S()
	inner := max(width-2, 10)

	var facts []string
	if info.FileName != "" {
		facts = append(facts,
			fmt.Sprintf("%dx%d", info.Width, info.Height),
			humanize.IBytes(uint64(max(info.Bytes, 0))),
		)
	}
	if info.Breaker != "" && !strings.EqualFold(info.Breaker, "closed") {
		facts = append(facts, s.Warning.Render("service "+info.Breaker))
	}
	right := s.Muted.Render(strings.Join(facts, " · "))
	if info.FileName != "" {
		name := render.Truncate(info.FileName, max(inner/4, 8))
		right = s.Base.Render(name) + s.Subtle.Render(" · ") + right
	}

	statusStyle := s.Base
	switch info.Tone {
	case Success:
		statusStyle = s.Success
	case Failure:
		statusStyle = s.Error
	}
	room := max(inner-lipgloss.Width(right)-1, 0)
	left := statusStyle.Render(render.Truncate(info.Status, room))

	return styles.PanelStyle(false).Width(inner).Render(render.Row(left, right, inner))
}

// ToneFor picks the tone of a status line from its text.
func ToneFor(status string) Tone {
	switch {
	case strings.HasPrefix(status, "Error"):
		return Failure
	case strings.HasSuffix(status, "successfully!"), strings.HasSuffix(status, "complete!"):
		return Success
	}
	return Neutral
}
