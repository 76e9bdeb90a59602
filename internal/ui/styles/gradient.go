package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient colors text cluster by cluster across the given stops. With a
// single stop or a single cluster the text takes the first stop.
func Gradient(text string, bold bool, stops ...lipgloss.Color) string {
	if text == "" || len(stops) == 0 {
		return text
	}

	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	base := lipgloss.NewStyle().Bold(bold)
	if len(clusters) < 2 || len(stops) == 1 {
		return base.Foreground(stops[0]).Render(text)
	}

	var b strings.Builder
	for i, c := range blend(len(clusters), stops) {
		b.WriteString(base.Foreground(lipgloss.Color(c.Hex())).Render(clusters[i]))
	}
	return b.String()
}

// Ramp is a strip of width full blocks shading from one color to another.
// The conversion panel uses a black to white ramp as a tonal swatch.
func Ramp(width int, from, to lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range blend(width, []lipgloss.Color{from, to}) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("█"))
	}
	return b.String()
}

// blend spreads n colors evenly over the stops. Interpolation is in Lab so
// gray ramps stay neutral.
func blend(n int, stops []lipgloss.Color) []colorful.Color {
	cs := make([]colorful.Color, len(stops))
	for i, s := range stops {
		cs[i] = toColorful(s)
	}

	out := make([]colorful.Color, n)
	if n == 1 || len(cs) == 1 {
		for i := range out {
			out[i] = cs[0]
		}
		return out
	}

	segments := float64(len(cs) - 1)
	for i := range out {
		pos := float64(i) / float64(n-1) * segments
		seg := min(int(pos), len(cs)-2)
		out[i] = cs[seg].BlendLab(cs[seg+1], pos-float64(seg)).Clamped()
	}
	return out
}

// toColorful parses a "#rrggbb" color. ANSI palette indexes have no fixed
// RGB value and map to mid gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
