// Package popup holds the modal contract and the helpers that draw a modal
// over the main view.
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/ipv/internal/ui/styles"
)

// Popup defines the contract for modal popup components.
type Popup interface {
	// Init returns any initial command (e.g., focus text input).
	Init() tea.Cmd

	// Update handles messages and returns updated popup + command.
	Update(msg tea.Msg) (Popup, tea.Cmd)

	// View renders the popup content (without outer border/centering).
	View() string

	// SetSize sets the available dimensions for the popup content.
	SetSize(width, height int)
}

// SizeConfig defines how a popup should be sized.
type SizeConfig struct {
	WidthPct  int // Percentage of screen width (0 = auto-fit)
	HeightPct int // Percentage of screen height (0 = auto-fit)
	MaxWidth  int // Maximum width in columns (0 = no limit)
}

// Common size configurations.
var (
	SizeLarge = SizeConfig{WidthPct: 70, HeightPct: 70} // Help, history
	SizeAuto  = SizeConfig{MaxWidth: 72}                // Notices, prompts
)

// RenderBordered wraps content in a rounded border and centers it.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	width, height := calculateDimensions(content, screenW, screenH, size)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border).
		Width(width-2). // Account for border
		Height(height-2).
		Padding(1, 2)

	return Center(boxStyle.Render(content), screenW, screenH)
}

func calculateDimensions(content string, screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return screenW * size.WidthPct / 100, screenH * size.HeightPct / 100
	}
	contentWidth := maxLineWidth(content) + 6 // padding + border
	if size.MaxWidth > 0 && contentWidth > size.MaxWidth {
		contentWidth = size.MaxWidth
	}
	contentWidth = min(contentWidth, screenW-4)

	contentHeight := strings.Count(content, "\n") + 1 + 4 // padding + border
	if size.MaxWidth > 0 {
		// Long lines wrap once the width is capped.
		contentHeight += wrappedExtra(content, contentWidth-6)
	}
	contentHeight = min(contentHeight, screenH-4)

	return contentWidth, contentHeight
}

func wrappedExtra(content string, width int) int {
	if width <= 0 {
		return 0
	}
	extra := 0
	for line := range strings.SplitSeq(content, "\n") {
		if w := lipgloss.Width(line); w > width {
			extra += (w - 1) / width
		}
	}
	return extra
}

func maxLineWidth(s string) int {
	maxW := 0
	for line := range strings.SplitSeq(s, "\n") {
		maxW = max(maxW, lipgloss.Width(line))
	}
	return maxW
}

// Center centers pre-rendered content in the terminal.
func Center(box string, termWidth, termHeight int) string {
	lines := strings.Split(box, "\n")
	boxWidth := maxLineWidth(box)

	padTop := max((termHeight-len(lines))/2, 0)
	padLeft := max((termWidth-boxWidth)/2, 0)

	var result strings.Builder
	for range padTop {
		result.WriteString(strings.Repeat(" ", termWidth) + "\n")
	}
	for _, line := range lines {
		result.WriteString(strings.Repeat(" ", padLeft))
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}

// Compose overlays a centered popup on top of the base view. Non-space
// cells of the popup replace the base at the same position. Both views may
// carry ANSI styling.
func Compose(base, popupView string, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(popupView, "\n")

	for i, overlayLine := range overlayLines {
		if i >= len(baseLines) {
			break
		}

		plainOverlay := ansi.Strip(overlayLine)
		if strings.TrimSpace(plainOverlay) == "" {
			continue
		}

		startCol := len(plainOverlay) - len(strings.TrimLeft(plainOverlay, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plainOverlay, " "))
		overlayContent := ansi.Cut(overlayLine, startCol, endCol)

		baseLine := baseLines[i]
		if baseWidth := ansi.StringWidth(baseLine); baseWidth < width {
			baseLine += strings.Repeat(" ", width-baseWidth)
		}

		// Cutting through a wide character can shorten either side; pad
		// back to the expected columns.
		prefix := ansi.Cut(baseLine, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}

		result := prefix + overlayContent
		if endCol < width {
			suffix := ansi.Cut(baseLine, endCol, width)
			want := width - endCol
			switch w := ansi.StringWidth(suffix); {
			case w > want:
				suffix = " " + ansi.Cut(suffix, w-want+1, w)
			case w < want:
				suffix += strings.Repeat(" ", want-w)
			}
			result += suffix
		}
		baseLines[i] = result
	}

	return strings.Join(baseLines, "\n")
}
