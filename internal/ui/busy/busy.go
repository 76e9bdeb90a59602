// Package busy renders the loading indicator shown while a request to the
// processing service is outstanding.
package busy

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ipv/internal/ui/render"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

// Height is the rendered height of the indicator including its border.
const Height = 3

// Model is the busy indicator. The spinner only ticks while active.
type Model struct {
	spinner spinner.Model
	active  bool
	ticking bool
	label   string
}

// New creates an idle indicator.
func New() Model {
	return Model{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.T().Primary)),
		),
	}
}

// SetBusy shows or hides the indicator. Showing it starts the spinner if
// it is not already running.
func (m *Model) SetBusy(busy bool, label string) tea.Cmd {
	m.active = busy
	m.label = label
	if !busy || m.ticking {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}

// Active reports whether the indicator is showing.
func (m Model) Active() bool { return m.active }

// Label returns the text next to the spinner.
func (m Model) Label() string { return m.label }

// Update advances the spinner. Ticks arriving while idle end the tick chain.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return m, nil
	}
	if !m.active {
		m.ticking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the indicator in a bordered box of width columns, or ""
// when idle.
func (m Model) View(width int) string {
	if !m.active {
		return ""
	}
	inner := max(width-2, 4)
	line := m.spinner.View() + " " + styles.T().S().Title.Render(render.Truncate(m.label, inner-2))
	return styles.PanelStyle(true).Width(inner).Render(line)
}
