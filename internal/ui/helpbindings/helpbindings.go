// Package helpbindings provides a scrollable popup listing the key bindings.
package helpbindings

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/keymap"
	"github.com/llehouerou/ipv/internal/ui"
	"github.com/llehouerou/ipv/internal/ui/popup"
	"github.com/llehouerou/ipv/internal/ui/render"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// chrome is the popup space taken by the title, footer, border and padding.
const chrome = 10

// Model holds the state for the help popup.
type Model struct {
	ui.Base
	contexts []string
	viewport viewport.Model
}

// New creates a help popup.
func New() Model {
	return Model{viewport: viewport.New(0, 0)}
}

// SetContexts sets which binding contexts to display, in keymap order.
func (m *Model) SetContexts(contexts []string) {
	m.contexts = contexts
	m.refresh()
	m.viewport.GotoTop()
}

// SetSize implements popup.Popup.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.refresh()
}

func (m *Model) refresh() {
	content := m.buildContent()
	m.viewport.Width = render.MaxWidth(content)
	m.viewport.Height = max(m.Height()-chrome, 5)
	m.viewport.SetContent(content)
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, func() tea.Msg { return ActionMsg(Close{}) }
	case "j", "down":
		m.viewport.ScrollDown(1)
	case "k", "up":
		m.viewport.ScrollUp(1)
	}
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	s := styles.T().S()

	footer := "?/esc close"
	if m.viewport.TotalLineCount() > m.viewport.Height {
		footer = "j/k scroll · " + footer
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(footer))
	return b.String()
}

func (m Model) buildContent() string {
	s := styles.T().S()

	var bindings []keymap.Binding
	for _, c := range keymap.Contexts {
		if slices.Contains(m.contexts, c.Name) {
			bindings = append(bindings, keymap.ByContext(c.Name)...)
		}
	}

	keyWidth := 0
	for _, b := range bindings {
		keyWidth = max(keyWidth, len(strings.Join(b.Keys, ", ")))
	}

	var sb strings.Builder
	for _, c := range keymap.Contexts {
		if !slices.Contains(m.contexts, c.Name) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Warning.Bold(true).Render(c.Title))
		sb.WriteString("\n")
		sb.WriteString(s.Subtle.Render(render.Separator(keyWidth + 24)))
		sb.WriteString("\n")
		for _, b := range keymap.ByContext(c.Name) {
			sb.WriteString(s.Key.Render(render.Pad(strings.Join(b.Keys, ", "), keyWidth)))
			sb.WriteString("  ")
			sb.WriteString(s.Base.Render(b.Description))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
