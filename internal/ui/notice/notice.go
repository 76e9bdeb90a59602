// Package notice provides the blocking message popup used for input
// errors, request failures and save confirmations.
package notice

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/ui"
	"github.com/llehouerou/ipv/internal/ui/action"
	"github.com/llehouerou/ipv/internal/ui/popup"
	"github.com/llehouerou/ipv/internal/ui/render"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// Kind selects the title color.
type Kind int

const (
	Info Kind = iota
	Error
)

// Dismissed is sent when the user closes the notice.
type Dismissed struct {
	Context any
}

// ActionType implements action.Action.
func (Dismissed) ActionType() string { return "notice.dismissed" }

// ActionMsg wraps a notice action.
func ActionMsg(a action.Action) action.Msg {
	return action.Msg{Source: "notice", Action: a}
}

// Model is a notice popup. It swallows every key until dismissed.
type Model struct {
	ui.Base
	kind    Kind
	title   string
	message string
	context any
	active  bool
}

// New creates an inactive notice.
func New() Model {
	return Model{}
}

// Show displays message under title. A notice already showing is replaced.
func (m *Model) Show(kind Kind, title, message string, context any) {
	m.kind = kind
	m.title = title
	lines := strings.Split(message, "\n")
	for i, l := range lines {
		lines[i] = render.Sanitize(l)
	}
	m.message = strings.Join(lines, "\n")
	m.context = context
	m.active = true
}

// Active reports whether the notice is showing.
func (m Model) Active() bool { return m.active }

// Title returns the displayed title.
func (m Model) Title() string { return m.title }

// Message returns the displayed message.
func (m Model) Message() string { return m.message }

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "enter", "esc", " ", "q":
		m.active = false
		ctx := m.context
		return m, func() tea.Msg { return ActionMsg(Dismissed{Context: ctx}) }
	}
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if !m.active {
		return ""
	}
	s := styles.T().S()

	titleStyle := s.Title
	if m.kind == Error {
		titleStyle = s.Error.Bold(true)
	}

	width := 60
	if w := m.Width(); w > 0 {
		width = min(width, w-10)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	var lines []string
	for _, l := range strings.Split(m.message, "\n") {
		lines = append(lines, render.Wrap(l, width)...)
	}
	b.WriteString(s.Base.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render("Enter/Esc: close"))
	return b.String()
}
