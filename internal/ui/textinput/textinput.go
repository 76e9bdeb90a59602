// Package textinput provides the path prompt used to open images.
package textinput

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/ui"
	"github.com/llehouerou/ipv/internal/ui/popup"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// Model is a single line input popup. Tab completes file system paths.
type Model struct {
	ui.Base
	title   string
	context any // passed through to Result action
	input   textinput.Model
}

// New creates a new text input model.
func New() Model {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 4096
	return Model{input: in}
}

// Start initializes the input with a title and optional initial text.
func (m *Model) Start(title, initialText string, context any, width, height int) tea.Cmd {
	m.title = title
	m.context = context
	m.SetSize(width, height)
	m.input.SetValue(initialText)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Value returns the current text.
func (m Model) Value() string { return m.input.Value() }

// SetSize implements popup.Popup.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.input.Width = max(min(width-16, 70), 10)
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			ctx := m.context
			m.input.Blur()
			return m, func() tea.Msg {
				return ActionMsg(Result{Canceled: true, Context: ctx})
			}
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			ctx := m.context
			m.input.Blur()
			return m, func() tea.Msg {
				return ActionMsg(Result{Text: text, Context: ctx})
			}
		case "tab":
			if completed, ok := Complete(m.input.Value()); ok {
				m.input.SetValue(completed)
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	t := styles.T()
	title := t.S().Active.Render(m.title)
	hint := t.S().Subtle.Render("Enter: open · Tab: complete · Esc: cancel")
	return title + "\n\n" + m.input.View() + "\n\n" + hint
}

// Complete extends path to the longest prefix shared by the entries it
// matches. Directories get a trailing separator. It reports false when
// nothing matches or nothing can be added.
func Complete(path string) (string, bool) {
	expanded := ExpandHome(path)
	matches, err := filepath.Glob(globEscape(expanded) + "*")
	if err != nil || len(matches) == 0 {
		return path, false
	}

	prefix := matches[0]
	for _, m := range matches[1:] {
		prefix = commonPrefix(prefix, m)
	}
	if len(matches) == 1 {
		if info, err := os.Stat(prefix); err == nil && info.IsDir() {
			prefix += string(filepath.Separator)
		}
	}
	if len(prefix) <= len(expanded) {
		return path, false
	}
	return path + prefix[len(expanded):], true
}

// ExpandHome replaces a leading ~ with the home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:]) + trailingSep(path)
		}
	}
	return path
}

func trailingSep(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return "/"
	}
	return ""
}

func globEscape(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(s)
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
