package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/ui"
)

const hintTooSmall = "Terminal too small to select. Enlarge the window to draw a rectangle."

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.dragging {
		return m.handleDrag(msg)
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if row, ok := m.sidebarRow(msg.X, msg.Y); ok {
		return m.clickSidebar(row)
	}

	if m.workflow != WorkflowCutout || !m.canvas.Contains(msg.X, msg.Y) {
		return m, nil
	}
	if !m.canvas.Selectable(m.cutout.Selection().MinSize()) {
		m.hint = hintTooSmall
		return m, nil
	}
	m.hint = ""
	if m.cutout.Press(m.canvas.ToPreview(msg.X, msg.Y)) {
		m.dragging = true
		m.showOriginal = false
		m.showMask = false
	}
	return m, nil
}

// handleDrag follows a selection gesture. Motion and release are tracked
// outside the canvas too; the selection clamps to the image.
func (m Model) handleDrag(msg tea.MouseMsg) (Model, tea.Cmd) {
	p := m.canvas.ToPreview(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionMotion:
		m.cutout.Move(p)
	case tea.MouseActionRelease:
		m.cutout.Release(p)
		m.dragging = false
	case tea.MouseActionPress:
	}
	return m, nil
}

// sidebarRow returns the panel row under the screen cell (x, y).
func (m Model) sidebarRow(x, y int) (int, bool) {
	if !m.sidebarVisible() || x < m.width-ui.SidebarWidth {
		return 0, false
	}
	if y < ui.HeaderHeight || y >= ui.HeaderHeight+m.bodyHeight() {
		return 0, false
	}
	return y - ui.HeaderHeight, true
}

func (m Model) clickSidebar(y int) (Model, tea.Cmd) {
	if method, ok := m.panel.MethodAt(y); ok {
		return m.selectMethod(method)
	}
	if rt, ok := m.panel.ResultTypeAt(y); ok && rt != m.cutout.ResultType() {
		return m.selectResultType(rt)
	}
	return m, nil
}
