// Package methodpanel renders the parameter sidebar: the conversion methods
// with their formulas for the B&W workflow, the result types and the current
// selection for the cutout workflow.
package methodpanel

import (
	"fmt"
	"strings"

	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/ui"
	"github.com/llehouerou/ipv/internal/ui/render"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

// Workflows shown by the panel.
const (
	BW     = "bw"
	Cutout = "cutout"
)

// listTop is the inner row of the first option: heading and a blank line
// come before it.
const listTop = 2

// Model is the sidebar.
type Model struct {
	ui.Base
	workflow   string
	method     params.Method
	resultType params.ResultType
	rect       geometry.Rect
	hasRect    bool
	enabled    bool
}

// New creates a panel for workflow.
func New(workflow string) Model {
	return Model{
		workflow:   workflow,
		method:     params.DefaultMethod,
		resultType: params.DefaultResultType,
		enabled:    true,
	}
}

// SetWorkflow switches what the panel shows.
func (m *Model) SetWorkflow(workflow string) { m.workflow = workflow }

// Workflow returns the workflow shown.
func (m Model) Workflow() string { return m.workflow }

// SetMethod marks the selected conversion method.
func (m *Model) SetMethod(method params.Method) { m.method = method }

// SetResultType marks the selected cutout result type.
func (m *Model) SetResultType(rt params.ResultType) { m.resultType = rt }

// SetSelection shows the committed rectangle in source pixels.
func (m *Model) SetSelection(r geometry.Rect, ok bool) {
	m.rect, m.hasRect = r, ok
}

// SetEnabled dims the options while parameters cannot change.
func (m *Model) SetEnabled(enabled bool) { m.enabled = enabled }

// MethodAt returns the method drawn on panel row y (0 is the top border).
func (m Model) MethodAt(y int) (params.Method, bool) {
	if m.workflow != BW {
		return "", false
	}
	all := params.Methods()
	i := y - 1 - listTop
	if i < 0 || i >= len(all) {
		return "", false
	}
	return all[i], true
}

// ResultTypeAt returns the result type drawn on panel row y.
func (m Model) ResultTypeAt(y int) (params.ResultType, bool) {
	if m.workflow != Cutout {
		return "", false
	}
	all := params.ResultTypes()
	i := y - 1 - listTop
	if i < 0 || i >= len(all) {
		return "", false
	}
	return all[i], true
}

// View renders the panel at its size.
func (m Model) View() string {
	width, height := m.InnerSize()
	if width <= 0 || height <= 0 {
		return ""
	}

	var lines []string
	if m.workflow == Cutout {
		lines = m.cutoutLines(width)
	} else {
		lines = m.methodLines(width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return styles.PanelStyle(m.IsFocused()).
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}

func (m Model) option(label string, selected bool, width int) string {
	s := styles.T().S()
	marker := "  "
	style := s.Base
	if selected {
		marker = "▸ "
		style = s.Active
	}
	if !m.enabled {
		style = s.Subtle
	}
	return style.Render(render.TruncateAndPad(marker+label, width))
}

func (m Model) methodLines(width int) []string {
	s := styles.T().S()
	lines := []string{s.Title.Render("Conversion method"), ""}
	for _, method := range params.Methods() {
		lines = append(lines, m.option(params.Describe(method).Title, method == m.method, width))
	}

	d := params.Describe(m.method)
	lines = append(lines, "", s.Muted.Render(render.Separator(width)), s.Title.Render(render.Truncate(d.Title, width)))
	for _, l := range render.Wrap(d.Formula, width) {
		lines = append(lines, s.Key.Render(l))
	}
	lines = append(lines, styles.Ramp(width, "#000000", "#ffffff"))
	lines = append(lines, "")
	for _, l := range render.Wrap(d.Summary, width) {
		lines = append(lines, s.Muted.Render(l))
	}
	return append(lines, "", s.Subtle.Render(render.Truncate("[ ] method · r convert · s save", width)))
}

func (m Model) cutoutLines(width int) []string {
	s := styles.T().S()
	lines := []string{s.Title.Render("Result type"), ""}
	for _, rt := range params.ResultTypes() {
		lines = append(lines, m.option(rt.Label(), rt == m.resultType, width))
	}

	lines = append(lines, "", s.Muted.Render(render.Separator(width)), s.Title.Render("Selection"))
	if m.hasRect {
		lines = append(lines,
			s.Base.Render(fmt.Sprintf("x %.0f  y %.0f", m.rect.X, m.rect.Y)),
			s.Base.Render(fmt.Sprintf("%.0f x %.0f px", m.rect.Width, m.rect.Height)),
		)
	} else {
		for _, l := range render.Wrap("Drag on the image to draw a rectangle around the object.", width) {
			lines = append(lines, s.Muted.Render(l))
		}
	}
	return append(lines, "",
		s.Subtle.Render(render.Truncate("t type · c clear · r run · s save", width)),
		s.Subtle.Render(render.Truncate("m mask · v original", width)),
	)
}
