package app

import (
	"github.com/llehouerou/ipv/internal/ui"
	"github.com/llehouerou/ipv/internal/ui/canvas"
	"github.com/llehouerou/ipv/internal/ui/popup"
)

// Fallback cell size when no graphics protocol reports one.
const (
	fallbackCellW = 8
	fallbackCellH = 16
)

func (m Model) sidebarVisible() bool {
	return !m.sidebarHidden && m.width-ui.SidebarWidth >= ui.MinCanvasWidth
}

func (m Model) bodyHeight() int {
	return max(m.height-ui.HeaderHeight-ui.StatusHeight, 0)
}

// canvasBox is the canvas panel size, border included.
func (m Model) canvasBox() (width, height int) {
	width = m.width
	if m.sidebarVisible() {
		width -= ui.SidebarWidth
	}
	return max(width, 0), m.bodyHeight()
}

func (m Model) cellSize() (width, height int) {
	proto := m.surface.Protocol()
	if proto == nil {
		return fallbackCellW, fallbackCellH
	}
	w, h := proto.TargetPixelSize(1, 1)
	return max(w, 1), max(h, 1)
}

// resize recomputes every size derived from the terminal size.
func (m *Model) resize() {
	m.hint = ""
	// Frames are cached per pixel size; none of the old ones fit.
	m.previews.Flush()
	m.panel.SetSize(ui.SidebarWidth, m.bodyHeight())
	m.notice.SetSize(m.width, m.height)
	m.prompt.SetSize(m.width, m.height)
	m.help.SetSize(m.width*popup.SizeLarge.WidthPct/100, m.height*popup.SizeLarge.HeightPct/100)
	m.layoutCanvas()
}

// layoutCanvas fits the active preview into the canvas panel and centers
// it. The canvas covers only the rows the image actually fills, so mouse
// mapping matches what is drawn.
func (m *Model) layoutCanvas() {
	boxW, boxH := m.canvasBox()
	innerW, innerH := max(boxW-ui.BorderWidth, 0), max(boxH-ui.BorderHeight, 0)
	sess := m.active()
	if sess.Source() == nil || innerW == 0 || innerH == 0 {
		m.canvas = canvas.Canvas{}
		m.surface.SetSize(0, 0)
		return
	}

	g := sess.Geometry()
	cellW, cellH := m.cellSize()
	cols, rows := canvas.Fit(g.PreviewWidth, g.PreviewHeight, innerW, innerH, cellW, cellH)
	m.surface.SetSize(cols, rows)

	visible := rows
	if _, ph := m.surface.PixelSize(); ph > 0 {
		visible = min(max(ph/cellH, 1), rows)
	}
	m.canvas = canvas.Canvas{
		Col:  1 + (innerW-cols)/2,
		Row:  ui.HeaderHeight + 1 + (innerH-rows)/2,
		Cols: cols,
		Rows: visible,
		Geom: g,
	}
}
