package app

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/preview"
	"github.com/llehouerou/ipv/internal/ui"
	"github.com/llehouerou/ipv/internal/ui/headerbar"
	"github.com/llehouerou/ipv/internal/ui/popup"
	"github.com/llehouerou/ipv/internal/ui/statusbar"
	"github.com/llehouerou/ipv/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	modal := m.popup != popupNone
	if modal {
		// Graphics draw over text, so the frame is taken down while a
		// popup covers the screen.
		m.surface.Clear()
	} else {
		m.showFrame()
	}

	header := headerbar.Render(m.workflow, m.width, "? help")
	body := m.renderCanvas()
	if m.sidebarVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.panel.View())
	}
	footer := m.busy.View(m.width)
	if footer == "" {
		footer = statusbar.Render(m.statusInfo(), m.width)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if modal {
		view = popup.Compose(view, m.renderPopup(), m.width)
	}
	view = enforceHeight(view, m.height)

	if modal {
		return view + m.surface.Commands(0, 0)
	}
	return view + m.surface.Commands(m.canvas.Row+1, m.canvas.Col+1)
}

func (m Model) renderPopup() string {
	var content string
	size := popup.SizeAuto
	switch m.popup {
	case popupNotice:
		content = m.notice.View()
	case popupHelp:
		content = m.help.View()
		size = popup.SizeLarge
	case popupPrompt:
		content = m.prompt.View()
	case popupNone:
		return ""
	}
	return popup.RenderBordered(content, m.width, m.height, size)
}

// renderCanvas draws the canvas panel with the surface block centered in
// it, or a hint when no image is loaded.
func (m Model) renderCanvas() string {
	boxW, boxH := m.canvasBox()
	innerW, innerH := max(boxW-ui.BorderWidth, 0), max(boxH-ui.BorderHeight, 0)
	if innerW == 0 || innerH == 0 {
		return ""
	}
	style := styles.PanelStyle(m.dragging).Width(innerW).Height(innerH)

	cols, rows := m.surface.Size()
	if m.active().Source() == nil || cols == 0 || rows == 0 {
		hint := styles.T().S().Muted.Render("Press o to open an image")
		return style.Render(lipgloss.Place(innerW, innerH, lipgloss.Center, lipgloss.Center, hint))
	}

	top := (innerH - rows) / 2
	left := strings.Repeat(" ", (innerW-cols)/2)
	blank := strings.Repeat(" ", innerW)

	lines := make([]string, 0, innerH)
	for range top {
		lines = append(lines, blank)
	}
	for _, l := range strings.Split(m.surface.Block(), "\n") {
		pad := max(innerW-len(left)-lipgloss.Width(l), 0)
		lines = append(lines, left+l+strings.Repeat(" ", pad))
	}
	for len(lines) < innerH {
		lines = append(lines, blank)
	}
	return style.Render(strings.Join(lines[:innerH], "\n"))
}

// showFrame makes the surface display the frame the sessions currently
// call for. Frames are only rendered when their key changes.
func (m Model) showFrame() {
	key, build := m.frame()
	if key == "" {
		m.surface.Clear()
		return
	}
	if key == m.surface.Current() {
		return
	}
	img := build()
	if img == nil {
		m.surface.Clear()
		return
	}
	if err := m.surface.Show(key, img); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("image display failed")
	}
}

// frame returns the key of the frame to display and a function producing
// it. The key is empty when there is nothing to show.
func (m Model) frame() (string, func() image.Image) {
	sess := m.active()
	src := sess.Source()
	pw, ph := m.surface.PixelSize()
	if src == nil || pw <= 0 || ph <= 0 {
		return "", nil
	}
	prefix := fmt.Sprintf("%s:%x:%dx%d", m.workflow, src.Checksum, pw, ph)
	g := sess.Geometry()
	base := func() image.Image { return m.previews.Base(src, pw, ph) }

	if m.workflow == WorkflowCutout {
		sel := m.cutout.Selection()
		if live, ok := sel.Live(); ok {
			return prefix + ":live:" + live.String(), func() image.Image {
				return preview.Overlay(base(), g, live, true)
			}
		}
	}

	if res := sess.Result(); res != nil && !m.showOriginal {
		uri, kind := res.Image, "result"
		if m.showMask && res.Mask != "" {
			uri, kind = res.Mask, "mask"
		}
		return fmt.Sprintf("%s:%s:%d", prefix, kind, res.Gen), func() image.Image {
			img, err := m.previews.Result(uri, pw, ph)
			if err != nil {
				logging.Warn().Add(logging.ErrorField(err)).Msg("result preview failed")
				return base()
			}
			return img
		}
	}

	if m.workflow == WorkflowCutout {
		if rect, ok := m.cutout.Selection().PreviewSelection(); ok {
			return prefix + ":rect:" + rect.String(), func() image.Image {
				return preview.Overlay(base(), g, rect, false)
			}
		}
	}
	return prefix + ":base", base
}

func (m Model) statusInfo() statusbar.Info {
	sess := m.active()
	status := sess.Status()
	if m.hint != "" {
		status = m.hint
	}
	info := statusbar.Info{Status: status, Tone: statusbar.ToneFor(status)}
	if path := m.lastSaved[m.workflow]; path != "" && info.Tone == statusbar.Success &&
		strings.HasSuffix(status, "successfully!") {
		info.Status = status + " " + path
	}
	if src := sess.Source(); src != nil {
		info.FileName = src.Name()
		info.Width = src.Width
		info.Height = src.Height
		info.Bytes = src.Bytes
	}
	if m.svc != nil {
		info.Breaker = m.svc.BreakerState()
	}
	return info
}

// enforceHeight pads or truncates view to exactly height lines.
func enforceHeight(view string, height int) string {
	lines := strings.Split(strings.TrimSuffix(view, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
