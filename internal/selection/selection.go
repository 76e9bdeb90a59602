// Package selection tracks the rectangle a user drags over the preview.
//
// The machine has three phases. A press moves it to Drawing, moves report
// the live rectangle, and a release either commits the rectangle (scaled to
// source space) or discards it when either side is below the minimum.
package selection

import (
	"github.com/llehouerou/ipv/internal/geometry"
)

// Phase is the drawing phase.
type Phase int

const (
	Idle Phase = iota
	Drawing
	Committed
)

func (p Phase) String() string {
	switch p {
	case Drawing:
		return "drawing"
	case Committed:
		return "committed"
	default:
		return "idle"
	}
}

// Outcome describes what a release did.
type Outcome int

const (
	// Ignored means no gesture was in progress.
	Ignored Outcome = iota
	// Discarded means the gesture was smaller than the minimum and was dropped.
	Discarded
	// Accepted means the gesture produced a committed selection.
	Accepted
)

// Release is the result of ending a gesture.
type Release struct {
	Outcome Outcome
	// Preview is the normalized rectangle in preview pixels.
	Preview geometry.Rect
	// Source is Preview scaled to source pixels. Zero unless Accepted.
	Source geometry.Rect
}

// Machine is the selection state for one preview.
type Machine struct {
	geom    geometry.Geometry
	ready   bool
	minSize float64

	phase   Phase
	anchor  geometry.Point
	cursor  geometry.Point
	preview geometry.Rect
	source  geometry.Rect
}

// New creates an idle machine with no image attached.
func New(minSize int) *Machine {
	return &Machine{minSize: float64(minSize)}
}

// SetGeometry attaches a new preview and drops any selection.
func (m *Machine) SetGeometry(g geometry.Geometry) {
	m.geom = g
	m.ready = g.PreviewWidth > 0 && g.PreviewHeight > 0
	m.Reset()
}

// Geometry returns the attached preview geometry.
func (m *Machine) Geometry() geometry.Geometry { return m.geom }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// MinSize is the smallest accepted side in preview pixels.
func (m *Machine) MinSize() float64 { return m.minSize }

// Press starts a gesture at p. It returns false when no image is attached.
// Starting a gesture invalidates any committed selection.
func (m *Machine) Press(p geometry.Point) bool {
	if !m.ready {
		return false
	}
	m.anchor = m.geom.Clamp(p)
	m.cursor = m.anchor
	m.preview = geometry.Rect{}
	m.source = geometry.Rect{}
	m.phase = Drawing
	return true
}

// Move updates the live rectangle while drawing.
func (m *Machine) Move(p geometry.Point) (geometry.Rect, bool) {
	if m.phase != Drawing {
		return geometry.Rect{}, false
	}
	m.cursor = m.geom.Clamp(p)
	return geometry.Normalize(m.anchor, m.cursor), true
}

// Live returns the rectangle being drawn.
func (m *Machine) Live() (geometry.Rect, bool) {
	if m.phase != Drawing {
		return geometry.Rect{}, false
	}
	return geometry.Normalize(m.anchor, m.cursor), true
}

// Release ends the gesture at p.
func (m *Machine) Release(p geometry.Point) Release {
	if m.phase != Drawing {
		return Release{Outcome: Ignored}
	}
	m.cursor = m.geom.Clamp(p)
	r := geometry.Normalize(m.anchor, m.cursor)

	if r.Width < m.minSize || r.Height < m.minSize {
		m.Reset()
		return Release{Outcome: Discarded, Preview: r}
	}

	m.preview = r
	m.source = m.geom.ToSource(r)
	m.phase = Committed
	return Release{Outcome: Accepted, Preview: r, Source: m.source}
}

// Reset drops any gesture or selection.
func (m *Machine) Reset() {
	m.phase = Idle
	m.anchor = geometry.Point{}
	m.cursor = geometry.Point{}
	m.preview = geometry.Rect{}
	m.source = geometry.Rect{}
}

// Selection returns the committed rectangle in source pixels.
func (m *Machine) Selection() (geometry.Rect, bool) {
	if m.phase != Committed {
		return geometry.Rect{}, false
	}
	return m.source, true
}

// PreviewSelection returns the committed rectangle in preview pixels.
func (m *Machine) PreviewSelection() (geometry.Rect, bool) {
	if m.phase != Committed {
		return geometry.Rect{}, false
	}
	return m.preview, true
}

// Commit installs a source-space rectangle directly, as when it is given on
// the command line. The rectangle is checked against the same bounds and
// minimum size as a drawn one.
func (m *Machine) Commit(source geometry.Rect) bool {
	if !m.ready {
		return false
	}
	preview := m.geom.ToPreview(source)
	const eps = 1e-6
	if preview.Width+eps < m.minSize || preview.Height+eps < m.minSize {
		return false
	}
	if preview.X < -eps || preview.Y < -eps ||
		preview.X+preview.Width > float64(m.geom.PreviewWidth)+eps ||
		preview.Y+preview.Height > float64(m.geom.PreviewHeight)+eps {
		return false
	}
	m.phase = Committed
	m.preview = preview
	m.source = source
	return true
}
