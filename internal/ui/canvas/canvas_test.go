package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/ipv/internal/geometry"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name             string
		pw, ph           int
		maxCols, maxRows int
		cellW, cellH     int
		wantCols         int
		wantRows         int
	}{
		{"landscape bound by width", 800, 600, 80, 40, 8, 16, 80, 30},
		{"portrait bound by height", 600, 800, 80, 30, 8, 16, 45, 30},
		{"half blocks", 800, 400, 100, 50, 1, 2, 100, 25},
		{"tiny image still gets a cell", 1, 1000, 80, 10, 8, 16, 1, 10},
		{"no room", 800, 600, 0, 10, 8, 16, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := Fit(tt.pw, tt.ph, tt.maxCols, tt.maxRows, tt.cellW, tt.cellH)
			assert.Equal(t, tt.wantCols, cols)
			assert.Equal(t, tt.wantRows, rows)
		})
	}
}

func newCanvas() Canvas {
	g, _ := geometry.Fit(1600, 1200, 800, geometry.NeverUpscale)
	return Canvas{Col: 10, Row: 2, Cols: 81, Rows: 31, Geom: g}
}

func TestToPreview_EdgesMapToImageBounds(t *testing.T) {
	c := newCanvas()

	assert.Equal(t, geometry.Point{X: 0, Y: 0}, c.ToPreview(10, 2))
	assert.Equal(t, geometry.Point{X: 800, Y: 600}, c.ToPreview(90, 32))
	assert.Equal(t, geometry.Point{X: 400, Y: 300}, c.ToPreview(50, 17))
}

func TestToPreview_OffImage(t *testing.T) {
	c := newCanvas()

	p := c.ToPreview(0, 0)
	assert.Less(t, p.X, 0.0)
	assert.Less(t, p.Y, 0.0)
}

func TestContains(t *testing.T) {
	c := newCanvas()

	assert.True(t, c.Contains(10, 2))
	assert.True(t, c.Contains(90, 32))
	assert.False(t, c.Contains(91, 32))
	assert.False(t, c.Contains(9, 2))
	assert.False(t, Canvas{}.Contains(0, 0))
}

func TestToPreview_SingleCell(t *testing.T) {
	g, _ := geometry.Fit(100, 100, 800, geometry.NeverUpscale)
	c := Canvas{Cols: 1, Rows: 1, Geom: g}

	assert.Equal(t, geometry.Point{X: 50, Y: 50}, c.ToPreview(0, 0))
}

func TestSelectable(t *testing.T) {
	g := geometry.Geometry{SourceWidth: 400, SourceHeight: 300, PreviewWidth: 400, PreviewHeight: 300, Scale: 1}
	tests := []struct {
		name       string
		cols, rows int
		geom       geometry.Geometry
		want       bool
	}{
		{"roomy", 80, 30, g, true},
		{"two cells each way", 2, 2, g, true},
		{"single row", 80, 1, g, false},
		{"single column", 1, 30, g, false},
		{"preview below minimum", 80, 30, geometry.Geometry{PreviewWidth: 15, PreviewHeight: 300}, false},
		{"no image", 80, 30, geometry.Geometry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Canvas{Cols: tt.cols, Rows: tt.rows, Geom: tt.geom}
			assert.Equal(t, tt.want, c.Selectable(20))
		})
	}
}
