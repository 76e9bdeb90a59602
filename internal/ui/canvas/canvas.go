// Package canvas places the preview image in the terminal grid and maps
// mouse cells back to preview pixels.
package canvas

import (
	"math"

	"github.com/llehouerou/ipv/internal/geometry"
)

// Fit returns the cell box a previewW x previewH image occupies when scaled
// to fit maxCols x maxRows cells of cellW x cellH pixels. The aspect ratio
// is kept; both sides are at least one cell.
func Fit(previewW, previewH, maxCols, maxRows, cellW, cellH int) (cols, rows int) {
	if previewW <= 0 || previewH <= 0 || maxCols <= 0 || maxRows <= 0 {
		return 0, 0
	}
	cellW, cellH = max(cellW, 1), max(cellH, 1)

	s := math.Min(
		float64(maxCols*cellW)/float64(previewW),
		float64(maxRows*cellH)/float64(previewH),
	)
	cols = int(float64(previewW) * s / float64(cellW))
	rows = int(float64(previewH) * s / float64(cellH))
	return min(max(cols, 1), maxCols), min(max(rows, 1), maxRows)
}

// Canvas is the on-screen placement of the preview.
type Canvas struct {
	// Col and Row are the 0-based screen cell of the image's top-left corner.
	Col, Row int
	// Cols and Rows are the cells the image actually covers.
	Cols, Rows int
	Geom       geometry.Geometry
}

// Ready reports whether the canvas has an image to map onto.
func (c Canvas) Ready() bool {
	return c.Cols > 0 && c.Rows > 0 && c.Geom.PreviewWidth > 0 && c.Geom.PreviewHeight > 0
}

// Contains reports whether the screen cell (x, y) is on the image.
func (c Canvas) Contains(x, y int) bool {
	return c.Ready() &&
		x >= c.Col && x < c.Col+c.Cols &&
		y >= c.Row && y < c.Row+c.Rows
}

// Selectable reports whether a drag can cover minSize preview pixels on
// both axes. A single cell row or column maps to one point, so nothing can
// be drawn on that axis.
func (c Canvas) Selectable(minSize float64) bool {
	return c.Ready() && c.Cols > 1 && c.Rows > 1 &&
		float64(c.Geom.PreviewWidth) >= minSize && float64(c.Geom.PreviewHeight) >= minSize
}

// ToPreview maps the screen cell (x, y) to preview pixels. The first and
// last cells map to the image edges so a drag across the whole image
// selects all of it. Cells off the image map outside the preview bounds;
// the selection machine clamps them.
func (c Canvas) ToPreview(x, y int) geometry.Point {
	return geometry.Point{
		X: axis(x-c.Col, c.Cols, c.Geom.PreviewWidth),
		Y: axis(y-c.Row, c.Rows, c.Geom.PreviewHeight),
	}
}

func axis(offset, cells, size int) float64 {
	if cells <= 1 {
		return float64(size) / 2
	}
	return float64(offset) * float64(size) / float64(cells-1)
}
