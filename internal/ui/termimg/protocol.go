// Package termimg draws images in the terminal using the Kitty or Sixel
// graphics protocols, with a colored half-block fallback for terminals that
// support neither.
package termimg

import (
	"image"
	"strings"
	"sync/atomic"
)

// Protocol abstracts how an image reaches the terminal.
type Protocol interface {
	// Name identifies the protocol ("kitty", "sixel" or "halfblock").
	Name() string

	// Prepare encodes img under id and returns any one-time terminal
	// command. Kitty transmits to terminal memory; the others cache
	// internally and return "".
	Prepare(img image.Image, id uint32) (string, error)

	// Place returns the escape sequence that draws image id at the 1-based
	// cell (row, col). Protocols that draw inline return "".
	Place(id uint32, row, col, width, height int) string

	// Delete returns the escape sequence that removes image id.
	Delete(id uint32) string

	// Block returns the text occupying the image area in the layout. For
	// graphics protocols this is blank space so lipgloss can measure it.
	Block(id uint32, width, height int) string

	// TargetPixelSize returns the pixel size an image should be resized to
	// before it is shown in the given number of cells.
	TargetPixelSize(widthCells, heightCells int) (pixelWidth, pixelHeight int)
}

var nextImageID uint32

// NextID returns a fresh image id.
func NextID() uint32 {
	return atomic.AddUint32(&nextImageID, 1)
}

// Blank returns width x height cells of spaces.
func Blank(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

const (
	defaultCellW = 8
	defaultCellH = 16
)
