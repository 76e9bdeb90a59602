// Package geometry maps between the bounded preview and the full-resolution
// source image.
//
// All selection work happens in preview pixels; every coordinate sent to the
// processing service is a preview coordinate multiplied by Geometry.Scale.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned for non-positive image or bound dimensions.
var ErrInvalidSize = errors.New("invalid image size")

// Policy decides what happens to images that already fit the bound.
type Policy int

const (
	// NeverUpscale keeps small images at their intrinsic size.
	NeverUpscale Policy = iota
	// AlwaysScale maps the longer side to the bound even when that enlarges.
	AlwaysScale
)

func (p Policy) String() string {
	if p == AlwaysScale {
		return "always-scale"
	}
	return "never-upscale"
}

// Geometry is the preview size derived from a source image.
type Geometry struct {
	SourceWidth   int
	SourceHeight  int
	PreviewWidth  int
	PreviewHeight int
	// Scale converts preview pixels to source pixels (source / preview).
	Scale float64
}

// Fit computes the preview geometry for a width x height source bounded by
// maxSize on its longer side. The aspect ratio is preserved; the derived
// side is rounded to the nearest pixel and never drops below one.
func Fit(width, height, maxSize int, policy Policy) (Geometry, error) {
	if width <= 0 || height <= 0 {
		return Geometry{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if maxSize <= 0 {
		return Geometry{}, fmt.Errorf("%w: bound %d", ErrInvalidSize, maxSize)
	}

	aspect := float64(width) / float64(height)
	var pw, ph int
	if width > height {
		pw = bound(width, maxSize, policy)
		ph = atLeastOne(math.Round(float64(pw) / aspect))
	} else {
		ph = bound(height, maxSize, policy)
		pw = atLeastOne(math.Round(float64(ph) * aspect))
	}

	return Geometry{
		SourceWidth:   width,
		SourceHeight:  height,
		PreviewWidth:  pw,
		PreviewHeight: ph,
		Scale:         float64(width) / float64(pw),
	}, nil
}

func bound(side, maxSize int, policy Policy) int {
	if policy == AlwaysScale {
		return maxSize
	}
	return min(side, maxSize)
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Point is a position in preview pixels.
type Point struct {
	X, Y float64
}

// Clamp pins p inside [0, PreviewWidth] x [0, PreviewHeight].
func (g Geometry) Clamp(p Point) Point {
	return Point{
		X: math.Max(0, math.Min(p.X, float64(g.PreviewWidth))),
		Y: math.Max(0, math.Min(p.Y, float64(g.PreviewHeight))),
	}
}

// Rect is an axis-aligned rectangle. Whether it is in preview or source
// space depends on where it came from.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Normalize returns the rectangle spanned by two corners with a top-left
// origin and non-negative size.
func Normalize(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// ToSource scales a preview-space rectangle into source space.
func (g Geometry) ToSource(r Rect) Rect {
	return Rect{
		X:      r.X * g.Scale,
		Y:      r.Y * g.Scale,
		Width:  r.Width * g.Scale,
		Height: r.Height * g.Scale,
	}
}

// ToPreview is the inverse of ToSource.
func (g Geometry) ToPreview(r Rect) Rect {
	if g.Scale == 0 {
		return r
	}
	return Rect{
		X:      r.X / g.Scale,
		Y:      r.Y / g.Scale,
		Width:  r.Width / g.Scale,
		Height: r.Height / g.Scale,
	}
}

// Contains reports whether a preview-space rectangle lies within the preview.
func (g Geometry) Contains(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= float64(g.PreviewWidth) &&
		r.Y+r.Height <= float64(g.PreviewHeight)
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", ftoa(r.X), ftoa(r.Y), ftoa(r.Width), ftoa(r.Height))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseRect parses "x,y,width,height".
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("parse rect %q: want x,y,width,height", s)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("parse rect %q: %w", s, err)
		}
		vals[i] = v
	}
	r := Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if r.X < 0 || r.Y < 0 || r.Empty() {
		return Rect{}, fmt.Errorf("parse rect %q: negative origin or empty size", s)
	}
	return r, nil
}
