// Package preview produces the images shown in the terminal: the loaded
// image scaled to the canvas, the selection overlay, and decoded results.
package preview

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/patrickmn/go-cache"

	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/imagefile"
)

const (
	defaultExpiration = 30 * time.Minute
	cleanupInterval   = time.Hour
)

// Selection colors.
var (
	selectionColor = color.NRGBA{R: 0x00, G: 0x7b, B: 0xff, A: 0xff}
	fillOpacity    = 0.2
)

// Renderer scales images to canvas pixel sizes and caches the results.
type Renderer struct {
	cache *cache.Cache
}

// New creates a renderer with an in-memory cache.
func New() *Renderer {
	return &Renderer{cache: cache.New(defaultExpiration, cleanupInterval)}
}

// Base returns the source image scaled to w x h pixels.
func (r *Renderer) Base(src *imagefile.Source, w, h int) image.Image {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}
	key := fmt.Sprintf("base:%x:%dx%d", src.Checksum, w, h)
	if v, ok := r.cache.Get(key); ok {
		if img, ok := v.(image.Image); ok {
			return img
		}
	}
	img := scale(src.Image, w, h)
	r.cache.Set(key, img, cache.DefaultExpiration)
	return img
}

// Result decodes a result data URI and scales it to w x h pixels.
func (r *Renderer) Result(uri string, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", w, h)
	}
	key := fmt.Sprintf("result:%x:%dx%d", digest(uri), w, h)
	if v, ok := r.cache.Get(key); ok {
		if img, ok := v.(image.Image); ok {
			return img, nil
		}
	}
	decoded, err := imagefile.DecodeImage(uri)
	if err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	img := scale(decoded, w, h)
	r.cache.Set(key, img, cache.DefaultExpiration)
	return img, nil
}

// Len returns the number of cached images.
func (r *Renderer) Len() int { return r.cache.ItemCount() }

// Flush empties the cache.
func (r *Renderer) Flush() { r.cache.Flush() }

func scale(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3) //nolint:gosec // positive sizes checked by callers
}

func digest(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Overlay draws a selection rectangle given in preview pixels of g onto
// base. A live rectangle gets a translucent fill and a dashed outline; a
// committed one a solid outline. base is not modified.
func Overlay(base image.Image, g geometry.Geometry, rect geometry.Rect, live bool) image.Image {
	if base == nil || rect.Empty() || g.PreviewWidth <= 0 || g.PreviewHeight <= 0 {
		return base
	}
	b := base.Bounds()
	fx := float64(b.Dx()) / float64(g.PreviewWidth)
	fy := float64(b.Dy()) / float64(g.PreviewHeight)

	x0 := clampInt(int(rect.X*fx), 0, b.Dx()-1)
	y0 := clampInt(int(rect.Y*fy), 0, b.Dy()-1)
	x1 := clampInt(int((rect.X+rect.Width)*fx), x0, b.Dx()-1)
	y1 := clampInt(int((rect.Y+rect.Height)*fy), y0, b.Dy()-1)

	out := imaging.Clone(base)
	if live && x1 > x0 && y1 > y0 {
		fill := imaging.New(x1-x0, y1-y0, selectionColor)
		out = imaging.Overlay(out, fill, image.Pt(x0, y0), fillOpacity)
	}

	stroke := max(1, min(b.Dx(), b.Dy())/200)
	for i := range stroke {
		outline(out, x0+i, y0+i, x1-i, y1-i, live)
	}
	return out
}

// outline draws a one pixel rectangle border. Dashed borders alternate
// four pixels on, four off.
func outline(img *image.NRGBA, x0, y0, x1, y1 int, dashed bool) {
	if x1 < x0 || y1 < y0 {
		return
	}
	on := func(n int) bool { return !dashed || (n/4)%2 == 0 }
	for x := x0; x <= x1; x++ {
		if on(x - x0) {
			img.SetNRGBA(x, y0, selectionColor)
			img.SetNRGBA(x, y1, selectionColor)
		}
	}
	for y := y0; y <= y1; y++ {
		if on(y - y0) {
			img.SetNRGBA(x0, y, selectionColor)
			img.SetNRGBA(x1, y, selectionColor)
		}
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
