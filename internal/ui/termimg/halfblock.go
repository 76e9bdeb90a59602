package termimg

import (
	"image"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const upperHalf = "▀"

// Halfblock draws images as text: each cell shows two vertically stacked
// pixels using the upper half block with 24-bit foreground and background
// colors. It works in any truecolor terminal.
type Halfblock struct {
	mu     sync.RWMutex
	images map[uint32]string
}

// NewHalfblock creates a half-block renderer.
func NewHalfblock() *Halfblock {
	return &Halfblock{images: make(map[uint32]string)}
}

func (h *Halfblock) Name() string { return "halfblock" }

func (h *Halfblock) Prepare(img image.Image, id uint32) (string, error) {
	text := renderHalfblock(img)
	h.mu.Lock()
	h.images[id] = text
	h.mu.Unlock()
	return "", nil
}

func (h *Halfblock) Place(uint32, int, int, int, int) string { return "" }

func (h *Halfblock) Delete(id uint32) string {
	h.mu.Lock()
	delete(h.images, id)
	h.mu.Unlock()
	return ""
}

func (h *Halfblock) Block(id uint32, width, height int) string {
	h.mu.RLock()
	text, ok := h.images[id]
	h.mu.RUnlock()
	if !ok {
		return Blank(width, height)
	}
	return text
}

func (h *Halfblock) TargetPixelSize(widthCells, heightCells int) (pixelWidth, pixelHeight int) {
	return widthCells, heightCells * 2
}

func renderHalfblock(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	sb.Grow(b.Dx() * (b.Dy()/2 + 1) * 40)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top, _ := colorful.MakeColor(img.At(x, y))
			bottom := top
			if y+1 < b.Max.Y {
				bottom, _ = colorful.MakeColor(img.At(x, y+1))
			}
			writeSGR(&sb, 38, top)
			writeSGR(&sb, 48, bottom)
			sb.WriteString(upperHalf)
		}
		sb.WriteString("\x1b[0m")
	}
	return sb.String()
}

func writeSGR(sb *strings.Builder, layer int, c colorful.Color) {
	r, g, b := c.RGB255()
	sb.WriteString("\x1b[")
	sb.WriteString(strconv.Itoa(layer))
	sb.WriteString(";2;")
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(g)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(b)))
	sb.WriteByte('m')
}
