package termimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// Kitty graphics protocol escape sequences
const (
	escStart = "\x1b_G"
	escEnd   = "\x1b\\"

	// chunkSize is the largest payload allowed per escape sequence.
	chunkSize = 4096
)

// Kitty implements Protocol with the Kitty graphics protocol. Images are
// transmitted once and placed by id, so redraws are cheap.
type Kitty struct {
	cellW, cellH int
}

// NewKitty creates a Kitty protocol using the terminal's cell size.
func NewKitty() *Kitty {
	w, h := cellSize()
	return &Kitty{cellW: w, cellH: h}
}

func (k *Kitty) Name() string { return "kitty" }

func (k *Kitty) Prepare(img image.Image, id uint32) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return transmit(buf.Bytes(), id), nil
}

// transmit builds the a=t (transmit only) command for PNG data, split into
// chunks with m=1 on every chunk but the last.
func transmit(pngData []byte, id uint32) string {
	encoded := base64.StdEncoding.EncodeToString(pngData)

	var sb strings.Builder
	for i := 0; i < len(encoded); i += chunkSize {
		end := min(i+chunkSize, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		sb.WriteString(escStart)
		if i == 0 {
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, more)
		} else {
			fmt.Fprintf(&sb, "m=%d;", more)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString(escEnd)
	}
	return sb.String()
}

// Place uses a fixed placement id so that a new placement replaces the old
// one instead of leaving a ghost image behind.
func (k *Kitty) Place(id uint32, row, col, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\x1b[s\x1b[%d;%dH", row, col)
	fmt.Fprintf(&sb, "%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s", escStart, id, width, height, escEnd)
	sb.WriteString("\x1b[u")
	return sb.String()
}

func (k *Kitty) Delete(id uint32) string {
	return fmt.Sprintf("%sa=d,d=i,i=%d,q=2;%s", escStart, id, escEnd)
}

func (k *Kitty) Block(_ uint32, width, height int) string {
	return Blank(width, height)
}

func (k *Kitty) TargetPixelSize(widthCells, heightCells int) (pixelWidth, pixelHeight int) {
	return widthCells * k.cellW, heightCells * k.cellH
}
