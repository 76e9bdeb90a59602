package termimg

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestTransmit_SingleChunk(t *testing.T) {
	cmd := transmit([]byte("tiny"), 7)

	if !strings.HasPrefix(cmd, escStart) || !strings.HasSuffix(cmd, escEnd) {
		t.Fatalf("unexpected framing: %q", cmd)
	}
	for _, want := range []string{"a=t", "f=100", "i=7", "q=2", "m=0"} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command should contain %s", want)
		}
	}
}

func TestTransmit_Chunked(t *testing.T) {
	data := make([]byte, 4000)
	for i := range data {
		data[i] = byte(i % 256)
	}

	cmd := transmit(data, 42)

	if n := strings.Count(cmd, escStart); n < 2 {
		t.Fatalf("expected multiple chunks, got %d", n)
	}
	first, rest, _ := strings.Cut(cmd, escEnd)
	if !strings.Contains(first, "i=42") || !strings.Contains(first, "m=1") {
		t.Errorf("first chunk = %q", first[:min(len(first), 40)])
	}
	if strings.Contains(rest, "i=42") {
		t.Error("image id should only appear in the first chunk")
	}
	last := cmd[strings.LastIndex(cmd, escStart):]
	if !strings.HasPrefix(last, escStart+"m=0;") {
		t.Errorf("last chunk should have m=0")
	}
}

func TestKitty_PlaceAndDelete(t *testing.T) {
	k := &Kitty{cellW: 8, cellH: 16}

	place := k.Place(3, 2, 5, 40, 20)
	if !strings.Contains(place, "\x1b[2;5H") {
		t.Error("place should move the cursor to row 2, col 5")
	}
	if !strings.Contains(place, "a=p,i=3,p=1,c=40,r=20") {
		t.Errorf("place = %q", place)
	}
	if del := k.Delete(3); !strings.Contains(del, "a=d,d=i,i=3") {
		t.Errorf("delete = %q", del)
	}
	if w, h := k.TargetPixelSize(10, 5); w != 80 || h != 80 {
		t.Errorf("TargetPixelSize = %dx%d, want 80x80", w, h)
	}
}

func TestKitty_Prepare(t *testing.T) {
	k := &Kitty{cellW: 8, cellH: 16}
	cmd, err := k.Prepare(solid(4, 4, color.White), 9)
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if !strings.Contains(cmd, "i=9") {
		t.Error("prepare should transmit under the image id")
	}
}

func TestSixel_PlaceIsUnique(t *testing.T) {
	s := &Sixel{images: make(map[uint32]string), cellW: 8, cellH: 16}
	if _, err := s.Prepare(solid(4, 4, color.Black), 1); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	a := s.Place(1, 1, 1, 4, 4)
	b := s.Place(1, 1, 1, 4, 4)
	if a == "" || a == b {
		t.Error("consecutive placements should differ")
	}
	if got := s.Place(2, 1, 1, 4, 4); got != "" {
		t.Error("unknown id should place nothing")
	}

	s.Delete(1)
	if got := s.Place(1, 1, 1, 4, 4); got != "" {
		t.Error("deleted image should place nothing")
	}
	if _, h := s.TargetPixelSize(10, 5); h != 64 {
		t.Errorf("sixel should leave one row of margin, got height %d", h)
	}
}

func TestHalfblock_Block(t *testing.T) {
	h := NewHalfblock()
	img := image.NewRGBA(image.Rect(0, 0, 3, 4))
	for x := range 3 {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
		img.Set(x, 1, color.RGBA{B: 255, A: 255})
		img.Set(x, 2, color.RGBA{G: 255, A: 255})
		img.Set(x, 3, color.RGBA{G: 255, A: 255})
	}

	if _, err := h.Prepare(img, 5); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	block := h.Block(5, 3, 2)

	lines := strings.Split(block, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if n := strings.Count(lines[0], upperHalf); n != 3 {
		t.Errorf("expected 3 cells in a row, got %d", n)
	}
	if !strings.Contains(lines[0], "\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m") {
		t.Error("first row should pair red over blue")
	}
	if h.Place(5, 1, 1, 3, 2) != "" {
		t.Error("halfblock draws inline")
	}

	h.Delete(5)
	if got := h.Block(5, 3, 2); got != Blank(3, 2) {
		t.Error("deleted image should leave blank space")
	}
}

func TestHalfblock_OddHeight(t *testing.T) {
	h := NewHalfblock()
	if _, err := h.Prepare(solid(2, 3, color.White), 1); err != nil {
		t.Fatal(err)
	}
	if rows := strings.Count(h.Block(1, 2, 2), "\n") + 1; rows != 2 {
		t.Errorf("expected 2 rows, got %d", rows)
	}
}

func TestDetect_Forced(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"kitty", "kitty"},
		{"sixel", "sixel"},
		{"halfblock", "halfblock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p := Detect(tt.name); p == nil || p.Name() != tt.want {
				t.Errorf("Detect(%q) = %v", tt.name, p)
			}
		})
	}
	if p := Detect("none"); p != nil {
		t.Errorf("Detect(none) = %v, want nil", p.Name())
	}
}

func TestDetect_QueriesTerminal(t *testing.T) {
	t.Setenv("CONTOUR_PROFILE", "")
	t.Setenv("KITTY_WINDOW_ID", "")
	t.Setenv("GHOSTTY_RESOURCES_DIR", "")
	t.Setenv("KONSOLE_VERSION", "")
	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("TERM", "dumb")
	if p := Detect("auto"); p.Name() != "halfblock" {
		t.Errorf("plain terminal should fall back to halfblock, got %s", p.Name())
	}

	t.Setenv("KITTY_WINDOW_ID", "1")
	if p := Detect("auto"); p.Name() != "kitty" {
		t.Errorf("kitty terminal detected as %s", p.Name())
	}

	t.Setenv("KITTY_WINDOW_ID", "")
	t.Setenv("TERM", "foot")
	if p := Detect(""); p.Name() != "sixel" {
		t.Errorf("foot detected as %s", p.Name())
	}
}

func TestBlank(t *testing.T) {
	if Blank(0, 3) != "" {
		t.Error("zero width should be empty")
	}
	if got := Blank(2, 2); got != "  \n  " {
		t.Errorf("Blank(2,2) = %q", got)
	}
}
