package render

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "photo.png", "photo.png"},
		{"escape sequence", "a\x1b[2Jb", "a[2Jb"},
		{"newline", "line\nbreak", "linebreak"},
		{"tab", "a\tb", "a b"},
		{"invalid utf8", "a\xffb", "ab"},
		{"wide", "写真.jpg", "写真.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Luma", 10, "Luma"},
		{"exact", "Luminosity", 10, "Luminosity"},
		{"cut", "Green channel", 8, "Green..."},
		{"wide characters", "写真写真写真", 7, "写真..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxWidth))
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	for _, w := range []int{3, 8, 20} {
		got := TruncateAndPad("Average weighting", w)
		assert.Equal(t, w, runewidth.StringWidth(got), "width %d", w)
	}
}

func TestRow(t *testing.T) {
	assert.Equal(t, "left    right", Row("left", "right", 13))
	assert.Equal(t, "left right", Row("left", "right", 4))
}

func TestSeparator(t *testing.T) {
	assert.Equal(t, "───", Separator(3))
	assert.Empty(t, Separator(-1))
}

func TestWrap(t *testing.T) {
	got := Wrap("Industry standard weighting based on perception", 20)
	assert.Equal(t, []string{
		"Industry standard",
		"weighting based on",
		"perception",
	}, got)

	assert.Equal(t, []string{"unbreakableword"}, Wrap("unbreakableword", 5))
	assert.Nil(t, Wrap("", 10))
}
