package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		policy        Policy
		wantW, wantH  int
		wantScale     float64
	}{
		{"landscape larger than bound", 1600, 1200, NeverUpscale, 800, 600, 2},
		{"portrait larger than bound", 1200, 1600, NeverUpscale, 600, 800, 2},
		{"square larger than bound", 2400, 2400, NeverUpscale, 800, 800, 3},
		{"small image kept", 400, 300, NeverUpscale, 400, 300, 1},
		{"small image stretched", 400, 300, AlwaysScale, 800, 600, 0.5},
		{"exactly at bound", 800, 200, NeverUpscale, 800, 200, 1},
		{"thin strip keeps one row", 8000, 2, NeverUpscale, 800, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Fit(tt.width, tt.height, 800, tt.policy)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, g.PreviewWidth)
			assert.Equal(t, tt.wantH, g.PreviewHeight)
			assert.InDelta(t, tt.wantScale, g.Scale, 1e-9)
		})
	}
}

func TestFit_InvalidSize(t *testing.T) {
	for _, dims := range [][3]int{{0, 10, 800}, {10, -1, 800}, {10, 10, 0}} {
		_, err := Fit(dims[0], dims[1], dims[2], NeverUpscale)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestFit_LongerSideHitsBound(t *testing.T) {
	for _, policy := range []Policy{NeverUpscale, AlwaysScale} {
		for w := 801; w < 5000; w += 373 {
			for h := 50; h < 5000; h += 419 {
				g, err := Fit(w, h, 800, policy)
				require.NoError(t, err)

				assert.Equal(t, 800, max(g.PreviewWidth, g.PreviewHeight), "%dx%d", w, h)
				assert.LessOrEqual(t, g.PreviewWidth, 800)
				assert.LessOrEqual(t, g.PreviewHeight, 800)

				srcAspect := float64(w) / float64(h)
				prevAspect := float64(g.PreviewWidth) / float64(g.PreviewHeight)
				// Rounding the derived side moves the ratio by at most half a pixel.
				shorter := float64(min(g.PreviewWidth, g.PreviewHeight))
				assert.InEpsilon(t, srcAspect, prevAspect, 0.5/shorter+1e-9, "%dx%d", w, h)
			}
		}
	}
}

func TestScenarioPreviewRectToSource(t *testing.T) {
	g, err := Fit(1600, 1200, 800, NeverUpscale)
	require.NoError(t, err)

	r := g.ToSource(Normalize(Point{X: 100, Y: 100}, Point{X: 300, Y: 250}))

	assert.Equal(t, Rect{X: 200, Y: 200, Width: 400, Height: 300}, r)
}

func TestClamp(t *testing.T) {
	g := Geometry{PreviewWidth: 800, PreviewHeight: 600, Scale: 2}

	tests := []struct {
		in, want Point
	}{
		{Point{X: -5, Y: 10}, Point{X: 0, Y: 10}},
		{Point{X: 900, Y: 700}, Point{X: 800, Y: 600}},
		{Point{X: 400, Y: -1}, Point{X: 400, Y: 0}},
		{Point{X: 12.5, Y: 13.5}, Point{X: 12.5, Y: 13.5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Clamp(tt.in))
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Point{X: 300, Y: 250}, Point{X: 100, Y: 100})
	assert.Equal(t, Rect{X: 100, Y: 100, Width: 200, Height: 150}, got)

	got = Normalize(Point{X: 10, Y: 90}, Point{X: 40, Y: 30})
	assert.Equal(t, Rect{X: 10, Y: 30, Width: 30, Height: 60}, got)
}

func TestToPreviewInvertsToSource(t *testing.T) {
	g, err := Fit(3000, 1000, 800, NeverUpscale)
	require.NoError(t, err)

	r := Rect{X: 12, Y: 34, Width: 56, Height: 78}
	back := g.ToPreview(g.ToSource(r))

	assert.InDelta(t, r.X, back.X, 1e-9)
	assert.InDelta(t, r.Y, back.Y, 1e-9)
	assert.InDelta(t, r.Width, back.Width, 1e-9)
	assert.InDelta(t, r.Height, back.Height, 1e-9)
}

func TestContains(t *testing.T) {
	g := Geometry{PreviewWidth: 800, PreviewHeight: 600}

	assert.True(t, g.Contains(Rect{X: 0, Y: 0, Width: 800, Height: 600}))
	assert.True(t, g.Contains(Rect{X: 100, Y: 100, Width: 20, Height: 20}))
	assert.False(t, g.Contains(Rect{X: 790, Y: 0, Width: 20, Height: 20}))
	assert.False(t, g.Contains(Rect{X: -1, Y: 0, Width: 20, Height: 20}))
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect("200, 200,400,300")
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 200, Y: 200, Width: 400, Height: 300}, r)
	assert.Equal(t, "200,200,400,300", r.String())

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "-1,0,10,10", "0,0,0,10"} {
		_, err := ParseRect(bad)
		assert.Error(t, err, bad)
	}
}

func TestRectCorners(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	assert.Equal(t, Point{X: 10, Y: 20}, r.Min())
	assert.Equal(t, Point{X: 40, Y: 60}, r.Max())
	assert.False(t, r.Empty())
	assert.True(t, Rect{Width: 0, Height: 5}.Empty())
}
