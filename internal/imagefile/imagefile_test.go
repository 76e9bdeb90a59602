package imagefile

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	data := pngBytes(t, 32, 16)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	src, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 32, src.Width)
	assert.Equal(t, 16, src.Height)
	assert.Equal(t, "image/png", src.MIME)
	assert.Equal(t, "photo.png", src.Name())
	assert.Equal(t, len(data), src.Bytes)
	assert.True(t, strings.HasPrefix(src.DataURI, "data:image/png;base64,"))
	assert.Equal(t, image.Rect(0, 0, 32, 16), src.Image.Bounds())
}

func TestLoad_NotImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestFromBytes_TruncatedImage(t *testing.T) {
	data := pngBytes(t, 8, 8)
	_, err := FromBytes("broken.png", data[:40])
	assert.Error(t, err)
}

func TestChecksumStable(t *testing.T) {
	data := pngBytes(t, 4, 4)
	a, err := FromBytes("a.png", data)
	require.NoError(t, err)
	b, err := FromBytes("b.png", data)
	require.NoError(t, err)
	assert.Equal(t, a.Checksum, b.Checksum)
}

func TestDataURIRoundTrip(t *testing.T) {
	data := pngBytes(t, 3, 3)
	uri := EncodeDataURI("image/png", data)

	mime, got, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, data, got)

	img, err := DecodeImage(uri)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestDecodeDataURI_Errors(t *testing.T) {
	for _, bad := range []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,@@@",
	} {
		_, _, err := DecodeDataURI(bad)
		assert.ErrorIs(t, err, ErrBadDataURI, bad)
	}
}

func TestDecodeDataURI_SniffsMissingType(t *testing.T) {
	data := pngBytes(t, 2, 2)
	mime, _, err := DecodeDataURI(EncodeDataURI("", data))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestWriteDataURI(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	data := pngBytes(t, 2, 2)

	path, err := WriteDataURI(dir, "result", EncodeDataURI("image/png", data))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "result.png"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, written)
}
