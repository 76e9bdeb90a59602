// Package imagefile loads source images from disk and carries them in the
// data URI form the processing service expects.
package imagefile

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	// Extra decoders beyond the stdlib png/jpeg/gif.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxFileSize caps what is read into memory.
const MaxFileSize = 64 << 20

var (
	// ErrNotImage is returned when the bytes are not a decodable image.
	ErrNotImage = errors.New("not an image")
	// ErrTooLarge is returned for files above MaxFileSize.
	ErrTooLarge = errors.New("file too large")
)

// Source is a loaded image. It is never mutated after Load returns.
type Source struct {
	Path     string
	MIME     string
	Width    int
	Height   int
	Bytes    int
	Image    image.Image
	DataURI  string
	Checksum uint64
}

// Name is the base file name.
func (s *Source) Name() string {
	return filepath.Base(s.Path)
}

// Load reads and decodes the image at path.
func Load(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return FromBytes(path, data)
}

// FromBytes decodes an in-memory image. path is only recorded.
func FromBytes(path string, data []byte) (*Source, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, fmt.Errorf("%s (%s): %w", filepath.Base(path), mime.String(), ErrNotImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrNotImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	contentType := baseType(mime.String())
	return &Source{
		Path:     path,
		MIME:     contentType,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Bytes:    len(data),
		Image:    img,
		DataURI:  EncodeDataURI(contentType, data),
		Checksum: checksum(data),
	}, nil
}

// baseType strips parameters such as "; charset=binary".
func baseType(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}

// checksum keys preview caches.
func checksum(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
