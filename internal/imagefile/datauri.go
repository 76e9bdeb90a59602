package imagefile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

// ErrBadDataURI is returned for strings that are not base64 data URIs.
var ErrBadDataURI = errors.New("malformed data URI")

// EncodeDataURI builds "data:<mime>;base64,<payload>".
func EncodeDataURI(mime string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeDataURI splits a base64 data URI into its media type and bytes.
// A missing media type defaults to what the bytes sniff as.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: not base64", ErrBadDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	if mime == "" {
		mime = baseType(mimetype.Detect(data).String())
	}
	return mime, data, nil
}

// DecodeImage decodes the image carried by a data URI for display.
func DecodeImage(uri string) (image.Image, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode result image: %w", err)
	}
	return img, nil
}

// WriteDataURI writes the payload of uri to dir/stem with an extension
// matching its media type, and returns the written path.
func WriteDataURI(dir, stem, uri string) (string, error) {
	mime, data, err := DecodeDataURI(uri)
	if err != nil {
		return "", err
	}
	ext := ".png"
	if m := mimetype.Lookup(mime); m != nil && m.Extension() != "" {
		ext = m.Extension()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, stem+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}
