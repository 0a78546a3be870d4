package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrEmptyImage        = errors.New("empty image")
	ErrUnsupportedFormat = errors.New("unsupported image format, expected JPEG or PNG")
	ErrDecode            = errors.New("failed to decode image")
)

// AcceptedTypes are the upload content types the classifier takes.
var AcceptedTypes = []string{"image/jpeg", "image/png"}

// Sniff returns the detected content type and whether it is accepted.
func Sniff(data []byte) (string, bool) {
	mtype := mimetype.Detect(data)
	for _, accepted := range AcceptedTypes {
		if mtype.Is(accepted) {
			return accepted, true
		}
	}
	return mtype.String(), false
}

// Decode validates the content type from the bytes, not the file name, and
// decodes the image. The returned string is the detected MIME type.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}

	mtype, ok := Sniff(data)
	if !ok {
		return nil, mtype, fmt.Errorf("%w: got %s", ErrUnsupportedFormat, mtype)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, mtype, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, mtype, ErrEmptyImage
	}
	return img, mtype, nil
}
