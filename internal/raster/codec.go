package raster

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// DecodePNG decodes an encoded raster (PNG or any format imaging recognizes)
// into the working format.
func DecodePNG(data []byte) (*Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: decode frame: %w", err)
	}
	return FromNRGBA(imaging.Clone(img)), nil
}

// EncodePNG writes the image as a PNG.
func EncodePNG(w io.Writer, m *Image) error {
	if err := imaging.Encode(w, m.ToNRGBA(), imaging.PNG); err != nil {
		return fmt.Errorf("raster: encode frame: %w", err)
	}
	return nil
}

// EncodePNGBytes is EncodePNG into a fresh buffer.
func EncodePNGBytes(m *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Resize scales the image to w x h with the given resampling filter,
// round-tripping through 8-bit like the preview renderer does.
func Resize(m *Image, w, h int, filter imaging.ResampleFilter) *Image {
	return FromNRGBA(imaging.Resize(m.ToNRGBA(), w, h, filter))
}
