package imageproc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	MaxDimension   = 1280
	ThumbDimension = 320
	jpegQuality    = 85
)

// Result holds the JPEG re-encodings of an uploaded image.
type Result struct {
	Full      []byte
	Thumbnail []byte
	Width     int
	Height    int
}

type Processor struct {
	maxDim   int
	thumbDim int
}

func NewProcessor() *Processor {
	return &Processor{maxDim: MaxDimension, thumbDim: ThumbDimension}
}

// Process decodes a JPEG or PNG, applies its EXIF orientation, fits it into
// the maximum box and cuts a square thumbnail.
func (p *Processor) Process(data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	full := img
	if b := img.Bounds(); b.Dx() > p.maxDim || b.Dy() > p.maxDim {
		full = imaging.Fit(img, p.maxDim, p.maxDim, imaging.Lanczos)
	}
	thumb := imaging.Fill(img, p.thumbDim, p.thumbDim, imaging.Center, imaging.Lanczos)

	fullBytes, err := encode(full)
	if err != nil {
		return nil, err
	}
	thumbBytes, err := encode(thumb)
	if err != nil {
		return nil, err
	}

	b := full.Bounds()
	return &Result{Full: fullBytes, Thumbnail: thumbBytes, Width: b.Dx(), Height: b.Dy()}, nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
