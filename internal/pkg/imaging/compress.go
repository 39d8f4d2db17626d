package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
)

// Size window for proof-of-visit photos.
const (
	DefaultMaxSize = 300 * 1024
	DefaultMinSize = 50 * 1024

	minWidth  = 600
	minHeight = 400
)

// Compressible reports whether Compress can decode the content type.
func Compressible(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png"
}

// Compress re-encodes a JPEG or PNG as JPEG so it fits between minSize and
// maxSize bytes, lowering quality first and then downscaling. Images already
// inside the window are returned unchanged.
func Compress(buffer []byte, maxSize, minSize int) ([]byte, error) {
	if len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	var compressed []byte

	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize && len(compressed) >= minSize {
			return compressed, nil
		}
		if len(compressed) < maxSize {
			// Too small is acceptable; more quality would not help.
			return compressed, nil
		}
	}

	// Aim for the middle of the window.
	target := (maxSize + minSize) / 2
	ratio := math.Sqrt(float64(target) / float64(len(compressed)))
	width := max(int(float64(bounds.Dx())*ratio), min(minWidth, bounds.Dx()))
	height := max(int(float64(bounds.Dy())*ratio), min(minHeight, bounds.Dy()))

	return encodeJPEG(resize(img, width, height), 70)
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func resize(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
