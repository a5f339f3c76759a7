package ocr

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// upscaleHeight is the minimum pixel height local OCR engines handle
// well; smaller images get a Lanczos upscale.
const upscaleHeight = 1200

// PrepareImage writes a grayscale, upscaled copy of the image to a
// temporary PNG and returns its path with a cleanup func. Callers fall
// back to the original path when preparation fails; preprocessing is an
// accuracy aid, never a gate.
func PrepareImage(path string) (string, func(), error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < upscaleHeight {
		gray = imaging.Resize(gray, 0, upscaleHeight, imaging.Lanczos)
	}

	tmp, err := os.CreateTemp("", "nexus-ocr-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := imaging.Save(gray, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", nil, fmt.Errorf("save prepared image: %w", err)
	}

	return tmpPath, func() { _ = os.Remove(tmpPath) }, nil
}
