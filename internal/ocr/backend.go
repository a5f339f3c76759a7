// Package ocr extracts text from receipt images through interchangeable
// backend engines.
package ocr

import (
	"context"
	"fmt"

	"github.com/levynexus/nexus/internal/model"
)

// Backend is one concrete OCR engine. Implementations return operational
// failures (engine down, timeout, malformed response) inside the result
// with Success=false; a non-nil error is reserved for precondition
// failures such as a missing or unreadable image file.
type Backend interface {
	Extract(ctx context.Context, imagePath string) (model.RawOCRResult, error)
}

// Prompter is implemented by backends that accept a free-form extraction
// instruction alongside the image.
type Prompter interface {
	ExtractWithPrompt(ctx context.Context, imagePath, prompt string) (model.RawOCRResult, error)
}

// Config carries backend-specific settings injected by the caller. The
// pipeline itself never reads files or environment variables.
type Config struct {
	// ServiceURL is the base URL of the self-hosted OCR service.
	ServiceURL string
	// PaddlePath is the paddleocr executable; PaddleLang its language code.
	PaddlePath string
	PaddleLang string
	// APIKey, BaseURL and Model configure the cloud vision backend.
	APIKey  string
	BaseURL string
	Model   string
	// Preprocess enables a grayscale/upscale pass before local engines.
	Preprocess bool
}

// New constructs the backend for the given kind. Construction itself can
// fail (service not configured, executable missing, credential absent);
// the orchestrator reports such failures as structured results.
func New(kind model.OCRBackend, cfg Config) (Backend, error) {
	switch kind {
	case model.BackendEasyOCR:
		return newEasyOCRBackend(cfg)
	case model.BackendPaddle:
		return newPaddleBackend(cfg)
	case model.BackendVision:
		return newVisionBackend(cfg)
	default:
		return nil, fmt.Errorf("unsupported ocr backend: %q", kind)
	}
}
