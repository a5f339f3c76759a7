package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
)

// receiptPrompt is seeded by ExtractReceipt on backends that support
// free-form instructions, so they emit JSON the parser maps directly.
const receiptPrompt = `Extract structured information from this receipt:
- Merchant/store name
- Date and time
- Line items (name, quantity, price)
- Subtotal, tax, and total amounts
- Payment method

Return as JSON format with keys: merchant, date, items[], subtotal, tax, total, payment_method.`

// Processor routes extraction calls to exactly one backend per
// invocation. Backend selection belongs to the caller; the processor
// never falls back to a different backend on failure.
type Processor struct {
	cfg      Config
	mu       sync.Mutex
	backends map[model.OCRBackend]Backend
}

// NewProcessor creates a processor. Backends are constructed lazily on
// first use so that, say, a missing paddleocr binary does not prevent
// vision extractions.
func NewProcessor(cfg Config) *Processor {
	return &Processor{
		cfg:      cfg,
		backends: make(map[model.OCRBackend]Backend),
	}
}

// ExtractText runs plain text extraction on the requested backend.
func (p *Processor) ExtractText(ctx context.Context, imagePath string, kind model.OCRBackend) (model.RawOCRResult, error) {
	return p.extract(ctx, imagePath, kind, "")
}

// ExtractReceipt runs extraction tuned for receipts: backends that accept
// an instruction are asked for structured JSON output.
func (p *Processor) ExtractReceipt(ctx context.Context, imagePath string, kind model.OCRBackend) (model.RawOCRResult, error) {
	return p.extract(ctx, imagePath, kind, receiptPrompt)
}

func (p *Processor) extract(ctx context.Context, imagePath string, kind model.OCRBackend, prompt string) (model.RawOCRResult, error) {
	// Precondition check before any backend is constructed or invoked.
	if _, err := os.Stat(imagePath); err != nil {
		return model.RawOCRResult{}, fmt.Errorf("%w: %s", common.ErrImageNotFound, imagePath)
	}

	backend, err := p.backend(kind)
	if err != nil {
		// Construction failures (missing service, executable,
		// credential) surface as structured results, not crashes.
		return failure(kind, err.Error()), nil
	}

	var result model.RawOCRResult
	if prompter, ok := backend.(Prompter); ok && prompt != "" {
		result, err = prompter.ExtractWithPrompt(ctx, imagePath, prompt)
	} else {
		result, err = backend.Extract(ctx, imagePath)
	}
	if err != nil {
		return model.RawOCRResult{}, err
	}

	// Tag every result for downstream audit.
	result.Backend = kind

	if !result.Success {
		slog.Warn("OCR extraction failed",
			"backend", kind,
			"image", imagePath,
			"error", result.Error)
	} else {
		slog.Debug("OCR extraction completed",
			"backend", kind,
			"image", imagePath,
			"chars", len(result.Text))
	}

	return result, nil
}

func (p *Processor) backend(kind model.OCRBackend) (Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if b, ok := p.backends[kind]; ok {
		return b, nil
	}
	b, err := New(kind, p.cfg)
	if err != nil {
		return nil, err
	}
	p.backends[kind] = b
	return b, nil
}
