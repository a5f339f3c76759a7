// Package engine orchestrates the receipt ingestion flow: OCR, parsing,
// scoring, classification and persistence.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/levynexus/nexus/internal/classify"
	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
	"github.com/levynexus/nexus/internal/receipt"
	"github.com/levynexus/nexus/internal/service"
)

// Extractor is the OCR entry point the engine depends on; satisfied by
// *ocr.Processor.
type Extractor interface {
	ExtractReceipt(ctx context.Context, imagePath string, kind model.OCRBackend) (model.RawOCRResult, error)
}

// Engine wires the pipeline stages together. Construct one per process
// and pass it explicitly; there is no ambient global.
type Engine struct {
	extractor  Extractor
	classifier *classify.Classifier
	storage    service.Storage
}

// IngestResult is what a completed ingestion hands back to the caller.
type IngestResult struct {
	Receipt        model.ParsedReceipt  `json:"receipt"`
	Classification model.Classification `json:"classification"`
	Confidence     float64              `json:"confidence"`
	Backend        model.OCRBackend     `json:"backend"`
	TransactionID  string               `json:"transaction_id,omitempty"`
}

// New creates an ingestion engine. Storage may be nil, in which case
// results are returned but not persisted.
func New(extractor Extractor, classifier *classify.Classifier, storage service.Storage) (*Engine, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	return &Engine{
		extractor:  extractor,
		classifier: classifier,
		storage:    storage,
	}, nil
}

// IngestReceipt runs one image through the full pipeline. The backend
// choice belongs to the caller; the engine never falls back to another
// backend, and never retries — callers that consider a timeout transient
// retry themselves.
func (e *Engine) IngestReceipt(ctx context.Context, imagePath string, kind model.OCRBackend, owner string) (*IngestResult, error) {
	raw, err := e.extractor.ExtractReceipt(ctx, imagePath, kind)
	if err != nil {
		return nil, err
	}
	if !raw.Success {
		return nil, backendError(raw)
	}

	parsed := receipt.Parse(raw.Text)
	confidence := receipt.Score(parsed)
	classification := e.classifier.Classify(classify.FromReceipt(parsed))

	result := &IngestResult{
		Receipt:        parsed,
		Classification: classification,
		Confidence:     confidence,
		Backend:        raw.Backend,
	}

	slog.Info("Receipt ingested",
		"image", imagePath,
		"backend", raw.Backend,
		"merchant", derefString(parsed.Merchant),
		"items", len(parsed.Items),
		"category", classification.Category,
		"confidence", confidence)

	if e.storage != nil {
		txn := buildTransaction(parsed, classification, confidence, raw.Backend, owner)
		if err := e.storage.SaveTransaction(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to persist transaction: %w", err)
		}
		result.TransactionID = txn.ID
	}

	return result, nil
}

// backendError maps a failed OCR result onto the error taxonomy so
// callers can distinguish transient timeouts from hard failures.
func backendError(raw model.RawOCRResult) error {
	base := common.ErrBackendUnavailable
	if strings.Contains(raw.Error, "timed out") {
		base = common.ErrBackendTimeout
	}
	return fmt.Errorf("%w (%s): %s", base, raw.Backend, raw.Error)
}

func buildTransaction(parsed model.ParsedReceipt, cls model.Classification, confidence float64, backend model.OCRBackend, owner string) *model.Transaction {
	txn := &model.Transaction{
		Owner:           owner,
		Merchant:        derefString(parsed.Merchant),
		Date:            derefString(parsed.Date),
		Items:           parsed.Items,
		Amount:          derefFloat(parsed.Total),
		Subtotal:        derefFloat(parsed.Subtotal),
		Tax:             derefFloat(parsed.Tax),
		Category:        cls.Category,
		Subcategory:     cls.Subcategory,
		IsDiscretionary: cls.IsDiscretionary,
		Recurrence:      cls.Recurrence,
		PaymentMethod:   derefString(parsed.PaymentMethod),
		Backend:         backend,
		RawText:         parsed.RawText,
		Confidence:      confidence,
	}
	return txn
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
