// Package model defines the core domain models used throughout the application.
package model

// OCRBackend identifies which OCR engine produced a result.
type OCRBackend string

// Supported OCR backends.
const (
	BackendEasyOCR OCRBackend = "easyocr"
	BackendPaddle  OCRBackend = "paddle"
	BackendVision  OCRBackend = "vision"
)

// WordBox is an optional per-word detection detail. Parsing does not
// require word boxes; only the self-hosted service returns them.
type WordBox struct {
	Text       string     `json:"text"`
	BBox       [4]float64 `json:"bbox"`
	Confidence float64    `json:"confidence"`
}

// TokenUsage carries token counts from vision-model backends for cost
// tracking. Not required for parsing correctness.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RawOCRResult is the normalized output of a single OCR extraction.
// Produced by a backend adapter, consumed by the orchestrator and parser.
// Immutable after creation.
type RawOCRResult struct {
	Backend OCRBackend  `json:"backend"`
	Text    string      `json:"text"`
	Words   []WordBox   `json:"words,omitempty"`
	Usage   *TokenUsage `json:"usage,omitempty"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
}

// LineItem is a single purchased item on a receipt, in print order.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ParsedReceipt is the structured form of a receipt extracted from OCR
// text. Missing fields stay nil rather than defaulting to zero; the
// confidence scorer communicates incompleteness to the caller. Never
// mutated after creation.
type ParsedReceipt struct {
	Merchant      *string    `json:"merchant"`
	Date          *string    `json:"date"` // receipt-native format, unnormalized
	Items         []LineItem `json:"items"`
	Subtotal      *float64   `json:"subtotal"`
	Tax           *float64   `json:"tax"`
	Total         *float64   `json:"total"`
	PaymentMethod *string    `json:"payment_method"`
	RawText       string     `json:"raw_text"`
}
