package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
)

const easyOCRTimeout = 30 * time.Second

// easyOCRBackend talks to a self-hosted EasyOCR service over HTTP. The
// service expects a base64 data-URL image and answers with extracted text
// plus optional word boxes.
type easyOCRBackend struct {
	httpClient *http.Client
	serviceURL string
	preprocess bool
}

func newEasyOCRBackend(cfg Config) (Backend, error) {
	serviceURL := cfg.ServiceURL
	if serviceURL == "" {
		serviceURL = "http://127.0.0.1:5000"
	}

	return &easyOCRBackend{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		preprocess: cfg.Preprocess,
		httpClient: &http.Client{
			Timeout: easyOCRTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type easyOCRRequest struct {
	Image string `json:"image"`
}

type easyOCRResponse struct {
	Text  string          `json:"text"`
	Words []model.WordBox `json:"words"`
}

func (b *easyOCRBackend) Extract(ctx context.Context, imagePath string) (model.RawOCRResult, error) {
	path := imagePath
	if b.preprocess {
		if prepared, cleanup, err := PrepareImage(imagePath); err == nil {
			path = prepared
			defer cleanup()
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.RawOCRResult{}, fmt.Errorf("%w: %s", common.ErrImageNotFound, imagePath)
		}
		return model.RawOCRResult{}, fmt.Errorf("read image %s: %w", imagePath, err)
	}

	payload := easyOCRRequest{
		Image: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return failure(model.BackendEasyOCR, fmt.Sprintf("encode request: %v", err)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.serviceURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return failure(model.BackendEasyOCR, fmt.Sprintf("build request: %v", err)), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return failure(model.BackendEasyOCR, describeHTTPError(err, easyOCRTimeout)), nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(model.BackendEasyOCR, fmt.Sprintf("read response: %v", err)), nil
	}

	if resp.StatusCode != http.StatusOK {
		return failure(model.BackendEasyOCR, fmt.Sprintf("service returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))), nil
	}

	var parsed easyOCRResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return failure(model.BackendEasyOCR, fmt.Sprintf("malformed service response: %v", err)), nil
	}

	return model.RawOCRResult{
		Success: true,
		Text:    parsed.Text,
		Words:   parsed.Words,
		Backend: model.BackendEasyOCR,
	}, nil
}

// describeHTTPError distinguishes a timeout from a connection failure so
// callers can decide whether the failure is transient.
func describeHTTPError(err error, timeout time.Duration) string {
	var urlErr *url.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &urlErr) && urlErr.Timeout()) {
		return fmt.Sprintf("request timed out after %s", timeout)
	}
	return fmt.Sprintf("connection failed: %v", err)
}

func failure(backend model.OCRBackend, msg string) model.RawOCRResult {
	return model.RawOCRResult{
		Success: false,
		Backend: backend,
		Error:   msg,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
