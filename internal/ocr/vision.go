package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
)

const visionTimeout = 30 * time.Second

// defaultVisionPrompt asks for a faithful transcription preserving the
// receipt layout, which the heuristic parser relies on.
const defaultVisionPrompt = `Extract all text from this receipt image.
Include merchant name, date, items, prices, totals, and any other visible text.
Format the output in a structured way that preserves receipt layout.`

// visionBackend sends images to a multimodal completion API together
// with a natural-language extraction instruction.
type visionBackend struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

func newVisionBackend(cfg Config) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vision API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o"
	}

	return &visionBackend{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		httpClient: &http.Client{
			Timeout: visionTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

func (b *visionBackend) Extract(ctx context.Context, imagePath string) (model.RawOCRResult, error) {
	return b.ExtractWithPrompt(ctx, imagePath, defaultVisionPrompt)
}

// ExtractWithPrompt sends the image with a caller-supplied instruction,
// e.g. the structured-receipt prompt seeded by the orchestrator.
func (b *visionBackend) ExtractWithPrompt(ctx context.Context, imagePath, prompt string) (model.RawOCRResult, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.RawOCRResult{}, fmt.Errorf("%w: %s", common.ErrImageNotFound, imagePath)
		}
		return model.RawOCRResult{}, fmt.Errorf("read image %s: %w", imagePath, err)
	}

	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)

	requestBody := map[string]any{
		"model":      b.model,
		"max_tokens": 2000,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return failure(model.BackendVision, fmt.Sprintf("encode request: %v", err)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return failure(model.BackendVision, fmt.Sprintf("build request: %v", err)), nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return failure(model.BackendVision, describeHTTPError(err, visionTimeout)), nil
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(model.BackendVision, fmt.Sprintf("read response: %v", err)), nil
	}

	if resp.StatusCode != http.StatusOK {
		return failure(model.BackendVision, fmt.Sprintf("vision API error (status %d): %s", resp.StatusCode, apiErrorMessage(respBody))), nil
	}

	var parsed visionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return failure(model.BackendVision, fmt.Sprintf("malformed API response: %v", err)), nil
	}
	if len(parsed.Choices) == 0 {
		return failure(model.BackendVision, "no content in API response"), nil
	}

	result := model.RawOCRResult{
		Success: true,
		Text:    parsed.Choices[0].Message.Content,
		Backend: model.BackendVision,
	}
	if parsed.Usage != nil {
		result.Usage = &model.TokenUsage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}
	return result, nil
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// apiErrorMessage pulls the human-readable message out of an API error
// body, falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return truncate(string(body), 200)
}
