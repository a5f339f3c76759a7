package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
)

func writeTestImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not-a-real-jpeg"), 0600))
	return path
}

func TestEasyOCRExtract(t *testing.T) {
	var gotPath string
	var gotPayload easyOCRRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(easyOCRResponse{
			Text: "INDOMARET\nTOTAL\nRp 88.000",
			Words: []model.WordBox{
				{Text: "INDOMARET", BBox: [4]float64{10, 10, 120, 30}, Confidence: 0.99},
			},
		})
	}))
	defer server.Close()

	backend, err := newEasyOCRBackend(Config{ServiceURL: server.URL})
	require.NoError(t, err)

	result, err := backend.Extract(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "INDOMARET\nTOTAL\nRp 88.000", result.Text)
	require.Len(t, result.Words, 1)
	assert.Equal(t, "INDOMARET", result.Words[0].Text)

	assert.Equal(t, "/predict", gotPath)
	assert.True(t, strings.HasPrefix(gotPayload.Image, "data:image/jpeg;base64,"))
}

func TestEasyOCRServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	backend, err := newEasyOCRBackend(Config{ServiceURL: server.URL})
	require.NoError(t, err)

	result, err := backend.Extract(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "status 500")
}

func TestEasyOCRMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	backend, err := newEasyOCRBackend(Config{ServiceURL: server.URL})
	require.NoError(t, err)

	result, err := backend.Extract(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "malformed service response")
}

func TestEasyOCRConnectionRefused(t *testing.T) {
	// A server that is immediately closed leaves a port nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	backend, err := newEasyOCRBackend(Config{ServiceURL: url})
	require.NoError(t, err)

	result, err := backend.Extract(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "connection failed")
}

func TestEasyOCRTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	b, err := newEasyOCRBackend(Config{ServiceURL: server.URL})
	require.NoError(t, err)
	b.(*easyOCRBackend).httpClient.Timeout = 50 * time.Millisecond

	result, err := b.Extract(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
}

func TestEasyOCRMissingImage(t *testing.T) {
	backend, err := newEasyOCRBackend(Config{})
	require.NoError(t, err)

	_, err = backend.Extract(context.Background(), "/nonexistent/receipt.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrImageNotFound)
}
