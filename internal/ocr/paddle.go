package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
)

const paddleTimeout = 60 * time.Second

// paddleBackend drives the PaddleOCR command-line tool. The engine is
// forced onto CPU: MKLDNN and GPU paths are unstable on the host and must
// stay disabled.
type paddleBackend struct {
	cliPath    string
	lang       string
	preprocess bool
}

func newPaddleBackend(cfg Config) (Backend, error) {
	cliPath := cfg.PaddlePath
	if cliPath == "" {
		cliPath = "paddleocr"
	}

	if _, err := exec.LookPath(cliPath); err != nil {
		return nil, fmt.Errorf("paddleocr CLI not found at %q: %w", cliPath, err)
	}

	lang := cfg.PaddleLang
	if lang == "" {
		lang = "en"
	}

	return &paddleBackend{cliPath: cliPath, lang: lang, preprocess: cfg.Preprocess}, nil
}

func (b *paddleBackend) Extract(ctx context.Context, imagePath string) (model.RawOCRResult, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return model.RawOCRResult{}, fmt.Errorf("%w: %s", common.ErrImageNotFound, imagePath)
	}

	path := imagePath
	if b.preprocess {
		if prepared, cleanup, err := PrepareImage(imagePath); err == nil {
			path = prepared
			defer cleanup()
		}
	}

	cmdCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, paddleTimeout)
		defer cancel()
	}

	args := []string{
		"ocr",
		"-i", path,
		"--device", "cpu",
		"--lang", b.lang,
		"--use_doc_orientation_classify", "false",
		"--use_doc_unwarping", "false",
	}

	cmd := exec.CommandContext(cmdCtx, b.cliPath, args...)
	cmd.Env = append(os.Environ(),
		"FLAGS_use_mkldnn=0",
		"PADDLE_PDX_DISABLE_MODEL_SOURCE_CHECK=True",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
			return failure(model.BackendPaddle, fmt.Sprintf("paddleocr timed out after %s", paddleTimeout)), nil
		}
		if stderr.Len() > 0 {
			return failure(model.BackendPaddle, fmt.Sprintf("paddleocr failed: %s", truncate(strings.TrimSpace(stderr.String()), 300))), nil
		}
		return failure(model.BackendPaddle, fmt.Sprintf("paddleocr failed: %v", err)), nil
	}

	// PaddleOCR prints the recognition result embedded in free-form
	// diagnostic output, on stdout or stderr depending on version.
	lines, err := scrapeRecTexts(stdout.String() + "\n" + stderr.String())
	if err != nil {
		return failure(model.BackendPaddle, fmt.Sprintf("could not locate recognized text in paddleocr output: %v", err)), nil
	}

	return model.RawOCRResult{
		Success: true,
		Text:    strings.Join(lines, "\n"),
		Backend: model.BackendPaddle,
	}, nil
}
