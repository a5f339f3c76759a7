package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/config"
	"github.com/levynexus/nexus/internal/model"
	"github.com/levynexus/nexus/internal/service"
	"github.com/levynexus/nexus/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/nexus/nexus.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError("could not open the transaction database at "+dbPath, err)
	}

	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// resolveBackend maps the --backend flag (or the configured default) onto
// a backend identifier.
func resolveBackend(flag string) (model.OCRBackend, error) {
	name := flag
	if name == "" {
		name = viper.GetString("ocr.backend")
	}

	switch model.OCRBackend(name) {
	case model.BackendEasyOCR, model.BackendPaddle, model.BackendVision:
		return model.OCRBackend(name), nil
	default:
		return "", fmt.Errorf("unknown ocr backend %q (want easyocr, paddle, or vision)", name)
	}
}
