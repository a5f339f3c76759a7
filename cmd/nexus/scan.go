package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/levynexus/nexus/internal/classify"
	"github.com/levynexus/nexus/internal/cli"
	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/config"
	"github.com/levynexus/nexus/internal/engine"
	"github.com/levynexus/nexus/internal/ocr"
)

// imageExtensions lists the file types a scan picks up.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func scanCmd() *cobra.Command {
	var (
		backendFlag string
		owner       string
		retries     int
	)

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Ingest every receipt image in a directory",
		Long: `Walk a directory for receipt images and run each one through the
ingestion pipeline. Transient backend timeouts are retried; other
failures are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kind, err := resolveBackend(backendFlag)
			if err != nil {
				return err
			}

			images, err := collectImages(args[0])
			if err != nil {
				return err
			}
			if len(images) == 0 {
				fmt.Println(cli.FormatWarning("no receipt images found in " + args[0]))
				return nil
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			processor := ocr.NewProcessor(config.LoadOCRConfig())
			eng, err := engine.New(processor, classify.New(), store)
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(images),
				progressbar.OptionSetDescription("Scanning receipts"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			var ingested, duplicates, failed int
			for _, image := range images {
				err := common.WithRetry(ctx, func() error {
					_, ingestErr := eng.IngestReceipt(ctx, image, kind, owner)
					return ingestErr
				}, common.RetryOptions{
					MaxAttempts:  retries,
					InitialDelay: time.Second,
				})

				switch {
				case err == nil:
					ingested++
				case errors.Is(err, common.ErrDuplicateEntry):
					duplicates++
				case errors.Is(err, context.Canceled):
					return err
				default:
					failed++
					fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(image), err)))
				}
				_ = bar.Add(1)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d ingested, %d duplicates, %d failed", ingested, duplicates, failed)))
			return nil
		},
	}

	cmd.Flags().StringVar(&backendFlag, "backend", "", "OCR backend (easyocr, paddle, vision)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner to record on the transactions")
	cmd.Flags().IntVar(&retries, "retries", 3, "attempts per image for transient backend failures")

	return cmd
}

func collectImages(dir string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if imageExtensions[strings.ToLower(filepath.Ext(path))] {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return images, nil
}
