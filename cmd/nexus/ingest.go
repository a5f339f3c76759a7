package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/levynexus/nexus/internal/classify"
	"github.com/levynexus/nexus/internal/cli"
	"github.com/levynexus/nexus/internal/config"
	"github.com/levynexus/nexus/internal/engine"
	"github.com/levynexus/nexus/internal/model"
	"github.com/levynexus/nexus/internal/ocr"
	"github.com/levynexus/nexus/internal/service"
)

func ingestCmd() *cobra.Command {
	var (
		backendFlag string
		owner       string
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <image>",
		Short: "Ingest a single receipt image",
		Long: `Extract text from a receipt image, parse it into a structured
transaction, classify it, and store the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			kind, err := resolveBackend(backendFlag)
			if err != nil {
				return err
			}

			var store service.Storage
			if !noSave {
				store, err = initStorage(ctx)
				if err != nil {
					return fmt.Errorf("failed to initialize storage: %w", err)
				}
				defer func() { _ = store.Close() }()
			}

			result, err := runIngest(ctx, args[0], kind, owner, store)
			if err != nil {
				return err
			}

			printIngestResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&backendFlag, "backend", "", "OCR backend (easyocr, paddle, vision)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner to record on the transaction")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the result without persisting it")

	return cmd
}

func runIngest(ctx context.Context, imagePath string, kind model.OCRBackend, owner string, store service.Storage) (*engine.IngestResult, error) {
	processor := ocr.NewProcessor(config.LoadOCRConfig())

	eng, err := engine.New(processor, classify.New(), store)
	if err != nil {
		return nil, err
	}

	return eng.IngestReceipt(ctx, imagePath, kind, owner)
}

func printIngestResult(result *engine.IngestResult) {
	fmt.Println(cli.TitleStyle.Render("Receipt"))

	receipt := result.Receipt
	if receipt.Merchant != nil {
		fmt.Printf("  %s %s\n", cli.SubtleStyle.Render("Merchant:"), *receipt.Merchant)
	}
	if receipt.Date != nil {
		fmt.Printf("  %s %s\n", cli.SubtleStyle.Render("Date:    "), *receipt.Date)
	}
	for _, item := range receipt.Items {
		fmt.Printf("  %s %d x %s  %.2f\n", cli.SubtleStyle.Render("Item:    "), item.Quantity, item.Name, item.Price)
	}
	if receipt.Subtotal != nil {
		fmt.Printf("  %s %.2f\n", cli.SubtleStyle.Render("Subtotal:"), *receipt.Subtotal)
	}
	if receipt.Tax != nil {
		fmt.Printf("  %s %.2f\n", cli.SubtleStyle.Render("Tax:     "), *receipt.Tax)
	}
	if receipt.Total != nil {
		fmt.Printf("  %s %.2f\n", cli.BoldStyle.Render("Total:   "), *receipt.Total)
	}

	cls := result.Classification
	category := cls.Category
	if cls.Subcategory != "" {
		category += " / " + cls.Subcategory
	}
	fmt.Printf("  %s %s (%s confidence)\n", cli.SubtleStyle.Render("Category:"), category, cls.Confidence)
	fmt.Printf("  %s %.0f%% (%s backend)\n", cli.SubtleStyle.Render("Parsed:  "), result.Confidence*100, result.Backend)

	if result.TransactionID != "" {
		fmt.Println(cli.FormatSuccess("saved as " + result.TransactionID))
	} else {
		fmt.Println(cli.FormatInfo("not persisted"))
	}
}
