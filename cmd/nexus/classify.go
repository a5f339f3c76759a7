package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/levynexus/nexus/internal/classify"
	"github.com/levynexus/nexus/internal/cli"
	"github.com/levynexus/nexus/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		merchant string
		total    float64
		items    []string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an ad-hoc transaction",
		Long: `Run the rule-based classifier against a transaction described on the
command line, without OCR or storage. Useful for inspecting how a
merchant or amount would be categorized.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tx := classify.TransactionData{Merchant: merchant}
			for _, name := range items {
				tx.Items = append(tx.Items, model.LineItem{Name: name, Quantity: 1})
			}
			if cmd.Flags().Changed("total") {
				tx.Total = &total
			}

			cls := classify.New().Classify(tx)

			category := cls.Category
			if cls.Subcategory != "" {
				category += " / " + cls.Subcategory
			}
			fmt.Printf("%s %s\n", cli.BoldStyle.Render("Category:  "), category)
			fmt.Printf("%s %s\n", cli.SubtleStyle.Render("Confidence:"), cls.Confidence)
			fmt.Printf("%s %s\n", cli.SubtleStyle.Render("Recurrence:"), cls.Recurrence)
			fmt.Printf("%s %v\n", cli.SubtleStyle.Render("Discretionary:"), cls.IsDiscretionary)
			return nil
		},
	}

	cmd.Flags().StringVar(&merchant, "merchant", "", "merchant name")
	cmd.Flags().Float64Var(&total, "total", 0, "transaction total")
	cmd.Flags().StringSliceVar(&items, "item", nil, "line item name (repeatable)")

	return cmd
}
