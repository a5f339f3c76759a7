package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/levynexus/nexus/internal/cli"
	"github.com/levynexus/nexus/internal/service"
)

func transactionsCmd() *cobra.Command {
	var (
		owner    string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List stored transactions",
		Long:  `List persisted transactions, newest first, optionally filtered by owner or category.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			txns, err := store.GetTransactions(ctx, service.TransactionFilter{
				Owner:    owner,
				Category: category,
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println(cli.FormatInfo("no transactions found"))
				return nil
			}

			header := fmt.Sprintf("%-14s %-24s %-12s %12s  %-24s", "ID", "Merchant", "Date", "Amount", "Category")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for _, txn := range txns {
				category := txn.Category
				if txn.Subcategory != "" {
					category += " / " + txn.Subcategory
				}
				row := fmt.Sprintf("%-14s %-24s %-12s %12.2f  %-24s",
					txn.ID, clip(txn.Merchant, 24), txn.Date, txn.Amount, category)
				fmt.Println(cli.TableCellStyle.Render(row))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "filter by owner")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to show")

	return cmd
}

func subscriptionsCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Detect recurring charges",
		Long: `Look for merchant+amount pairs that recur across the last six months
and report them as likely subscriptions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			patterns, err := store.DetectSubscriptions(ctx, owner)
			if err != nil {
				return err
			}
			if len(patterns) == 0 {
				fmt.Println(cli.FormatInfo("no recurring charges detected"))
				return nil
			}

			header := fmt.Sprintf("%-24s %12s %8s %-10s %10s", "Merchant", "Amount", "Charges", "Frequency", "Confidence")
			fmt.Println(cli.TableHeaderStyle.Render(header))
			for _, p := range patterns {
				row := fmt.Sprintf("%-24s %12.2f %8d %-10s %9.0f%%",
					clip(p.Merchant, 24), p.Amount, p.ChargeCount, p.Frequency, p.Confidence*100)
				fmt.Println(cli.TableCellStyle.Render(row))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner whose transactions to analyze")

	return cmd
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-1]) + "…"
}
