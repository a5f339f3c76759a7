package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/levynexus/nexus/internal/cli"
)

func runwayCmd() *cobra.Command {
	var (
		owner   string
		balance float64
	)

	cmd := &cobra.Command{
		Use:   "runway",
		Short: "Project how long the balance lasts",
		Long: `Estimate days of spending remaining from the average monthly burn
over the last three months of stored transactions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			report, err := store.CalculateRunway(ctx, owner, balance)
			if err != nil {
				return err
			}

			style := cli.SuccessStyle
			switch report.Status {
			case "critical":
				style = cli.ErrorStyle
			case "warning":
				style = cli.WarningStyle
			}

			fmt.Println(cli.TitleStyle.Render("Runway"))
			fmt.Printf("  %s %d days (%.1f months) — %s\n",
				cli.BoldStyle.Render("Remaining:"), report.DaysRemaining,
				report.MonthsRemaining, style.Render(report.Status))
			fmt.Printf("  %s %.2f/day, %.2f/month\n",
				cli.SubtleStyle.Render("Burn:     "), report.DailyBurn, report.MonthlyBurn)
			fmt.Printf("  %s %s\n",
				cli.SubtleStyle.Render("Depleted: "), report.ProjectedDepletion.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner whose spending to project")
	cmd.Flags().Float64Var(&balance, "balance", 0, "current balance to divide by the burn rate")
	_ = cmd.MarkFlagRequired("balance")

	return cmd
}
