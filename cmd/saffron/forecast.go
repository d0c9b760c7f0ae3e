package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkade/saffron/internal/cli"
	"github.com/mkade/saffron/internal/common"
	"github.com/mkade/saffron/internal/model"
	"github.com/mkade/saffron/internal/report"
)

func forecastCmd() *cobra.Command {
	var (
		lookback int
		horizon  int
	)

	cmd := &cobra.Command{
		Use:   "forecast [category]",
		Short: "Project next-month activity from recent history",
		Long: `Fit a trend line through the trailing complete months and project it
forward. Without a category, the overall monthly net is forecast.

Examples:
  saffron forecast
  saffron forecast Rent --lookback 12 --horizon 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, _, err := openLedger(cmd.Context())
			if err != nil {
				return err
			}

			if lookback <= 0 {
				lookback = viper.GetInt("forecast.lookback")
			}

			categoryID := ""
			target := "overall net"
			if len(args) == 1 {
				cat, err := led.ResolveCategory(args[0])
				if err != nil {
					return err
				}
				categoryID = cat.ID
				target = cat.Name
			}

			result, err := report.New(led.Profile()).Forecast(categoryID, lookback, horizon)
			if errors.Is(err, common.ErrInsufficientHistory) {
				fmt.Println(cli.WarningStyle.Render("Not enough data: a forecast needs at least two complete months of history."))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to forecast: %w", err)
			}

			direction := string(result.Direction)
			switch result.Direction {
			case model.TrendRising:
				direction = cli.WarningStyle.Render("rising ↗")
			case model.TrendFalling:
				direction = cli.InfoStyle.Render("falling ↘")
			case model.TrendStable:
				direction = cli.SubtleStyle.Render("stable →")
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Forecast for %s", target)))
			fmt.Printf("Next month: %s (%s, from %d months of history)\n",
				cli.BoldStyle.Render(result.Projected.StringFixed(2)), direction, result.PeriodsUsed)

			if horizon > 1 {
				for i, projection := range result.Projections {
					fmt.Printf("  +%d month(s): %s\n", i+1, projection.StringFixed(2))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&lookback, "lookback", 0, "complete months to fit against (default from config)")
	cmd.Flags().IntVar(&horizon, "horizon", 1, "months to project forward")

	return cmd
}
