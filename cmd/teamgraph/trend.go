package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/teamgraph/internal/landscape"
)

var (
	trendWindow int
	trendMonths int
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show how the network indices changed month by month",
	Long: `Recompute one lookback window with the reference date shifted back
0, 1, ... N-1 calendar months and print the six indices, most recent
first. Months without activity show zeros.

Example:
  teamgraph trend --roster roster.json --window 90 --months 12`,
	RunE: runTrend,
}

func init() {
	addRosterFlags(trendCmd)
	trendCmd.Flags().IntVar(&trendWindow, "window", 30, "lookback window in days")
	trendCmd.Flags().IntVar(&trendMonths, "months", landscape.DefaultTrendMonths, "number of months")
}

func runTrend(cmd *cobra.Command, args []string) error {
	r, ref, err := loadRoster()
	if err != nil {
		return err
	}

	engine, err := newEngine(r)
	if err != nil {
		return err
	}

	trend, err := engine.BuildTrend(cmd.Context(), ref, trendWindow, trendMonths)
	if err != nil {
		return err
	}

	formatter, err := selectFormatter(cfg.Analysis.TopK)
	if err != nil {
		return err
	}
	return formatter.Trend(os.Stdout, trend)
}
