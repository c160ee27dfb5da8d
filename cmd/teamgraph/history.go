package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyRun   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analytics runs",
	Long: `List runs saved with 'teamgraph analyze --store', newest first.

With --run, print the stored snapshots of one run instead.

Examples:
  teamgraph history --limit 10
  teamgraph history --run 3f6c... -o json`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs (0 = all)")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "show the snapshots of this run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if historyRun != "" {
		if _, err := store.GetRun(ctx, historyRun); err != nil {
			return err
		}
		records, err := store.GetSnapshots(ctx, historyRun)
		if err != nil {
			return err
		}
		formatter, err := selectFormatter(0)
		if err != nil {
			return err
		}
		return formatter.Snapshots(os.Stdout, records)
	}

	runs, err := store.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}

	formatter, err := selectFormatter(0)
	if err != nil {
		return err
	}
	return formatter.Runs(os.Stdout, runs)
}
