package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/teamgraph/internal/errors"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

var (
	granularityFlag string
	countFlag       int
	contributorFlag string
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "List active contributors and rookies per week, month or year",
	Long: `Enumerate the last N time buckets up to the reference date (oldest
first, empty buckets included) and show, for each, how many contributors
committed, which of them were rookies and the number of commit days.

With --contributor, show the number of distinct projects that contributor
touched in each bucket instead.

Examples:
  teamgraph timeline --roster roster.json --granularity week --count 52
  teamgraph timeline --roster roster.json --contributor jane@example.com`,
	RunE: runTimeline,
}

func init() {
	addRosterFlags(timelineCmd)
	timelineCmd.Flags().StringVar(&granularityFlag, "granularity", "month", "bucket size: week, month or year")
	timelineCmd.Flags().IntVar(&countFlag, "count", 0, "number of buckets (default from config)")
	timelineCmd.Flags().StringVar(&contributorFlag, "contributor", "", "author email; show projects per bucket for this contributor")
}

// bucketCount picks the configured bucket count for a granularity
func bucketCount(g temporal.Granularity) int {
	if countFlag > 0 {
		return countFlag
	}
	switch g {
	case temporal.Week:
		return cfg.Analysis.WeekBuckets
	case temporal.Month:
		return cfg.Analysis.MonthBuckets
	default:
		return 10
	}
}

func runTimeline(cmd *cobra.Command, args []string) error {
	g, err := temporal.ParseGranularity(granularityFlag)
	if err != nil {
		return err
	}

	r, ref, err := loadRoster()
	if err != nil {
		return err
	}

	formatter, err := selectFormatter(0)
	if err != nil {
		return err
	}
	if contributorFlag != "" {
		id := roster.NormalizeEmail(contributorFlag)
		c, ok := r.Lookup(id)
		if !ok {
			return errors.Validationf("contributor %q not found in roster", contributorFlag)
		}
		return formatter.ProjectTimeline(os.Stdout, id, c.ProjectTimeline(g, bucketCount(g), ref))
	}
	return formatter.Timeline(os.Stdout, r.Timeline(g, bucketCount(g), ref, cfg.Analysis.RookieDays))
}
