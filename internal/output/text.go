package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rohankatakam/teamgraph/internal/landscape"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/storage"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// TextFormatter writes aligned, human-readable tables
type TextFormatter struct {
	TopK int
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func (f *TextFormatter) Report(w io.Writer, r *landscape.Report) error {
	view := NewReportView(r, f.TopK)
	s := view.Summary

	fmt.Fprintf(w, "Team landscape as of %s\n", view.Reference)
	fmt.Fprintf(w, "  Contributors: %d   Projects: %d\n", s.Contributors, s.Projects)
	fmt.Fprintf(w, "  Active last 30 days: %d   90 days: %d   180 days: %d   Rookies: %d\n",
		s.RecentContributors, s.Contributors3Months, s.Contributors6Months, s.ActiveRookies)

	if len(view.Windows) > 0 {
		fmt.Fprintln(w)
		if err := f.indexTable(w, view.Windows); err != nil {
			return err
		}
	}

	for _, wv := range view.Windows {
		fmt.Fprintf(w, "\n=== %s ===\n", wv.Window)
		if err := f.windowDetail(w, wv); err != nil {
			return err
		}
	}

	for _, tv := range view.Trends {
		fmt.Fprintln(w)
		if err := f.trendTable(w, tv); err != nil {
			return err
		}
	}
	return nil
}

func (f *TextFormatter) indexTable(w io.Writer, windows []WindowView) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "WINDOW\tACTIVE\tPROJECTS\tLINKS\tC-MEDIAN\tC-MEAN\tC-INDEX\tP-MEDIAN\tP-MEAN\tP-INDEX")
	for _, wv := range windows {
		st := wv.Statistics
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%.2f\t%d\t%.1f\t%.2f\t%d\n",
			wv.Window, wv.ActiveContributors, wv.ActiveProjects, wv.ContributorEdges,
			st.CMedian, st.CMean, st.CIndex, st.PMedian, st.PMean, st.PIndex)
	}
	return tw.Flush()
}

func (f *TextFormatter) windowDetail(w io.Writer, wv WindowView) error {
	if wv.ActiveContributors == 0 {
		fmt.Fprintln(w, "No activity in this window.")
		return nil
	}

	if len(wv.TopConnections) > 0 {
		fmt.Fprintf(w, "Strongest connections (%d of %d):\n", len(wv.TopConnections), wv.ContributorEdges)
		tw := newTable(w)
		fmt.Fprintln(tw, "  FROM\tTO\tSHARED\tFROM %\tTO %")
		for _, c := range wv.TopConnections {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%.0f\t%.0f\n", c.From, c.To, c.Weight, c.FromShare, c.ToShare)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(wv.TopProjectLinks) > 0 {
		fmt.Fprintf(w, "Strongest project links (%d of %d):\n", len(wv.TopProjectLinks), wv.ProjectEdges)
		tw := newTable(w)
		fmt.Fprintln(tw, "  FROM\tTO\tSHARED")
		for _, e := range wv.TopProjectLinks {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", e.From, e.To, e.Weight)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "Most connected:")
	if err := contributorTable(w, wv.MostConnected); err != nil {
		return err
	}
	fmt.Fprintln(w, "Most projects:")
	if err := contributorTable(w, wv.MostProjects); err != nil {
		return err
	}

	fmt.Fprintln(w, "Projects:")
	tw := newTable(w)
	fmt.Fprintln(tw, "  PROJECT\tCONTRIBUTORS\tLINKS")
	for _, p := range wv.Projects {
		fmt.Fprintf(tw, "  %s\t%d\t%d\n", p.Project, p.Contributors, p.Connections)
	}
	return tw.Flush()
}

func contributorTable(w io.Writer, stats []landscape.ContributorStats) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "  CONTRIBUTOR\tCONNECTIONS\tPROJECTS\tCOMMIT DAYS\t")
	for _, s := range stats {
		marker := ""
		if s.Rookie {
			marker = "rookie"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\t%s\n", s.ID, s.Connections, s.Projects, s.CommitDays, marker)
	}
	return tw.Flush()
}

func (f *TextFormatter) Trend(w io.Writer, t *landscape.Trend) error {
	return f.trendTable(w, NewTrendView(t))
}

func (f *TextFormatter) trendTable(w io.Writer, tv TrendView) error {
	fmt.Fprintf(w, "Trend for %s window (%d months)\n", tv.Window, len(tv.References))

	tw := newTable(w)
	header := []string{"WHEN", "REFERENCE"}
	for _, s := range tv.Series {
		header = append(header, strings.ToUpper(string(s.Statistic)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, ref := range tv.References {
		row := []string{monthsAgo(i), ref}
		for _, s := range tv.Series {
			row = append(row, formatValue(s.Statistic, s.Values[i]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatValue(s landscape.Statistic, v float64) string {
	switch s {
	case landscape.CIndex, landscape.PIndex:
		return fmt.Sprintf("%d", int(v))
	case landscape.CMedian, landscape.PMedian:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func (f *TextFormatter) Timeline(w io.Writer, slots []roster.Slot) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PERIOD\tCONTRIBUTORS\tROOKIES\tCOMMIT DAYS\tNEW")
	for _, s := range slots {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
			s.Key, len(s.Contributors), len(s.Rookies), s.CommitDays, joinIDs(s.Rookies))
	}
	return tw.Flush()
}

func (f *TextFormatter) ProjectTimeline(w io.Writer, id roster.ContributorID, buckets []roster.BucketCount) error {
	fmt.Fprintf(w, "Projects per period for %s\n", id)
	tw := newTable(w)
	fmt.Fprintln(tw, "PERIOD\tPROJECTS")
	for _, b := range buckets {
		fmt.Fprintf(tw, "%s\t%d\n", b.Key, b.Count)
	}
	return tw.Flush()
}

func joinIDs(ids []roster.ContributorID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func (f *TextFormatter) Runs(w io.Writer, runs []*storage.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored runs.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tREFERENCE\tWINDOWS\tTREND\tCONTRIBUTORS\tPROJECTS\tCREATED")
	for _, r := range runs {
		windows := make([]string, len(r.Windows))
		for i, d := range r.Windows {
			windows[i] = fmt.Sprintf("%d", d)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, temporal.FormatDay(r.Reference), strings.Join(windows, ","), r.TrendMonths,
			r.Contributors, r.Projects, r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (f *TextFormatter) Snapshots(w io.Writer, records []storage.SnapshotRecord) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "WINDOW\tWHEN\tREFERENCE\tKIND\tMEDIAN\tMEAN\tINDEX\tVALUES")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%.2f\t%d\t%d\n",
			landscape.WindowLabel(r.WindowDays), monthsAgo(r.OffsetMonths), temporal.FormatDay(r.Reference),
			r.Kind, r.Median, r.Mean, r.RankIndex, len(r.Distribution))
	}
	return tw.Flush()
}
