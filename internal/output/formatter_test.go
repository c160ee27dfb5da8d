package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/teamgraph/internal/landscape"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/storage"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

func sampleReport(t *testing.T) *landscape.Report {
	t.Helper()
	ref, err := temporal.ParseDay("2024-06-01")
	require.NoError(t, err)

	b := roster.NewBuilder()
	b.Add("a@example.com", "api", ref)
	b.Add("a@example.com", "web", ref)
	b.Add("b@example.com", "api", ref)
	b.Add("c@example.com", "web", ref)
	b.Add("c@example.com", "cli", ref)
	b.Add("d@example.com", "cli", ref.AddDate(0, 0, -3))

	e, err := landscape.NewEngine(b.Build(), landscape.Options{})
	require.NoError(t, err)

	report, err := e.Analyze(context.Background(), landscape.Request{
		Reference:    ref,
		Windows:      []int{30, landscape.AllTimeDays},
		TrendWindows: []int{30},
		TrendMonths:  3,
	})
	require.NoError(t, err)
	return report
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		want   interface{}
	}{
		{FormatText, &TextFormatter{}},
		{FormatJSON, &JSONFormatter{}},
		{FormatYAML, &YAMLFormatter{}},
		{Format("other"), &TextFormatter{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.IsType(t, tt.want, NewFormatter(tt.format, 5))
		})
	}
}

func TestNewWindowView_TruncatesForDisplayOnly(t *testing.T) {
	report := sampleReport(t)
	w, ok := report.Window(30)
	require.True(t, ok)

	view := NewWindowView(w, 1)
	assert.Len(t, view.TopConnections, 1)
	assert.Len(t, view.TopProjectLinks, 1)
	assert.Len(t, view.MostConnected, 1)
	assert.Len(t, view.Projects, 1)

	// counts and statistics describe the full window
	assert.Equal(t, len(w.ContributorEdges), view.ContributorEdges)
	assert.Equal(t, len(w.ProjectEdges), view.ProjectEdges)
	assert.Equal(t, 4, view.ActiveContributors)
	assert.Equal(t, w.Connections.Mean, view.Statistics.CMean)
	assert.Equal(t, w.Projects.RankIndex, view.Statistics.PIndex)

	full := NewWindowView(w, 0)
	assert.Len(t, full.TopConnections, len(w.ContributorEdges))
	assert.Len(t, full.Projects, len(w.ProjectActivity))
}

func TestNewTrendView(t *testing.T) {
	report := sampleReport(t)
	require.Len(t, report.Trends, 1)

	view := NewTrendView(report.Trends[0])
	assert.Equal(t, "30 days", view.Window)
	assert.Equal(t, []string{"2024-06-01", "2024-05-01", "2024-04-01"}, view.References)
	require.Len(t, view.Series, len(landscape.Statistics))
	for _, s := range view.Series {
		assert.Len(t, s.Values, 3, s.Statistic)
	}
}

func TestTextFormatter_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText, 3).Report(&buf, sampleReport(t)))

	out := buf.String()
	for _, want := range []string{
		"Team landscape as of 2024-06-01",
		"C-MEDIAN",
		"=== 30 days ===",
		"=== all time ===",
		"Strongest connections",
		"Trend for 30 days window (3 months)",
		"now",
		"1 month ago",
		"2 months ago",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTextFormatter_EmptyWindow(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{}
	require.NoError(t, f.windowDetail(&buf, WindowView{Window: "30 days"}))
	assert.Equal(t, "No activity in this window.\n", buf.String())
}

func TestStructuredFormatters_Report(t *testing.T) {
	report := sampleReport(t)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatJSON, 2).Report(&buf, report))

		var view ReportView
		require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
		assert.Equal(t, "2024-06-01", view.Reference)
		require.Len(t, view.Windows, 2)
		assert.LessOrEqual(t, len(view.Windows[0].TopConnections), 2)
		assert.Contains(t, buf.String(), `"c_median"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewFormatter(FormatYAML, 2).Report(&buf, report))

		var view ReportView
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &view))
		require.Len(t, view.Trends, 1)
		assert.Equal(t, 30, view.Trends[0].WindowDays)
	})
}

func TestTextFormatter_Timeline(t *testing.T) {
	slots := []roster.Slot{
		{Key: "2024-05", Contributors: []roster.ContributorID{"a@example.com"}, Rookies: []roster.ContributorID{"a@example.com"}, CommitDays: 4},
		{Key: "2024-06", Contributors: []roster.ContributorID{}, Rookies: []roster.ContributorID{}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText, 0).Timeline(&buf, slots))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "PERIOD")
	assert.Contains(t, lines[1], "a@example.com")
	assert.True(t, strings.HasPrefix(lines[2], "2024-06"))
}

func TestTextFormatter_Runs(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatText, 0)
	require.NoError(t, f.Runs(&buf, nil))
	assert.Equal(t, "No stored runs.\n", buf.String())

	buf.Reset()
	run := &storage.Run{
		ID:          "run-1",
		Reference:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Windows:     storage.IntList{30, 90},
		TrendMonths: 24,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, f.Runs(&buf, []*storage.Run{run}))
	assert.Contains(t, buf.String(), "run-1")
	assert.Contains(t, buf.String(), "30,90")
}

func TestMonthsAgo(t *testing.T) {
	assert.Equal(t, "now", monthsAgo(0))
	assert.Equal(t, "1 month ago", monthsAgo(1))
	assert.Equal(t, "12 months ago", monthsAgo(12))
}

func TestFormatters_ProjectTimeline(t *testing.T) {
	buckets := []roster.BucketCount{{Key: "2024-05", Count: 1}, {Key: "2024-06", Count: 3}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatText, 0).ProjectTimeline(&buf, "a@example.com", buckets))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Projects per period for a@example.com", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "2024-06"))
	assert.True(t, strings.HasSuffix(lines[3], "3"))

	buf.Reset()
	require.NoError(t, NewFormatter(FormatJSON, 0).ProjectTimeline(&buf, "a@example.com", buckets))
	var view ProjectTimelineView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, roster.ContributorID("a@example.com"), view.Contributor)
	assert.Equal(t, buckets, view.Buckets)
}
