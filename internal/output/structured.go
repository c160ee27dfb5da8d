package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/teamgraph/internal/landscape"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/storage"
)

// JSONFormatter writes machine-readable, indented JSON
type JSONFormatter struct {
	TopK int
}

func (f *JSONFormatter) encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *JSONFormatter) Report(w io.Writer, r *landscape.Report) error {
	return f.encode(w, NewReportView(r, f.TopK))
}

func (f *JSONFormatter) Trend(w io.Writer, t *landscape.Trend) error {
	return f.encode(w, NewTrendView(t))
}

func (f *JSONFormatter) Timeline(w io.Writer, slots []roster.Slot) error {
	return f.encode(w, slots)
}

func (f *JSONFormatter) ProjectTimeline(w io.Writer, id roster.ContributorID, buckets []roster.BucketCount) error {
	return f.encode(w, ProjectTimelineView{Contributor: id, Buckets: buckets})
}

func (f *JSONFormatter) Runs(w io.Writer, runs []*storage.Run) error {
	return f.encode(w, runs)
}

func (f *JSONFormatter) Snapshots(w io.Writer, records []storage.SnapshotRecord) error {
	return f.encode(w, records)
}

// YAMLFormatter writes YAML
type YAMLFormatter struct {
	TopK int
}

func (f *YAMLFormatter) encode(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (f *YAMLFormatter) Report(w io.Writer, r *landscape.Report) error {
	return f.encode(w, NewReportView(r, f.TopK))
}

func (f *YAMLFormatter) Trend(w io.Writer, t *landscape.Trend) error {
	return f.encode(w, NewTrendView(t))
}

func (f *YAMLFormatter) Timeline(w io.Writer, slots []roster.Slot) error {
	return f.encode(w, slots)
}

func (f *YAMLFormatter) ProjectTimeline(w io.Writer, id roster.ContributorID, buckets []roster.BucketCount) error {
	return f.encode(w, ProjectTimelineView{Contributor: id, Buckets: buckets})
}

func (f *YAMLFormatter) Runs(w io.Writer, runs []*storage.Run) error {
	return f.encode(w, runs)
}

func (f *YAMLFormatter) Snapshots(w io.Writer, records []storage.SnapshotRecord) error {
	return f.encode(w, records)
}
