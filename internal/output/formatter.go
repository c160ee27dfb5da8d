package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rohankatakam/teamgraph/internal/landscape"
	"github.com/rohankatakam/teamgraph/internal/roster"
	"github.com/rohankatakam/teamgraph/internal/storage"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json and yaml (yml)
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Formatter defines output formatting interface
type Formatter interface {
	Report(w io.Writer, r *landscape.Report) error
	Trend(w io.Writer, t *landscape.Trend) error
	Timeline(w io.Writer, slots []roster.Slot) error
	ProjectTimeline(w io.Writer, id roster.ContributorID, buckets []roster.BucketCount) error
	Runs(w io.Writer, runs []*storage.Run) error
	Snapshots(w io.Writer, records []storage.SnapshotRecord) error
}

// NewFormatter creates the formatter for a format. topK limits displayed
// edges and rankings; it never affects computed values.
func NewFormatter(format Format, topK int) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{TopK: topK}
	case FormatYAML:
		return &YAMLFormatter{TopK: topK}
	default:
		return &TextFormatter{TopK: topK}
	}
}
