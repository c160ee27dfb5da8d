package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/teamgraph/internal/errors"
	"github.com/rohankatakam/teamgraph/internal/temporal"
)

// Format is the on-disk encoding of a roster file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from the file extension (JSON by default)
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// File is the serialized form of a roster as written by the extractors
type File struct {
	LatestCommitDate string            `json:"latest_commit_date,omitempty" yaml:"latest_commit_date,omitempty"`
	Contributors     []FileContributor `json:"contributors" yaml:"contributors"`
}

// FileContributor is one contributor entry in a roster file
type FileContributor struct {
	Email       string        `json:"email" yaml:"email"`
	CommitDates []string      `json:"commit_dates,omitempty" yaml:"commit_dates,omitempty"`
	Projects    []FileProject `json:"projects" yaml:"projects"`
}

// FileProject is the per-project activity of a contributor in a roster file
type FileProject struct {
	Name        string   `json:"name" yaml:"name"`
	CommitDates []string `json:"commit_dates" yaml:"commit_dates"`
}

// Load reads a roster from a JSON or YAML file
func Load(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFileSystem, errors.SeverityHigh, "open roster").
			WithContext("path", path)
	}
	defer f.Close()

	return Decode(f, FormatFromPath(path))
}

// Decode reads a roster in the given format. Unparseable dates are rejected
// here so the analytics engine only ever sees valid calendar days.
func Decode(r io.Reader, format Format) (*Roster, error) {
	var file File
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&file)
	default:
		err = json.NewDecoder(r).Decode(&file)
	}
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.SeverityHigh, "decode roster").
			WithContext("format", string(format))
	}
	return FromFile(&file)
}

// FromFile converts the serialized form into a Roster
func FromFile(file *File) (*Roster, error) {
	b := NewBuilder()
	for i, fc := range file.Contributors {
		if strings.TrimSpace(fc.Email) == "" {
			return nil, errors.Validationf("contributor #%d has no identity", i+1)
		}
		for _, s := range fc.CommitDates {
			d, err := temporal.ParseDay(s)
			if err != nil {
				return nil, invalidDate(err, fc.Email, "")
			}
			b.AddCommitDay(fc.Email, d)
		}
		for _, fp := range fc.Projects {
			if strings.TrimSpace(fp.Name) == "" {
				return nil, errors.Validationf("contributor %s has a project without a name", fc.Email)
			}
			for _, s := range fp.CommitDates {
				d, err := temporal.ParseDay(s)
				if err != nil {
					return nil, invalidDate(err, fc.Email, fp.Name)
				}
				b.Add(fc.Email, fp.Name, d)
			}
		}
	}
	return b.Build(), nil
}

func invalidDate(err error, email, project string) error {
	e := errors.Wrap(err, errors.ErrorTypeValidation, errors.SeverityHigh, "invalid commit date").
		WithContext("contributor", email)
	if project != "" {
		e.WithContext("project", project)
	}
	return e
}

// ToFile converts a roster into its serialized form
func ToFile(r *Roster) *File {
	file := &File{Contributors: make([]FileContributor, 0, r.Len())}
	if !r.LatestCommitDate().IsZero() {
		file.LatestCommitDate = temporal.FormatDay(r.LatestCommitDate())
	}
	for _, c := range r.Contributors() {
		fc := FileContributor{Email: string(c.ID), Projects: make([]FileProject, 0, len(c.Projects))}
		inProject := make(map[string]struct{})
		for _, p := range c.Projects {
			for _, d := range p.CommitDates {
				inProject[temporal.FormatDay(d)] = struct{}{}
			}
		}
		for _, d := range c.CommitDates {
			if _, ok := inProject[temporal.FormatDay(d)]; !ok {
				fc.CommitDates = append(fc.CommitDates, temporal.FormatDay(d))
			}
		}
		for _, p := range c.Projects {
			fp := FileProject{Name: string(p.Project), CommitDates: make([]string, 0, len(p.CommitDates))}
			for _, d := range p.CommitDates {
				fp.CommitDates = append(fp.CommitDates, temporal.FormatDay(d))
			}
			fc.Projects = append(fc.Projects, fp)
		}
		file.Contributors = append(file.Contributors, fc)
	}
	return file
}

// Encode writes a roster in the given format
func Encode(w io.Writer, r *Roster, format Format) error {
	file := ToFile(r)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return fmt.Errorf("encode roster yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(file); err != nil {
			return fmt.Errorf("encode roster json: %w", err)
		}
		return nil
	}
}

// Save writes a roster to path, choosing the format from the extension
func Save(path string, r *Roster) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFileSystem, errors.SeverityHigh, "create roster directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFileSystem, errors.SeverityHigh, "create roster file").
			WithContext("path", path)
	}
	if err := Encode(f, r, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
