package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Finding is one location where a quick-fix action applies.
type Finding struct {
	File      string `yaml:"file" json:"file"`
	Line      int    `yaml:"line" json:"line"`
	Col       int    `yaml:"col" json:"col"`
	Action    string `yaml:"action" json:"action"`
	Text      string `yaml:"text" json:"text"`
	Class     string `yaml:"class" json:"class"`
	ClassFile string `yaml:"class_file,omitempty" json:"class_file,omitempty"`
}

// Report is the check command's result set.
type Report struct {
	Findings []Finding `yaml:"findings" json:"findings"`
	Total    int       `yaml:"total" json:"total"`
}

// NewReport builds a report from findings.
func NewReport(findings []Finding) *Report {
	return &Report{Findings: findings, Total: len(findings)}
}

// Write renders the report in the given format.
func (r *Report) Write(w io.Writer, format Format) error {
	return marshal(w, format, r)
}

// FixResult records the outcome of applying one fix.
type FixResult struct {
	Finding `yaml:",inline" json:",inline"`
	Applied bool   `yaml:"applied" json:"applied"`
	DryRun  bool   `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	Preview string `yaml:"preview,omitempty" json:"preview,omitempty"`
}

// FixReport is the fix command's result set.
type FixReport struct {
	Results []FixResult `yaml:"results" json:"results"`
	Applied int         `yaml:"applied" json:"applied"`
}

// NewFixReport builds a fix report from results.
func NewFixReport(results []FixResult) *FixReport {
	report := &FixReport{Results: results}
	for _, r := range results {
		if r.Applied {
			report.Applied++
		}
	}
	return report
}

// Write renders the fix report in the given format.
func (r *FixReport) Write(w io.Writer, format Format) error {
	return marshal(w, format, r)
}

func marshal(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML, "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("invalid format: %q", format)
	}
}
