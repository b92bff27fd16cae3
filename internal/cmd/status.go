// Package cmd implements the status command for jfix CLI.
package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anthropics/jfix/internal/index"
	"github.com/anthropics/jfix/internal/output"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace and index status",
	Long: `Show the current state of the jfix workspace.

Displays:
- Whether the workspace is initialized and where
- Class index statistics (classes, files)
- The active fix configuration (annotation, builder method)

Examples:
  jfix status                # Show status
  jfix status --format json  # JSON output for scripts`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput represents the status output structure
type StatusOutput struct {
	Initialized bool        `json:"initialized" yaml:"initialized"`
	Workspace   string      `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Index       IndexStatus `json:"index" yaml:"index"`
	Fix         FixSettings `json:"fix" yaml:"fix"`
}

// IndexStatus represents class index statistics
type IndexStatus struct {
	Classes int64  `json:"classes" yaml:"classes"`
	Files   int64  `json:"files" yaml:"files"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
}

// FixSettings represents the active fix configuration
type FixSettings struct {
	Annotation        string `json:"annotation" yaml:"annotation"`
	BuilderMethod     string `json:"builder_method" yaml:"builder_method"`
	ShortenReferences bool   `json:"shorten_references" yaml:"shorten_references"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	status := StatusOutput{}

	jfixDir, err := findConfigDir()
	if err == nil {
		status.Initialized = true
		status.Workspace = filepath.Dir(jfixDir)

		idx, err := index.Open(jfixDir)
		if err == nil {
			defer idx.Close()
			status.Index.Path = idx.Path()
			if stats, err := idx.GetStats(); err == nil {
				status.Index.Classes = stats.ClassCount
				status.Index.Files = stats.FileCount
			}
		}
	}

	workDir := status.Workspace
	if workDir == "" {
		workDir = "."
	}
	cfg, err := loadConfig(workDir)
	if err != nil {
		return err
	}
	status.Fix = FixSettings{
		Annotation:        cfg.Fix.Annotation,
		BuilderMethod:     cfg.Fix.BuilderMethod,
		ShortenReferences: cfg.Fix.ShortenEnabled(),
	}

	format, err := resolveFormat(workDir)
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}
	data, err := yaml.Marshal(status)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
