// Package cmd implements the history command for jfix CLI.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anthropics/jfix/internal/history"
	"github.com/anthropics/jfix/internal/output"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show applied fixes from the ledger",
	Long: `Display the ledger of fixes jfix has applied in this workspace.

Each entry includes:
  - Fix id (pass to 'jfix rollback' to undo)
  - File and class the annotation was added to
  - The annotation written
  - When the fix was applied

Flags:
  --limit N      Number of fixes to show (default: 10, 0 for all)
  --format       Output format: yaml|json (default: yaml)

Examples:
  jfix history                  # Show last 10 fixes
  jfix history --limit 0        # Show everything
  jfix history --format json    # JSON output for parsing`,
	RunE: runHistory,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of fixes to show (0 for all)")
}

// HistoryEntry represents a single fix in the history output
type HistoryEntry struct {
	ID         int64  `yaml:"id" json:"id"`
	File       string `yaml:"file" json:"file"`
	Class      string `yaml:"class" json:"class"`
	Annotation string `yaml:"annotation" json:"annotation"`
	AppliedAt  string `yaml:"applied_at" json:"applied_at"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	jfixDir, err := findConfigDir()
	if err != nil {
		return fmt.Errorf("jfix not initialized: run 'jfix init' first")
	}

	hist, err := history.Open(jfixDir)
	if err != nil {
		return err
	}
	defer hist.Close()

	fixes, err := hist.List(historyLimit)
	if err != nil {
		return err
	}

	entries := make([]HistoryEntry, 0, len(fixes))
	for _, f := range fixes {
		entries = append(entries, HistoryEntry{
			ID:         f.ID,
			File:       f.File,
			Class:      f.Class,
			Annotation: f.Annotation,
			AppliedAt:  f.AppliedAt,
		})
	}

	format, err := resolveFormat(".")
	if err != nil {
		return err
	}
	if format == output.FormatJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
