// Package cmd implements the scan command for jfix CLI.
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anthropics/jfix/internal/config"
	"github.com/anthropics/jfix/internal/index"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan the workspace and build the class index",
	Long: `Scan traverses the specified directory (or the workspace root if none
given), parses every Java file and indexes its type declarations.

The scan process:
  1. Discovers all .java files, honoring the configured exclude patterns
  2. Skips files whose content is unchanged since the last scan
  3. Parses changed files and records classes, methods and annotations
  4. Updates the .jfix/index.db class index

The index is what lets a check at one call site find the class's
defining file anywhere in the workspace.

Examples:
  jfix scan                       # Scan the workspace
  jfix scan ./src                 # Scan a subdirectory
  jfix scan --exclude 'gen/**'    # Additional exclude patterns
  jfix scan --force               # Rescan even unchanged files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

var (
	scanExclude []string
	scanForce   bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Exclude patterns (comma-separated globs)")
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "Rescan even if file unchanged")
}

// runScan implements the scan command logic
func runScan(cmd *cobra.Command, args []string) error {
	jfixDir, err := findConfigDir()
	if err != nil {
		return fmt.Errorf("jfix not initialized: run 'jfix init' first")
	}
	root := filepath.Dir(jfixDir)
	if len(args) > 0 {
		root, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
	}

	cfg, err := loadConfig(root)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Merge exclude patterns (CLI flags take precedence)
	excludes := cfg.Scan.Exclude
	if len(scanExclude) > 0 {
		excludes = append(excludes, scanExclude...)
	}

	idx, err := index.Open(jfixDir)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer idx.Close()

	if scanForce {
		if err := idx.Clear(); err != nil {
			return err
		}
	}

	stats, err := index.NewScanner(idx, excludes).Scan(root)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d files (%d unchanged, %d failed), indexed %d classes\n",
		stats.FilesScanned, stats.FilesSkipped, stats.FilesFailed, stats.Classes)
	if stats.FilesPruned > 0 {
		fmt.Printf("Removed %d deleted file(s) from the index\n", stats.FilesPruned)
	}

	if verbose {
		total, err := idx.GetStats()
		if err == nil {
			fmt.Printf("Index now holds %d classes across %d files\n", total.ClassCount, total.FileCount)
		}
	}
	return nil
}
