// Package cmd implements the fix command for jfix CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthropics/jfix/internal/output"
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix [target]",
	Short: "Add the builder annotation where it is missing",
	Long: `Fix applies the builder annotation to classes used through a
ClassName.builder() call that do not have one.

The annotation is written to the file declaring the class, which may
not be the file containing the call. When reference shortening is
enabled (the default) the annotation is inserted with its simple name
and a matching import; if the simple name is already taken in the
class's file, the fully qualified form is used instead.

The target can be:
  File.java:12:24       Fix one caret position (1-based line:col)
  path/to/File.java     Fix every call site in one file
  --all                 Fix the whole workspace

A caret that does not name an applicable call site is a no-op, never an
error: the command reports applied=false and touches nothing.

Every applied fix is recorded in the .jfix/history ledger; use
'jfix history' and 'jfix rollback' to review and undo.

Examples:
  jfix fix src/Main.java:12:24    # One caret position
  jfix fix src/Main.java          # Whole file
  jfix fix --all                  # Whole workspace
  jfix fix --all --dry-run        # Preview without writing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

var (
	fixAll    bool
	fixDryRun bool
)

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().BoolVar(&fixAll, "all", false, "Fix every finding in the workspace")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Preview changes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	if !fixAll && len(args) == 0 {
		return fmt.Errorf("a target or --all is required (see 'jfix fix --help')")
	}

	w, err := openWorkspace(!fixDryRun)
	if err != nil {
		return err
	}
	defer w.Close()

	var results []output.FixResult

	switch {
	case fixAll:
		results, err = w.Engine.FixAll(w.Root, fixDryRun)
	default:
		var target caretTarget
		target, err = parseTarget(args[0])
		if err != nil {
			return err
		}
		if target.HasCaret() {
			var res *output.FixResult
			res, err = w.Engine.FixAt(target.Path, target.Line, target.Col, fixDryRun)
			if res != nil {
				results = []output.FixResult{*res}
			}
		} else {
			results, err = w.Engine.FixFile(target.Path, fixDryRun)
		}
	}
	if err != nil {
		return err
	}

	format, err := resolveFormat(w.Root)
	if err != nil {
		return err
	}
	return output.NewFixReport(results).Write(os.Stdout, format)
}
