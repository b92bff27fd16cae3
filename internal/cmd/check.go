// Package cmd implements the check command for jfix CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthropics/jfix/internal/output"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [target]",
	Short: "Find call sites where the builder annotation is missing",
	Long: `Check reports every place a class is used through a ClassName.builder()
call without the class having a builder method or the builder annotation.

The target can be:
  (nothing)             Check the whole workspace
  path/to/File.java     Check one file
  path/to/dir           Check a directory tree
  File.java:12:24       Check one caret position (1-based line:col)

A caret check answers exactly the question an editor asks: "does the
quick-fix apply right here?" A position that does not match — caret off
the builder identifier, a call with arguments, an already annotated
class — is simply not a finding, never an error.

Examples:
  jfix check                        # Whole workspace
  jfix check src/main/java          # One tree
  jfix check src/Main.java          # One file
  jfix check src/Main.java:12:24    # One caret position
  jfix check --format json          # Machine-readable output`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var checkFailOnFindings bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkFailOnFindings, "fail", false, "Exit non-zero when findings exist (for CI)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(false)
	if err != nil {
		return err
	}
	defer w.Close()

	var findings []output.Finding

	if len(args) == 0 {
		findings, err = w.Engine.CheckDir(w.Root)
	} else {
		var target caretTarget
		target, err = parseTarget(args[0])
		if err != nil {
			return err
		}
		switch {
		case target.HasCaret():
			findings, err = w.Engine.CheckAt(target.Path, target.Line, target.Col)
		case isDir(target.Path):
			findings, err = w.Engine.CheckDir(target.Path)
		default:
			findings, err = w.Engine.CheckFile(target.Path)
		}
	}
	if err != nil {
		return err
	}

	format, err := resolveFormat(w.Root)
	if err != nil {
		return err
	}
	if err := output.NewReport(findings).Write(os.Stdout, format); err != nil {
		return err
	}

	if checkFailOnFindings && len(findings) > 0 {
		return fmt.Errorf("%d finding(s)", len(findings))
	}
	return nil
}

// isDir reports whether the path names an existing directory.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
