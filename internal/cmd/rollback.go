// Package cmd implements the rollback command for jfix CLI.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anthropics/jfix/internal/history"
)

// rollbackCmd represents the rollback command
var rollbackCmd = &cobra.Command{
	Use:   "rollback <id>",
	Short: "Undo an applied fix",
	Long: `Restore the pre-fix content of the file a fix was applied to.

Rollback is refused when the file has been edited since the fix was
applied, so unrelated changes are never clobbered. Use 'jfix history'
to find the id of the fix to undo.

Arguments:
  id      The fix id from 'jfix history'

Examples:
  jfix rollback 3            # Undo fix #3 (asks for confirmation)
  jfix rollback 3 --yes      # Skip confirmation prompt`,
	Args: cobra.ExactArgs(1),
	RunE: runRollback,
}

var rollbackYes bool

func init() {
	rootCmd.AddCommand(rollbackCmd)

	rollbackCmd.Flags().BoolVarP(&rollbackYes, "yes", "y", false, "Skip confirmation prompt")
}

func runRollback(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid fix id: %s", args[0])
	}

	jfixDir, err := findConfigDir()
	if err != nil {
		return fmt.Errorf("jfix not initialized: run 'jfix init' first")
	}

	hist, err := history.Open(jfixDir)
	if err != nil {
		return err
	}
	defer hist.Close()

	f, err := hist.Get(id)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("no fix with id %d", id)
	}

	if !rollbackYes {
		fmt.Printf("Undo fix #%d: remove %s from %s (%s)? [y/N] ",
			f.ID, f.Annotation, f.Class, f.File)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if _, err := hist.Restore(id); err != nil {
		return err
	}

	fmt.Printf("Rolled back fix #%d on %s\n", f.ID, f.File)
	fmt.Println("Run 'jfix scan' to refresh the class index.")
	return nil
}
