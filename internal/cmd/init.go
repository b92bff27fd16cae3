// Package cmd implements the init command for jfix CLI.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anthropics/jfix/internal/config"
	"github.com/anthropics/jfix/internal/index"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .jfix directory, config and index",
	Long: `Initialize the .jfix directory in the current directory.

This creates the configuration file and the empty class index that the
check and fix commands work against. Run 'jfix scan' afterwards to
populate the index.

Examples:
  jfix init          # Initialize in current directory
  jfix init --force  # Reinitialize (clears the existing index)`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if .jfix already exists")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	jfixDir := filepath.Join(cwd, config.ConfigDirName)
	relPath, _ := filepath.Rel(cwd, jfixDir)

	// Check if already initialized
	if _, err := os.Stat(jfixDir); err == nil && !initForce {
		fmt.Printf("Already initialized at %s\n", relPath)
		return nil
	}

	// Write the default config unless one exists already
	if _, err := config.SaveDefault(cwd); err != nil {
		if !initForce {
			return err
		}
	}

	// Create the index database
	idx, err := index.Open(jfixDir)
	if err != nil {
		return fmt.Errorf("initializing index: %w", err)
	}
	defer idx.Close()

	if initForce {
		if err := idx.Clear(); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized jfix workspace at %s\n", relPath)
	fmt.Println("Run 'jfix scan' to build the class index.")
	return nil
}
