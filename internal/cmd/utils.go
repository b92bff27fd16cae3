package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthropics/jfix/internal/config"
	"github.com/anthropics/jfix/internal/engine"
	"github.com/anthropics/jfix/internal/history"
	"github.com/anthropics/jfix/internal/index"
	"github.com/anthropics/jfix/internal/output"
	"github.com/anthropics/jfix/internal/resolve"
)

// Shared utility functions for command implementations

// caretTarget is a parsed command-line target: either a bare path or a
// caret position in the editor's file:line:col form.
type caretTarget struct {
	Path string
	Line int
	Col  int
}

// HasCaret reports whether the target names a caret position rather
// than a whole file or directory.
func (t caretTarget) HasCaret() bool {
	return t.Line > 0
}

// parseTarget parses "path", "path:line" or "path:line:col". Line and
// column are 1-based; a missing column defaults to 1.
func parseTarget(s string) (caretTarget, error) {
	parts := strings.Split(s, ":")

	// Trailing numeric segments are the caret position; everything in
	// front is the path (which may itself contain no colons on the
	// platforms we support).
	if len(parts) >= 3 {
		line, lineErr := strconv.Atoi(parts[len(parts)-2])
		col, colErr := strconv.Atoi(parts[len(parts)-1])
		if lineErr == nil && colErr == nil {
			if line < 1 || col < 1 {
				return caretTarget{}, fmt.Errorf("invalid caret position in %q: line and column are 1-based", s)
			}
			return caretTarget{
				Path: strings.Join(parts[:len(parts)-2], ":"),
				Line: line,
				Col:  col,
			}, nil
		}
	}
	if len(parts) >= 2 {
		if line, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if line < 1 {
				return caretTarget{}, fmt.Errorf("invalid caret position in %q: line is 1-based", s)
			}
			return caretTarget{
				Path: strings.Join(parts[:len(parts)-1], ":"),
				Line: line,
				Col:  1,
			}, nil
		}
	}
	if s == "" {
		return caretTarget{}, fmt.Errorf("empty target")
	}
	return caretTarget{Path: s}, nil
}

// workspace bundles the opened engine with the resources behind it.
type workspace struct {
	Engine *engine.Engine
	Root   string

	idx      *index.Index
	resolver *resolve.IndexResolver
	hist     *history.Store
}

// Close releases everything the workspace opened.
func (w *workspace) Close() {
	if w.Engine != nil {
		w.Engine.Close()
	}
	if w.resolver != nil {
		w.resolver.Close()
	}
	if w.hist != nil {
		w.hist.Close()
	}
	if w.idx != nil {
		w.idx.Close()
	}
}

// openWorkspace builds an engine rooted at the nearest .jfix directory.
// Without an initialized workspace the engine still works on single
// files, resolving only within each file; withHistory additionally opens
// the fix ledger so applied fixes are recorded.
func openWorkspace(withHistory bool) (*workspace, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	w := &workspace{Root: cwd}

	jfixDir, err := findConfigDir()
	if err != nil {
		// Not initialized; run with in-file resolution only.
		eng, err := engine.New(engine.Options{})
		if err != nil {
			return nil, err
		}
		w.Engine = eng
		return w, nil
	}
	w.Root = filepath.Dir(jfixDir)

	cfg, err := loadConfig(w.Root)
	if err != nil {
		return nil, err
	}

	idx, err := index.Open(jfixDir)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	w.idx = idx

	resolver, err := resolve.NewIndexResolver(idx)
	if err != nil {
		w.Close()
		return nil, err
	}
	w.resolver = resolver

	if withHistory {
		hist, err := history.Open(jfixDir)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		w.hist = hist
	}

	eng, err := engine.New(engine.Options{
		Config:   cfg,
		Resolver: resolver,
		History:  w.hist,
	})
	if err != nil {
		w.Close()
		return nil, err
	}
	w.Engine = eng
	return w, nil
}

// findConfigDir locates .jfix, honoring the --config override.
func findConfigDir() (string, error) {
	if configPath != "" {
		return filepath.Dir(configPath), nil
	}
	return config.FindConfigDir(".")
}

// loadConfig loads configuration, honoring the --config override.
func loadConfig(workDir string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load(workDir)
}

// resolveFormat picks the output format from the --format flag, falling
// back to the configured default.
func resolveFormat(workDir string) (output.Format, error) {
	if outputFormat != "" {
		return output.ParseFormat(outputFormat)
	}
	cfg, err := loadConfig(workDir)
	if err != nil {
		return "", err
	}
	return output.ParseFormat(cfg.Output.DefaultFormat)
}
