// Package engine runs quick-fix checks and fixes over files and whole
// workspaces. It is the shared core behind the CLI commands and the MCP
// server: both surface the same CheckFile/FixAt operations.
package engine

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthropics/jfix/internal/config"
	"github.com/anthropics/jfix/internal/edit"
	"github.com/anthropics/jfix/internal/history"
	"github.com/anthropics/jfix/internal/index"
	"github.com/anthropics/jfix/internal/intention"
	"github.com/anthropics/jfix/internal/java"
	"github.com/anthropics/jfix/internal/output"
	"github.com/anthropics/jfix/internal/parser"
	"github.com/anthropics/jfix/internal/resolve"
)

// Options configures an Engine.
type Options struct {
	// Config supplies the action configuration. Nil means defaults.
	Config *config.Config
	// Resolver is an optional workspace-wide resolver consulted after
	// the unit's own declarations (typically the index resolver).
	Resolver resolve.Resolver
	// History is an optional ledger; applied fixes are recorded on it.
	History *history.Store
}

// Engine evaluates intention actions over Java files.
type Engine struct {
	cfg      *config.Config
	parser   *parser.Parser
	action   *intention.AddBuilder
	registry *intention.Registry
	resolver resolve.Resolver
	hist     *history.Store
}

// New creates an engine from options.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	p, err := parser.NewParser()
	if err != nil {
		return nil, err
	}

	action := intention.NewAddBuilder()
	action.Annotation = cfg.Fix.Annotation
	action.Method = cfg.Fix.BuilderMethod
	action.ShortenReferences = cfg.Fix.ShortenEnabled()

	registry := intention.NewRegistry()
	registry.Register(action)

	resolver := resolve.Chain{resolve.UnitResolver{}}
	if opts.Resolver != nil {
		resolver = append(resolver, opts.Resolver)
	}

	return &Engine{
		cfg:      cfg,
		parser:   p,
		action:   action,
		registry: registry,
		resolver: resolver,
		hist:     opts.History,
	}, nil
}

// Close releases the engine's parser.
func (e *Engine) Close() {
	if e.parser != nil {
		e.parser.Close()
		e.parser = nil
	}
}

// Registry returns the engine's action registry.
func (e *Engine) Registry() *intention.Registry {
	return e.registry
}

// CheckFile returns every caret position in the file where an action
// applies. Candidate positions are the name tokens of method
// invocations; everything else is structurally unavailable anyway.
func (e *Engine) CheckFile(path string) ([]output.Finding, error) {
	result, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	unit := java.NewUnit(result)
	var findings []output.Finding

	for _, inv := range result.FindNodesByType(parser.NodeMethodInvocation) {
		name := inv.ChildByFieldName("name")
		if name == nil || result.NodeText(name) != e.action.Method {
			continue
		}
		caret := &intention.Caret{Unit: unit, Leaf: name, Resolver: e.resolver}
		for _, action := range e.registry.AvailableAt(caret) {
			findings = append(findings, e.finding(path, caret, action))
		}
	}
	return findings, nil
}

// CheckAt evaluates the actions at one caret position. Returns nil when
// nothing applies there.
func (e *Engine) CheckAt(path string, line, col int) ([]output.Finding, error) {
	result, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	offset, err := result.OffsetOf(line, col)
	if err != nil {
		return nil, err
	}

	caret := intention.At(java.NewUnit(result), offset, e.resolver)
	var findings []output.Finding
	for _, action := range e.registry.AvailableAt(caret) {
		findings = append(findings, e.finding(path, caret, action))
	}
	return findings, nil
}

// FixAt applies the builder fix at one caret position. When the action
// is not available there, the result reports Applied=false and nothing
// is touched. With dryRun the mutated text is returned as a preview and
// the file is left alone.
func (e *Engine) FixAt(path string, line, col int, dryRun bool) (*output.FixResult, error) {
	result, err := e.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	offset, err := result.OffsetOf(line, col)
	if err != nil {
		return nil, err
	}

	caret := intention.At(java.NewUnit(result), offset, e.resolver)
	res := &output.FixResult{
		Finding: output.Finding{
			File:   path,
			Line:   line,
			Col:    col,
			Action: e.action.FamilyName(),
			Text:   e.action.Text(),
		},
		DryRun: dryRun,
	}

	if !e.action.IsAvailable(caret) {
		return res, nil
	}

	cls, _ := e.action.TargetClass(caret)
	res.Class = classFQN(cls)
	res.ClassFile = cls.File()

	// The annotation lands on the file declaring the class, which may
	// not be the file under the caret.
	target := cls.File()
	if target == "" {
		target = path
	}

	tx, err := edit.Begin(target)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := e.action.Invoke(tx, caret); err != nil {
		return nil, fmt.Errorf("invoke %s: %w", e.action.FamilyName(), err)
	}
	if tx.Pending() == 0 {
		return res, nil
	}

	after, err := tx.Preview()
	if err != nil {
		return nil, err
	}
	if dryRun {
		res.Preview = string(after)
		return res, nil
	}

	before := tx.Source()
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	res.Applied = true
	if inv, ok := e.resolver.(resolve.Invalidator); ok {
		inv.Invalidate(target)
	}

	if e.hist != nil {
		_, err := e.hist.Record(&history.Fix{
			File:       target,
			Class:      res.Class,
			Annotation: e.action.Annotation,
			BeforeHash: index.ContentHash(before),
			AfterHash:  index.ContentHash(after),
			BeforeText: string(before),
		})
		if err != nil {
			return nil, fmt.Errorf("record fix: %w", err)
		}
	}
	return res, nil
}

// FixFile applies every available fix in the file. The file is
// re-checked after each apply, so a fix that removes later findings
// (annotating a class referenced twice) never double-applies.
func (e *Engine) FixFile(path string, dryRun bool) ([]output.FixResult, error) {
	findings, err := e.CheckFile(path)
	if err != nil {
		return nil, err
	}

	var results []output.FixResult

	if dryRun {
		for _, f := range findings {
			res, err := e.FixAt(path, f.Line, f.Col, true)
			if err != nil {
				return nil, err
			}
			results = append(results, *res)
		}
		return results, nil
	}

	for len(findings) > 0 {
		f := findings[0]
		res, err := e.FixAt(path, f.Line, f.Col, false)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
		if !res.Applied {
			// The finding evaporated between check and fix; drop it
			// rather than retry forever.
			findings = findings[1:]
			continue
		}
		findings, err = e.CheckFile(path)
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// CheckDir checks every Java file under root, honoring the configured
// exclude patterns.
func (e *Engine) CheckDir(root string) ([]output.Finding, error) {
	var findings []output.Finding
	err := e.walkJava(root, func(path string) error {
		found, err := e.CheckFile(path)
		if err != nil {
			return err
		}
		findings = append(findings, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}

// FixAll applies every available fix under root.
func (e *Engine) FixAll(root string, dryRun bool) ([]output.FixResult, error) {
	var results []output.FixResult
	err := e.walkJava(root, func(path string) error {
		rs, err := e.FixFile(path, dryRun)
		if err != nil {
			return err
		}
		results = append(results, rs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// walkJava visits the workspace's Java files in a stable order.
func (e *Engine) walkJava(root string, visit func(path string) error) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != root && (strings.HasPrefix(d.Name(), ".") || index.ExcludedDir(e.cfg.Scan.Exclude, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" || index.ExcludedFile(e.cfg.Scan.Exclude, rel) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(paths)
	for _, path := range paths {
		if err := visit(path); err != nil {
			return err
		}
	}
	return nil
}

// finding builds the report entry for an available action.
func (e *Engine) finding(path string, caret *intention.Caret, action intention.Action) output.Finding {
	line, col := caret.Unit.Result.LineCol(int(caret.Leaf.StartByte()))
	f := output.Finding{
		File:   path,
		Line:   int(line),
		Col:    int(col),
		Action: action.FamilyName(),
		Text:   action.Text(),
	}
	if ab, ok := action.(*intention.AddBuilder); ok {
		if cls, ok := ab.TargetClass(caret); ok {
			f.Class = classFQN(cls)
			f.ClassFile = cls.File()
		}
	}
	return f
}

// classFQN returns the package-qualified name of a class.
func classFQN(cls *java.Class) string {
	if pkg := cls.Unit().Package; pkg != "" {
		return pkg + "." + cls.Name
	}
	return cls.Name
}
