package resolve

import (
	"strings"

	"github.com/anthropics/jfix/internal/index"
	"github.com/anthropics/jfix/internal/java"
	"github.com/anthropics/jfix/internal/parser"
)

// IndexResolver resolves references through the workspace class index.
// Candidate fully-qualified names are derived from the referencing
// unit's imports (single-type import, same package, wildcard imports,
// default package, in that order); the defining file is parsed on
// demand and cached for the resolver's lifetime.
type IndexResolver struct {
	idx    *index.Index
	parser *parser.Parser
	units  map[string]*java.Unit
}

// NewIndexResolver creates a resolver backed by the given index.
func NewIndexResolver(idx *index.Index) (*IndexResolver, error) {
	p, err := parser.NewParser()
	if err != nil {
		return nil, err
	}
	return &IndexResolver{
		idx:    idx,
		parser: p,
		units:  make(map[string]*java.Unit),
	}, nil
}

// Close releases the resolver's parser and cached parse trees.
func (r *IndexResolver) Close() {
	for _, u := range r.units {
		u.Result.Close()
	}
	r.units = nil
	if r.parser != nil {
		r.parser.Close()
		r.parser = nil
	}
}

// Invalidate drops the cached parse of a file after it changed on disk.
func (r *IndexResolver) Invalidate(file string) {
	if u, ok := r.units[file]; ok {
		u.Result.Close()
		delete(r.units, file)
	}
}

// Resolve implements Resolver.
func (r *IndexResolver) Resolve(unit *java.Unit, name string) (*java.Class, bool) {
	if r.idx == nil || unit == nil || name == "" {
		return nil, false
	}

	for _, fqn := range candidates(unit, name) {
		rec, err := r.idx.LookupFQN(fqn)
		if err != nil || rec == nil {
			continue
		}
		if cls, ok := r.load(rec.File, rec.Name); ok {
			return cls, true
		}
	}
	return nil, false
}

// candidates lists the fully-qualified names the reference could bind to.
func candidates(unit *java.Unit, name string) []string {
	if strings.ContainsRune(name, '.') {
		return []string{name}
	}

	var out []string
	for _, imp := range unit.Imports {
		if imp.Wildcard || imp.Static {
			continue
		}
		if java.SimpleName(imp.Path) == name {
			out = append(out, imp.Path)
		}
	}
	if unit.Package != "" {
		out = append(out, unit.Package+"."+name)
	}
	for _, imp := range unit.Imports {
		if imp.Wildcard && !imp.Static {
			out = append(out, imp.Path+"."+name)
		}
	}
	// Default package fallback.
	out = append(out, name)
	return out
}

// load parses the defining file (or reuses a cached parse) and returns
// the named class.
func (r *IndexResolver) load(file, name string) (*java.Class, bool) {
	u, ok := r.units[file]
	if !ok {
		result, err := r.parser.ParseFile(file)
		if err != nil {
			return nil, false
		}
		u = java.NewUnit(result)
		r.units[file] = u
	}
	return u.ClassByName(name)
}
