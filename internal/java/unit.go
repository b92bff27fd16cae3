// Package java provides borrowed views over a parsed Java compilation
// unit: the package declaration, imports, and type declarations.
//
// The views are transient. They hold references into a ParseResult and
// are recomputed whenever a file is re-parsed; nothing here owns state
// beyond the parse tree it was built from.
package java

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/anthropics/jfix/internal/parser"
)

// Unit represents one Java compilation unit (a single source file).
type Unit struct {
	Result  *parser.ParseResult
	Package string
	Imports []Import
	Classes []*Class

	packageNode *sitter.Node
}

// Import represents one import declaration.
type Import struct {
	// Path is the imported name: a type FQN for single-type imports,
	// or a package name for wildcard imports.
	Path     string
	Wildcard bool
	Static   bool
	Node     *sitter.Node
}

// NewUnit builds a compilation unit view from a parse result.
func NewUnit(result *parser.ParseResult) *Unit {
	u := &Unit{Result: result}

	if pkgNodes := result.FindNodesByType(parser.NodePackageDeclaration); len(pkgNodes) > 0 {
		u.packageNode = pkgNodes[0]
		u.Package = packageName(result, pkgNodes[0])
	}

	for _, node := range result.FindNodesByType(parser.NodeImportDeclaration) {
		if imp, ok := extractImport(result, node); ok {
			u.Imports = append(u.Imports, imp)
		}
	}

	for _, node := range result.FindNodes(parser.IsTypeDeclaration) {
		if cls := newClass(u, node); cls != nil {
			u.Classes = append(u.Classes, cls)
		}
	}

	return u
}

// packageName extracts the declared package name from a package_declaration.
func packageName(result *parser.ParseResult, node *sitter.Node) string {
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case parser.NodeScopedIdentifier, parser.NodeIdentifier:
			return result.NodeText(child)
		}
	}
	return ""
}

// extractImport builds an Import from an import_declaration node.
func extractImport(result *parser.ParseResult, node *sitter.Node) (Import, bool) {
	imp := Import{Node: node}
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		switch child.Type() {
		case parser.NodeStatic:
			imp.Static = true
		case parser.NodeScopedIdentifier, parser.NodeIdentifier:
			imp.Path = result.NodeText(child)
		case parser.NodeAsterisk:
			imp.Wildcard = true
		}
	}
	if imp.Path == "" {
		return Import{}, false
	}
	return imp, true
}

// ClassByName returns the type declaration with the given simple name.
func (u *Unit) ClassByName(name string) (*Class, bool) {
	for _, cls := range u.Classes {
		if cls.Name == name {
			return cls, true
		}
	}
	return nil, false
}

// HasSingleImport reports whether the unit imports the exact type FQN.
func (u *Unit) HasSingleImport(fqn string) bool {
	for _, imp := range u.Imports {
		if !imp.Wildcard && !imp.Static && imp.Path == fqn {
			return true
		}
	}
	return false
}

// WildcardCovers reports whether a wildcard import brings the FQN's
// package into scope.
func (u *Unit) WildcardCovers(fqn string) bool {
	pkg := packageOf(fqn)
	if pkg == "" {
		return false
	}
	for _, imp := range u.Imports {
		if imp.Wildcard && !imp.Static && imp.Path == pkg {
			return true
		}
	}
	return false
}

// SimpleNameTaken reports whether the FQN's simple name already refers
// to a different type in this unit: a conflicting single-type import or
// a type declared in the file itself.
func (u *Unit) SimpleNameTaken(fqn string) bool {
	simple := SimpleName(fqn)
	for _, imp := range u.Imports {
		if imp.Wildcard || imp.Static {
			continue
		}
		if SimpleName(imp.Path) == simple && imp.Path != fqn {
			return true
		}
	}
	for _, cls := range u.Classes {
		if cls.Name == simple {
			return true
		}
	}
	return false
}

// LastImportEnd returns the byte offset just past the last import
// declaration, or -1 when the unit has no imports.
func (u *Unit) LastImportEnd() int {
	if len(u.Imports) == 0 {
		return -1
	}
	last := u.Imports[len(u.Imports)-1]
	return int(last.Node.EndByte())
}

// PackageEnd returns the byte offset just past the package declaration,
// or -1 when the unit has no package declaration.
func (u *Unit) PackageEnd() int {
	if u.packageNode == nil {
		return -1
	}
	return int(u.packageNode.EndByte())
}

// SimpleName returns the last segment of a dotted name.
func SimpleName(fqn string) string {
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[idx+1:]
	}
	return fqn
}

// packageOf returns everything before the last segment of a dotted name.
func packageOf(fqn string) string {
	if idx := strings.LastIndexByte(fqn, '.'); idx >= 0 {
		return fqn[:idx]
	}
	return ""
}
