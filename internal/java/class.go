package java

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/anthropics/jfix/internal/parser"
)

// Type declaration kinds.
const (
	KindClass      = "class"
	KindInterface  = "interface"
	KindEnum       = "enum"
	KindRecord     = "record"
	KindAnnotation = "annotation"
)

// Class represents one type declaration inside a compilation unit.
// Despite the name it covers all Java type declaration kinds; the Kind
// field distinguishes them.
type Class struct {
	Name string
	Kind string
	Node *sitter.Node

	methods     []string
	annotations []Annotation
	unit        *Unit
}

// Annotation is one annotation attached to a type declaration, recorded
// with the name exactly as written in source (without the leading '@').
type Annotation struct {
	Name string
	Node *sitter.Node
}

// newClass builds a Class view from a type declaration node.
func newClass(u *Unit, node *sitter.Node) *Class {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &Class{
		Name: u.Result.NodeText(nameNode),
		Kind: parser.TypeDeclarationKind(node),
		Node: node,
		unit: u,
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint32(0); i < body.ChildCount(); i++ {
			child := body.Child(int(i))
			if child.Type() != parser.NodeMethodDeclaration {
				continue
			}
			if mName := child.ChildByFieldName("name"); mName != nil {
				cls.methods = append(cls.methods, u.Result.NodeText(mName))
			}
		}
	}

	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() != parser.NodeModifiers {
			continue
		}
		for j := uint32(0); j < child.ChildCount(); j++ {
			mod := child.Child(int(j))
			if mod.Type() != parser.NodeMarkerAnnotation && mod.Type() != parser.NodeAnnotation {
				continue
			}
			if aName := mod.ChildByFieldName("name"); aName != nil {
				cls.annotations = append(cls.annotations, Annotation{
					Name: u.Result.NodeText(aName),
					Node: mod,
				})
			}
		}
	}

	return cls
}

// Unit returns the compilation unit declaring this class.
func (c *Class) Unit() *Unit {
	return c.unit
}

// File returns the path of the file declaring this class.
// Empty for classes parsed from in-memory source.
func (c *Class) File() string {
	return c.unit.Result.FilePath
}

// Line returns the 1-based line of the class declaration.
func (c *Class) Line() uint32 {
	return c.Node.StartPoint().Row + 1
}

// StartOffset returns the byte offset where the declaration begins,
// including its modifiers and annotations.
func (c *Class) StartOffset() int {
	return int(c.Node.StartByte())
}

// Indent returns the whitespace prefix of the line the declaration
// starts on. Used to keep an inserted annotation aligned with the
// declaration below it.
func (c *Class) Indent() string {
	src := c.unit.Result.Source
	start := c.StartOffset()
	lineStart := start
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	for i := lineStart; i < start; i++ {
		if src[i] != ' ' && src[i] != '\t' {
			// Something other than indentation precedes the declaration
			// on this line; align with nothing rather than mid-line text.
			return ""
		}
	}
	return string(src[lineStart:start])
}

// MethodNames returns the names of methods declared directly on the type.
func (c *Class) MethodNames() []string {
	return c.methods
}

// HasMethod reports whether the type declares at least one method with
// the given name. This is an existence check only; arity and visibility
// are not considered.
func (c *Class) HasMethod(name string) bool {
	for _, m := range c.methods {
		if m == name {
			return true
		}
	}
	return false
}

// AnnotationNames returns the annotation names as written in source.
func (c *Class) AnnotationNames() []string {
	names := make([]string, 0, len(c.annotations))
	for _, a := range c.annotations {
		names = append(names, a.Name)
	}
	return names
}

// HasAnnotation reports whether the type carries an annotation that
// resolves to the given fully-qualified name. An annotation matches when
// it is written fully qualified, or written with the simple name while
// the unit imports the FQN directly or wildcard-imports its package.
func (c *Class) HasAnnotation(fqn string) bool {
	simple := SimpleName(fqn)
	for _, a := range c.annotations {
		if a.Name == fqn {
			return true
		}
		if a.Name != simple || simple == fqn {
			continue
		}
		if c.unit.HasSingleImport(fqn) || c.unit.WildcardCovers(fqn) {
			return true
		}
	}
	return false
}
