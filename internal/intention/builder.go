package intention

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/anthropics/jfix/internal/edit"
	"github.com/anthropics/jfix/internal/java"
	"github.com/anthropics/jfix/internal/parser"
)

// Defaults for the add-builder action.
const (
	DefaultAnnotation    = "lombok.Builder"
	DefaultBuilderMethod = "builder"
)

// AddBuilder offers to annotate a class with lombok.Builder when the
// caret sits on a call to a builder() method the class does not have.
//
// The check is available exactly when the caret is on an identifier
// named "builder" that is the name of a zero-argument qualified call,
// and the qualifier resolves to a class declaration that neither
// declares a builder method nor already carries the annotation.
type AddBuilder struct {
	// Annotation is the fully-qualified annotation to add.
	Annotation string
	// Method is the builder method name looked for at the call site
	// and on the resolved class.
	Method string
	// ShortenReferences controls whether the inserted annotation is
	// written with its simple name plus an import when possible.
	ShortenReferences bool
}

// NewAddBuilder creates the action with its default configuration.
func NewAddBuilder() *AddBuilder {
	return &AddBuilder{
		Annotation:        DefaultAnnotation,
		Method:            DefaultBuilderMethod,
		ShortenReferences: true,
	}
}

// Text returns the label shown when the action is offered.
func (a *AddBuilder) Text() string {
	return "Add lombok builder"
}

// FamilyName returns the stable identifier for this action.
func (a *AddBuilder) FamilyName() string {
	return "AddLombokBuilder"
}

// StartInWriteAction reports that Invoke expects the caller to have
// opened the write transaction on the class's file.
func (a *AddBuilder) StartInWriteAction() bool {
	return true
}

// IsAvailable reports whether the action applies at the caret.
func (a *AddBuilder) IsAvailable(c *Caret) bool {
	cls, ok := a.TargetClass(c)
	if !ok {
		return false
	}
	if cls.HasMethod(a.Method) {
		return false
	}
	if cls.HasAnnotation(a.Annotation) {
		return false
	}
	return true
}

// TargetClass re-derives the class the qualifier under the caret
// resolves to, checking the call-site shape on the way. It is exported
// so callers can open the write transaction on the file declaring the
// class before invoking the action.
//
// Any structural mismatch yields (nil, false): caret off an identifier,
// identifier not named after the builder method, caret on something
// other than the name of a qualified call, a non-empty argument list,
// an unresolvable qualifier, or a qualifier naming a non-class type.
func (a *AddBuilder) TargetClass(c *Caret) (*java.Class, bool) {
	if c == nil || c.Leaf == nil || c.Unit == nil || c.Resolver == nil {
		return nil, false
	}
	if !parser.IsIdentifier(c.Leaf) {
		return nil, false
	}
	if c.Text() != a.Method {
		return nil, false
	}

	// ClassName.builder(...): the identifier must be the name of a
	// method invocation, not its receiver or a bare field access.
	invocation := c.Leaf.Parent()
	if invocation == nil || invocation.Type() != parser.NodeMethodInvocation {
		return nil, false
	}
	name := invocation.ChildByFieldName("name")
	if name == nil || !sameNode(name, c.Leaf) {
		return nil, false
	}

	qualifier := invocation.ChildByFieldName("object")
	if qualifier == nil || !isTypeReference(qualifier) {
		return nil, false
	}

	args := invocation.ChildByFieldName("arguments")
	if args == nil || args.Type() != parser.NodeArgumentList {
		return nil, false
	}
	if args.NamedChildCount() != 0 {
		// builder(...) with arguments is somebody else's builder.
		return nil, false
	}

	cls, ok := c.Resolver.Resolve(c.Unit, c.Unit.Result.NodeText(qualifier))
	if !ok || cls.Kind != java.KindClass {
		return nil, false
	}
	return cls, true
}

// Invoke stages the annotation insertion on the transaction. The
// transaction must be open on the file declaring the target class. If
// the caret no longer matches (the source changed since the check),
// nothing is staged.
func (a *AddBuilder) Invoke(tx *edit.Transaction, c *Caret) error {
	cls, ok := a.TargetClass(c)
	if !ok {
		return nil
	}

	name := a.Annotation
	var imports []edit.TextEdit
	if a.ShortenReferences {
		name, imports = edit.Shorten(cls.Unit(), a.Annotation)
	}

	off := cls.StartOffset()
	tx.Add(edit.TextEdit{Start: off, End: off, NewText: "@" + name + "\n" + cls.Indent()})
	for _, e := range imports {
		tx.Add(e)
	}
	return nil
}

// sameNode compares nodes by source span.
func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// isTypeReference checks whether a qualifier expression is a plain
// (possibly package-qualified) name rather than an arbitrary
// expression.
func isTypeReference(node *sitter.Node) bool {
	switch node.Type() {
	case parser.NodeIdentifier, parser.NodeScopedIdentifier:
		return true
	case parser.NodeFieldAccess:
		obj := node.ChildByFieldName("object")
		field := node.ChildByFieldName("field")
		if obj == nil || field == nil || field.Type() != parser.NodeIdentifier {
			return false
		}
		return isTypeReference(obj)
	default:
		return false
	}
}
