package intention

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/anthropics/jfix/internal/java"
	"github.com/anthropics/jfix/internal/resolve"
)

// Caret is the evaluation context for an action: the compilation unit,
// the leaf token under the cursor, and the resolver in effect. A caret
// that falls on no leaf is still a valid caret; every action treats it
// as inapplicable.
type Caret struct {
	Unit     *java.Unit
	Leaf     *sitter.Node
	Resolver resolve.Resolver
}

// At builds a caret for a byte offset into the unit's source.
func At(unit *java.Unit, offset int, r resolve.Resolver) *Caret {
	return &Caret{
		Unit:     unit,
		Leaf:     unit.Result.LeafAt(offset),
		Resolver: r,
	}
}

// Text returns the source text of the leaf under the caret.
func (c *Caret) Text() string {
	if c == nil || c.Leaf == nil {
		return ""
	}
	return c.Unit.Result.NodeText(c.Leaf)
}
