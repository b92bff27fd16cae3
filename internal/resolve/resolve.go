// Package resolve supplies symbol resolution for qualifier references.
//
// Resolution is an injected capability: the intention predicates depend
// only on the Resolver interface, so they can be exercised with a
// single-file resolver in tests and with the workspace index in the CLI.
// A name that cannot be resolved is reported as absent, never as an
// error.
package resolve

import (
	"github.com/anthropics/jfix/internal/java"
)

// Resolver resolves a type reference, as written in the given unit, to
// its declaration.
type Resolver interface {
	Resolve(unit *java.Unit, name string) (*java.Class, bool)
}

// UnitResolver resolves references against the type declarations of the
// unit itself.
type UnitResolver struct{}

// Resolve implements Resolver.
func (UnitResolver) Resolve(unit *java.Unit, name string) (*java.Class, bool) {
	if unit == nil || name == "" {
		return nil, false
	}
	return unit.ClassByName(name)
}

// Invalidator is implemented by resolvers that cache parsed files and
// must be told when one changes on disk.
type Invalidator interface {
	Invalidate(file string)
}

// Chain tries each resolver in order and returns the first match.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(unit *java.Unit, name string) (*java.Class, bool) {
	for _, r := range c {
		if cls, ok := r.Resolve(unit, name); ok {
			return cls, true
		}
	}
	return nil, false
}

// Invalidate implements Invalidator, forwarding to every caching
// resolver in the chain.
func (c Chain) Invalidate(file string) {
	for _, r := range c {
		if inv, ok := r.(Invalidator); ok {
			inv.Invalidate(file)
		}
	}
}
