// Package intention implements caret-position quick-fix actions over
// parsed Java source.
//
// An action is a pure predicate plus a mutator: IsAvailable inspects
// the syntax-tree neighborhood of a caret without touching anything,
// and Invoke stages edits on a write transaction the caller opened.
// Every structural mismatch during the check resolves to "not
// available"; actions never panic or error on unexpected tree shapes.
package intention

import "github.com/anthropics/jfix/internal/edit"

// Action is one quick-fix offered at a caret position.
type Action interface {
	// Text returns the label shown when the action is offered.
	Text() string

	// FamilyName returns the stable identifier used to group and
	// externalize this action.
	FamilyName() string

	// IsAvailable reports whether the action applies at the caret.
	// It must be fast and side-effect free.
	IsAvailable(c *Caret) bool

	// Invoke stages the action's edits on the transaction. It is
	// called only after IsAvailable returned true for the same caret;
	// if the source changed in between, it degrades to a no-op.
	Invoke(tx *edit.Transaction, c *Caret) error

	// StartInWriteAction reports whether Invoke expects the caller to
	// have opened the write transaction. All current actions return
	// true; the caller owns commit and rollback.
	StartInWriteAction() bool
}

// Registry holds the available actions in registration order.
type Registry struct {
	actions []Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an action to the registry.
func (r *Registry) Register(a Action) {
	r.actions = append(r.actions, a)
}

// All returns the registered actions.
func (r *Registry) All() []Action {
	return r.actions
}

// ByFamily returns the action with the given family name.
func (r *Registry) ByFamily(name string) (Action, bool) {
	for _, a := range r.actions {
		if a.FamilyName() == name {
			return a, true
		}
	}
	return nil, false
}

// AvailableAt returns all actions applicable at the caret.
func (r *Registry) AvailableAt(c *Caret) []Action {
	var out []Action
	for _, a := range r.actions {
		if a.IsAvailable(c) {
			out = append(out, a)
		}
	}
	return out
}
