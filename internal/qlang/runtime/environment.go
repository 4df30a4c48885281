package runtime

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrAlreadyDeclared = errors.New("déjà déclarée")
	ErrNotDeclared     = errors.New("non déclarée")
)

// Environment is one scope of the scope chain. Children hold their parent
// by pointer, so a closure keeps its whole defining chain alive.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Child opens a new scope nested in e.
func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}

// Declare binds name in this scope. Redeclaring a name of this scope
// fails; shadowing one of a parent scope does not.
func (e *Environment) Declare(name string, value Value) error {
	if _, ok := e.values[name]; ok {
		return fmt.Errorf("Variable '%s' %w", name, ErrAlreadyDeclared)
	}
	e.values[name] = value
	return nil
}

// Assign updates name in the nearest scope that declared it.
func (e *Environment) Assign(name string, value Value) error {
	scope, ok := e.Resolve(name)
	if !ok {
		return fmt.Errorf("Variable '%s' %w", name, ErrNotDeclared)
	}
	scope.values[name] = value
	return nil
}

// Lookup retrieves a binding, searching outward through the scope chain.
func (e *Environment) Lookup(name string) (Value, error) {
	scope, ok := e.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("Variable '%s' %w", name, ErrNotDeclared)
	}
	return scope.values[name], nil
}

// Resolve returns the nearest scope declaring name.
func (e *Environment) Resolve(name string) (*Environment, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.values[name]; ok {
			return scope, true
		}
	}
	return nil, false
}

// Names returns the bindings of this scope in sorted order.
func (e *Environment) Names() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
