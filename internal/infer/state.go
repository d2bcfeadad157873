// Package infer implements the elaborator: Hindley-Milner type inference
// extended with row-polymorphic records, higher-kinded constructors, and
// type reification (spec.md §4.5). Grounded on original_source/type.cpp's
// infer_visitor and type::state, restructured into funxy's
// internal/evaluator-style one-function-per-node-kind dispatch.
package infer

import (
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
)

// VarEnv is the parent-chained name → polytype scope (spec.md §3.6's
// vars). Grounded on original_source/environment.hpp's layered lookup,
// keyed here by plain strings rather than interned symbols since AST
// nodes already carry resolved Go strings.
type VarEnv struct {
	parent *VarEnv
	locals map[string]types.Poly
}

// NewVarEnv creates a root variable environment.
func NewVarEnv() *VarEnv {
	return &VarEnv{locals: map[string]types.Poly{}}
}

// Child opens a nested scope backed by e.
func (e *VarEnv) Child() *VarEnv {
	return &VarEnv{parent: e, locals: map[string]types.Poly{}}
}

// Find looks up name, walking up the parent chain.
func (e *VarEnv) Find(name string) (types.Poly, bool) {
	if p, ok := e.locals[name]; ok {
		return p, true
	}
	if e.parent != nil {
		return e.parent.Find(name)
	}
	return types.Poly{}, false
}

// Define binds name to p in this scope. Fails if name is already bound
// in this exact scope (redefinition within one binding group).
func (e *VarEnv) Define(name string, p types.Poly) error {
	if _, ok := e.locals[name]; ok {
		return diagnostics.New(diagnostics.ErrRedefined, "%q redefined in the same scope", name)
	}
	e.locals[name] = p
	return nil
}

// Locals returns a shallow copy of the names bound directly in this scope
// (not its ancestors) — used by internal/session to build a package's
// export signature (original_source/package.cpp's package::sig, which
// walks ts->locals the same way).
func (e *VarEnv) Locals() map[string]types.Poly {
	out := make(map[string]types.Poly, len(e.locals))
	for name, p := range e.locals {
		out[name] = p
	}
	return out
}

// Importer resolves a package name to the polytype of its exported
// bindings (a record-of-locals signature, spec.md §4.5's `import` rule).
// internal/session implements this against internal/modcache.
type Importer interface {
	Import(name string) (types.Poly, error)
}

// State is the inference context threaded through Infer: current
// generalization level, variable scope, nominal-type signature table, and
// substitution (spec.md §3.6). Grounded on original_source/type.hpp's
// type::state.
type State struct {
	Level    int
	Vars     *VarEnv
	Sigs     *types.Signatures
	Sub      *types.Subst
	Importer Importer
}

// NewState creates a root inference state at level 0.
func NewState() *State {
	return &State{
		Level: 0,
		Vars:  NewVarEnv(),
		Sigs:  types.NewSignatures(),
		Sub:   types.NewSubst(),
	}
}

// Scope opens a child state at level+1 with a fresh variable scope, a
// nested signature scope, and the SAME substitution (substitution is
// shared across all nesting levels; only the application-retry logic in
// apply.go scopes a child substitution for speculative rollback).
func (s *State) Scope() *State {
	return &State{
		Level:    s.Level + 1,
		Vars:     s.Vars.Child(),
		Sigs:     s.Sigs.Child(),
		Sub:      s.Sub,
		Importer: s.Importer,
	}
}

// Fresh allocates a type variable at this state's level.
func (s *State) Fresh(k kind.Kind) *types.Var {
	return types.NewVar(s.Level, k)
}

// Substitute fully resolves t through this state's substitution.
func (s *State) Substitute(t types.Mono) types.Mono {
	return types.Substitute(s.Sub, t)
}

// Generalize closes t over every variable born at this state's level or
// deeper.
func (s *State) Generalize(t types.Mono) types.Poly {
	return types.Generalize(s.Sub, s.Level, t)
}

// Instantiate opens a polytype at this state's level.
func (s *State) Instantiate(p types.Poly) types.Mono {
	return types.Instantiate(s.Level, p)
}

// Unify unifies a and b in place against this state's substitution, at
// this state's level (governing fresh row-variable allocation during row
// rewriting).
func (s *State) Unify(a, b types.Mono) error {
	return types.NewUnifier(s.Sub, s.Level).Unify(a, b)
}

// Def generalizes t at this state's level and binds name to the result —
// the variable-definition half of a let/def (spec.md §3.6's state::def).
func (s *State) Def(name string, t types.Mono) error {
	return s.Vars.Define(name, s.Generalize(t))
}
