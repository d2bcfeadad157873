package types

// Subst is a scoped substitution: a parent-chained mapping from type
// variables to the monotype they've been bound to. Grounded on
// original_source/substitution.hpp/.cpp's scope/merge design, which
// supports speculative unification — try a unification in a child scope,
// then either Merge it into the parent (commit) or discard the child
// (rollback) — needed by internal/infer's saturated-application retry
// logic.
type Subst struct {
	parent *Subst
	links  map[*Var]Mono
}

// NewSubst creates a root substitution with no parent.
func NewSubst() *Subst {
	return &Subst{links: map[*Var]Mono{}}
}

// Scope creates a child substitution chained to parent. Links written to
// the child are invisible to the parent until Merge is called.
func Scope(parent *Subst) *Subst {
	return &Subst{parent: parent, links: map[*Var]Mono{}}
}

// Find returns the innermost binding for v, walking up the parent chain;
// returns v itself if nowhere bound.
func (s *Subst) Find(v *Var) Mono {
	if t, ok := s.links[v]; ok {
		return t
	}
	if s.parent != nil {
		return s.parent.Find(v)
	}
	return v
}

// Link records a new binding for v in this scope. Panics if v is already
// linked in this scope (the inference pipeline never relinks a variable
// without first resolving it via Find/Substitute).
func (s *Subst) Link(v *Var, t Mono) {
	if _, ok := s.links[v]; ok {
		panic("types: variable linked twice in the same substitution scope")
	}
	s.links[v] = t
}

// Merge copies every link made in this scope into the parent. Panics if
// called on a root substitution.
func (s *Subst) Merge() {
	if s.parent == nil {
		panic("types: Merge called on a root substitution")
	}
	for v, t := range s.links {
		s.parent.Link(v, t)
	}
}

// Substitute fully resolves t through s: every bound variable is replaced
// by its binding, recursively, until reaching an unbound variable or a
// non-variable type.
func Substitute(s *Subst, t Mono) Mono {
	switch v := t.(type) {
	case *Cst:
		return v
	case *Var:
		bound := s.Find(v)
		if bv, ok := bound.(*Var); ok && bv == v {
			return v
		}
		return Substitute(s, bound)
	case *App:
		return &App{Ctor: Substitute(s, v.Ctor), Arg: Substitute(s, v.Arg)}
	default:
		return t
	}
}

// Generalize closes over every free variable of t born at level or deeper
// (spec.md §3.6, §4.2): those variables are specific to this inference
// scope and safe to universally quantify, while shallower variables
// escape to an enclosing scope and must stay free.
func Generalize(s *Subst, level int, t Mono) Poly {
	resolved := Substitute(s, t)
	forall := map[*Var]struct{}{}
	collectGeneralizable(resolved, level, forall)
	return Poly{Forall: forall, Body: resolved}
}

func collectGeneralizable(t Mono, level int, out map[*Var]struct{}) {
	switch v := t.(type) {
	case *Var:
		if v.Level >= level {
			out[v] = struct{}{}
		}
	case *App:
		collectGeneralizable(v.Ctor, level, out)
		collectGeneralizable(v.Arg, level, out)
	}
}

// Instantiate opens a polytype at the given level: every quantified
// variable is replaced by a fresh variable born at level, preserving
// sharing (two occurrences of the same quantified variable get the same
// fresh variable).
func Instantiate(level int, p Poly) Mono {
	if len(p.Forall) == 0 {
		return p.Body
	}
	mapping := make(map[*Var]*Var, len(p.Forall))
	for v := range p.Forall {
		mapping[v] = NewVar(level, v.K)
	}
	return instantiate(p.Body, mapping)
}

func instantiate(t Mono, mapping map[*Var]*Var) Mono {
	switch v := t.(type) {
	case *Cst:
		return v
	case *Var:
		if fresh, ok := mapping[v]; ok {
			return fresh
		}
		return v
	case *App:
		return &App{Ctor: instantiate(v.Ctor, mapping), Arg: instantiate(v.Arg, mapping)}
	default:
		return t
	}
}
