package types

import (
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/kind"
)

// Unifier performs unification against a single substitution at a fixed
// ambient level — the level at which fresh row variables get allocated
// when rewriting an open row (see rewrite below). Grounded line-for-line
// on original_source/type.cpp's unify/unify_rows/rewrite/occurs_check/
// upgrade functions.
type Unifier struct {
	Sub   *Subst
	Level int
}

// NewUnifier builds a Unifier bound to sub, allocating fresh row
// variables (during row rewriting) at the given level.
func NewUnifier(sub *Subst, level int) *Unifier {
	return &Unifier{Sub: sub, Level: level}
}

func (u *Unifier) substitute(t Mono) Mono { return Substitute(u.Sub, t) }

func (u *Unifier) link(v *Var, to Mono) {
	if Identical(v, to) {
		return
	}
	u.Sub.Link(v, to)
}

func occurs(t Mono, v *Var) bool {
	switch tv := t.(type) {
	case *Var:
		return tv == v
	case *App:
		return occurs(tv.Ctor, v) || occurs(tv.Arg, v)
	default:
		return false
	}
}

func (u *Unifier) occursCheck(v *Var, t Mono) error {
	if Identical(v, t) {
		return nil
	}
	if occurs(t, v) {
		return diagnostics.New(diagnostics.ErrOccursCheck,
			"type variable %s occurs in %s", v.String(), t.String())
	}
	return nil
}

// upgrade walks t (already substituted into by the caller), demoting
// every variable born deeper than level down to level — by unifying it
// with a fresh variable at level. This keeps a variable's level in sync
// with the scope it has escaped into once it gets linked to a type from
// a shallower scope, which is what makes Generalize's level check sound.
func (u *Unifier) upgrade(t Mono, level int) error {
	switch tv := t.(type) {
	case *Cst:
		return nil
	case *Var:
		sub := u.substitute(tv)
		if !Identical(sub, tv) {
			return u.upgrade(sub, level)
		}
		if tv.Level > level {
			return u.Unify(tv, NewVar(level, tv.K))
		}
		return nil
	case *App:
		if err := u.upgrade(tv.Ctor, level); err != nil {
			return err
		}
		return u.upgrade(tv.Arg, level)
	default:
		return nil
	}
}

// Unify unifies from and to in place, mutating u.Sub. Returns a
// *diagnostics.DiagnosticError on failure.
func (u *Unifier) Unify(from, to Mono) error {
	from = u.substitute(from)
	to = u.substitute(to)

	if !from.Kind().Equal(to.Kind()) {
		return diagnostics.New(diagnostics.ErrKindMismatch,
			"cannot unify types of different kinds: %s (%s) and %s (%s)",
			from.String(), from.Kind(), to.String(), to.Kind())
	}

	if v, ok := from.(*Var); ok {
		if err := u.occursCheck(v, to); err != nil {
			return err
		}
		u.link(v, to)
		return u.upgrade(to, v.Level)
	}

	if v, ok := to.(*Var); ok {
		if err := u.occursCheck(v, from); err != nil {
			return err
		}
		u.link(v, from)
		return u.upgrade(from, v.Level)
	}

	fromApp, fok := from.(*App)
	toApp, tok := to.(*App)
	if fok && tok {
		if from.Kind().Equal(kind.Row) {
			return u.unifyRows(fromApp, toApp)
		}
		if err := u.Unify(fromApp.Arg, toApp.Arg); err != nil {
			return err
		}
		return u.Unify(fromApp.Ctor, toApp.Ctor)
	}

	if from.Kind().Equal(kind.Row) {
		if app, ok := to.(*App); ok {
			return diagnostics.New(diagnostics.ErrMissingField,
				"expected attribute %q in record type %s", UnpackExtension(app).Attr, from.String())
		}
		if app, ok := from.(*App); ok {
			return diagnostics.New(diagnostics.ErrMissingField,
				"expected attribute %q in record type %s", UnpackExtension(app).Attr, to.String())
		}
	}

	if !Identical(from, to) {
		return diagnostics.New(diagnostics.ErrMismatch,
			"cannot unify types %s and %s", from.String(), to.String())
	}
	return nil
}

// rewrite attempts to destructure row as ext(attr)(head)(tail) — possibly
// by recursing past other attributes first — producing a fresh
// Extension for attr. Returns ok=false if row is the empty row (attr not
// present, and there's no open tail left to absorb it).
//
// The variable case is the subtle one: rather than binding the row
// variable itself to the rewritten shape, it allocates a brand new head
// and tail and returns those — the original variable is simply left
// unbound and unreferenced from here on. That's sound here because the
// only reference to that variable was the one being replaced by this
// call's result; nothing else in the unification holds on to it.
func (u *Unifier) rewrite(attr string, row Mono) (Extension, bool, error) {
	switch r := row.(type) {
	case *Cst:
		return Extension{}, false, nil
	case *Var:
		return Extension{
			Attr: attr,
			Head: NewVar(u.Level, kind.Term),
			Tail: NewVar(u.Level, kind.Row),
		}, true, nil
	case *App:
		e := UnpackExtension(r)
		if e.Attr == attr {
			return e, true, nil
		}
		sub, ok, err := u.rewrite(attr, e.Tail)
		if err != nil {
			return Extension{}, false, err
		}
		if !ok {
			return Extension{}, false, nil
		}
		return Extension{
			Attr: attr,
			Head: sub.Head,
			Tail: ExtRow(e.Attr, e.Head, sub.Tail),
		}, true, nil
	default:
		return Extension{}, false, nil
	}
}

func (u *Unifier) unifyRows(from, to *App) error {
	e := UnpackExtension(from)

	sub, ok, err := u.rewrite(e.Attr, to)
	if err != nil {
		return err
	}
	if !ok {
		return diagnostics.New(diagnostics.ErrMissingField,
			"expected attribute %q in record type %s", e.Attr, to.String())
	}

	if err := u.Unify(e.Head, sub.Head); err != nil {
		return err
	}
	return u.Unify(e.Tail, sub.Tail)
}
