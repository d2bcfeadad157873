// Package types implements the type system core: monotypes, polytypes,
// extensible rows, and type-as-value reification (spec.md §3.4). The
// algorithm is grounded on the level-based Hindley-Milner core in
// original_source/type.hpp and type.cpp, reworked as a Go interface
// hierarchy in the style of funxy's internal/typesystem.
package types

import (
	"fmt"

	"github.com/wisplang/wisp/internal/kind"
)

// Mono is a monotype: a constant, a variable, or an application of one
// monotype to another. Mono values are compared by Identical, never by
// Go's == on the interface — two Apps can be structurally identical
// without being the same value.
type Mono interface {
	Kind() kind.Kind
	String() string
	isMono()
}

// Cst is a nominal type constant (unit, boolean, integer, the function
// constructor "->", a user-defined nominal type, ...). Cst values carry
// identity: two distinct *Cst allocations with the same name are distinct
// types, matching spec.md §3.4's "Identity-equal; no structural
// comparison" rule for constants.
type Cst struct {
	Name string
	K    kind.Kind
}

func (c *Cst) isMono()         {}
func (c *Cst) Kind() kind.Kind { return c.K }
func (c *Cst) String() string  { return c.Name }

// NewCst allocates a fresh nominal constant. Every call returns a
// distinct identity even when Name repeats.
func NewCst(name string, k kind.Kind) *Cst {
	return &Cst{Name: name, K: k}
}

// Var is an existential type variable at a given generalization level
// (spec.md §3.6). Var values carry identity: *Var pointer equality is the
// only equality that matters.
type Var struct {
	Level int
	K     kind.Kind
	id    int
}

func (v *Var) isMono()         {}
func (v *Var) Kind() kind.Kind { return v.K }

func (v *Var) String() string {
	return fmt.Sprintf("!t%d", v.id)
}

var varCounter int

// NewVar allocates a fresh type variable at the given level.
func NewVar(level int, k kind.Kind) *Var {
	varCounter++
	return &Var{Level: level, K: k, id: varCounter}
}

// App is the application of a type constructor to an argument: e.g.
// list(integer), or ->(integer)(boolean) for a function type.
type App struct {
	Ctor Mono
	Arg  Mono
}

func (a *App) isMono() {}

// Kind is the kind of Ctor's result, checked against Arg's kind at
// construction time (spec.md §4.1 — kind errors are caught at
// application-build time, not deferred to unification).
func (a *App) Kind() kind.Kind {
	arrow, ok := a.Ctor.Kind().(kind.Arrow)
	if !ok {
		panic("types: App.Kind called on a constructor with non-arrow kind")
	}
	return arrow.To
}

func (a *App) String() string {
	return fmt.Sprintf("(%s %s)", a.Ctor.String(), a.Arg.String())
}

// Apply builds ctor(arg), checking that arg's kind matches what ctor
// expects. The error is a plain error, not a diagnostics value; its
// only caller in this module is MustApply, which panics on it.
func Apply(ctor, arg Mono) (*App, error) {
	arrow, ok := ctor.Kind().(kind.Arrow)
	if !ok {
		return nil, fmt.Errorf("type constructor must have an arrow kind, got %s", ctor.Kind())
	}
	if !arrow.From.Equal(arg.Kind()) {
		return nil, fmt.Errorf("argument has kind %s, expected %s", arg.Kind(), arrow.From)
	}
	return &App{Ctor: ctor, Arg: arg}, nil
}

// MustApply is Apply but panics on kind mismatch. Used for the fixed
// built-in type constructors below, whose kinds are known not to fail.
func MustApply(ctor, arg Mono) *App {
	a, err := Apply(ctor, arg)
	if err != nil {
		panic(err)
	}
	return a
}

// ApplyN left-folds MustApply over args: ApplyN(f, a, b) == f(a)(b).
func ApplyN(ctor Mono, args ...Mono) Mono {
	result := ctor
	for _, a := range args {
		result = MustApply(result, a)
	}
	return result
}

// Poly is a polytype: a monotype body universally quantified over a set
// of type variables (spec.md §3.4, §4.2).
type Poly struct {
	Forall map[*Var]struct{}
	Body   Mono
}

// MonoPoly wraps a monotype as a trivial polytype with no quantified
// variables — used for nominal-signature lookups and constants.
func MonoPoly(t Mono) Poly {
	return Poly{Forall: nil, Body: t}
}

func (p Poly) String() string {
	return p.Body.String()
}

// Identical reports whether a and b are the same type: Cst/Var compared
// by identity, App compared structurally through Identical on Ctor/Arg.
func Identical(a, b Mono) bool {
	switch av := a.(type) {
	case *Cst:
		bv, ok := b.(*Cst)
		return ok && av == bv
	case *Var:
		bv, ok := b.(*Var)
		return ok && av == bv
	case *App:
		bv, ok := b.(*App)
		return ok && Identical(av.Ctor, bv.Ctor) && Identical(av.Arg, bv.Arg)
	default:
		return false
	}
}

// Built-in nominal constants (spec.md §3.4).
var (
	Unit    = NewCst("unit", kind.Term)
	Boolean = NewCst("boolean", kind.Term)
	Integer = NewCst("integer", kind.Term)
	Real    = NewCst("real", kind.Term)

	// Func is the binary function type constructor "->": * -> * -> *.
	Func = NewCst("->", kind.MakeArrow(kind.Term, kind.Term, kind.Term))

	// IO is the nominal effect wrapper constructor: * -> *.
	IO = NewCst("io", kind.MakeArrow(kind.Term, kind.Term))

	// Record is the row-to-term constructor: @ -> *.
	Record = NewCst("record", kind.MakeArrow(kind.Row, kind.Term))

	// Sum is record's dual: a closed tagged union over a row of
	// alternatives (SPEC_FULL.md's generalization of the source's
	// ad-hoc list/maybe sum types into one structural constructor, @ -> *).
	Sum = NewCst("sum", kind.MakeArrow(kind.Row, kind.Term))

	// Empty is the empty row constant, kind @.
	Empty Mono = NewCst("{}", kind.Row)

	// Ty is the reification constructor: * >>= *. type(τ) is the type
	// whose inhabitants are values representing the monotype τ (spec.md
	// §3.4, §4.5.1).
	Ty = NewCst("type", kind.MakeArrow(kind.Term, kind.Term))
)

// TypeOf builds type(t): the reified-type-as-value wrapper for t.
func TypeOf(t Mono) Mono {
	return ApplyN(Ty, t)
}

// Arrow builds the binary function type from -> to.
func Arrow(from, to Mono) Mono {
	return ApplyN(Func, from, to)
}

// IOOf wraps t in the io effect constructor.
func IOOf(t Mono) Mono {
	return ApplyN(IO, t)
}

// RecordOf builds record(row).
func RecordOf(row Mono) Mono {
	return ApplyN(Record, row)
}

// SumOf builds sum(row): the closed tagged union over row's alternatives.
func SumOf(row Mono) Mono {
	return ApplyN(Sum, row)
}

var extTable = map[string]*Cst{}

// extKind is the kind of a row-extension constructor: * -> @ -> @.
var extKind = kind.MakeArrow(kind.Term, kind.Row, kind.Row)

// Ext returns the canonical row-extension constructor for attr,
// allocating it on first use and memoizing thereafter (mirrors
// original_source/type.cpp's `ext` table, keyed by attribute name).
func Ext(attr string) *Cst {
	if c, ok := extTable[attr]; ok {
		return c
	}
	c := NewCst(attr+":", extKind)
	extTable[attr] = c
	return c
}

// ExtRow builds ext(attr)(head)(tail): a row extended with attr:head in
// front of tail.
func ExtRow(attr string, head, tail Mono) Mono {
	return ApplyN(Ext(attr), head, tail)
}
