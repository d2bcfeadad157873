// Package sexpr implements the S-expression data model: the untyped tree
// consumed by AST elaboration (spec.md §3.1). This is the external
// collaborator producing S-expressions referenced in spec.md §1 — a
// recursive-descent reader over characters, treated as a black box by the
// rest of the pipeline.
package sexpr

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the variant held by a SExpr.
type Kind int

const (
	Integer Kind = iota
	Real
	Boolean
	Symbol
	List
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Boolean:
		return "boolean"
	case Symbol:
		return "symbol"
	case List:
		return "list"
	default:
		return "?"
	}
}

// SExpr is a tagged union over {integer, real, boolean, symbol, list}.
type SExpr struct {
	Kind Kind

	IntVal  int64
	RealVal float64
	BoolVal bool
	SymVal  Sym
	Items   []SExpr
}

// Symbol returns the interned symbol for the given SExpr of kind Symbol.
// Panics if called on any other kind — callers are expected to check Kind
// first, mirroring the original variant's strict accessors.
func (e SExpr) Symbol() Sym {
	if e.Kind != Symbol {
		panic(fmt.Sprintf("sexpr: Symbol() called on %s", e.Kind))
	}
	return e.SymVal
}

func (e SExpr) String() string {
	switch e.Kind {
	case Integer:
		return fmt.Sprintf("%d", e.IntVal)
	case Real:
		return fmt.Sprintf("%g", e.RealVal)
	case Boolean:
		if e.BoolVal {
			return "true"
		}
		return "false"
	case Symbol:
		return e.SymVal.String()
	case List:
		parts := make([]string, len(e.Items))
		for i, it := range e.Items {
			parts[i] = it.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "?"
	}
}

func Int(v int64) SExpr    { return SExpr{Kind: Integer, IntVal: v} }
func Float(v float64) SExpr { return SExpr{Kind: Real, RealVal: v} }
func Bool(v bool) SExpr    { return SExpr{Kind: Boolean, BoolVal: v} }
func Sy(s Sym) SExpr       { return SExpr{Kind: Symbol, SymVal: s} }
func Lst(items ...SExpr) SExpr {
	return SExpr{Kind: List, Items: items}
}

// Sym is an interned symbol: a handle with identity equality and a stable
// insertion-order ranking (spec.md §3.1 — "creation-dependent but
// stable"). Equal names always intern to the same handle.
type Sym struct {
	id   int
	name string
}

func (s Sym) String() string { return s.name }

// Less orders symbols by creation order, matching spec.md §3.1's
// "ordering by interned pointer (i.e. creation-dependent but stable)".
func (s Sym) Less(other Sym) bool { return s.id < other.id }

func (s Sym) Equal(other Sym) bool { return s.id == other.id }

var internTable = newInterner()

type interner struct {
	byName map[string]Sym
	names  []string
}

func newInterner() *interner {
	return &interner{byName: make(map[string]Sym)}
}

// Intern returns the canonical Sym for name, allocating a fresh one on
// first use.
func Intern(name string) Sym {
	if s, ok := internTable.byName[name]; ok {
		return s
	}
	s := Sym{id: len(internTable.names), name: name}
	internTable.byName[name] = s
	internTable.names = append(internTable.names, name)
	return s
}

// SortSymbols returns a copy of syms sorted by interned creation order: a
// deterministic-but-not-lexicographic order over a set of symbols. Row
// display does not use it; rows print in their structural order.
func SortSymbols(syms []Sym) []Sym {
	out := make([]Sym, len(syms))
	copy(out, syms)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
