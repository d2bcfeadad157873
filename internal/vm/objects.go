package vm

import (
	"sort"
	"strings"

	"github.com/wisplang/wisp/internal/ir"
)

// Closure is a heap-allocated function value: Captures holds the values
// copied out of the enclosing frame at creation time (spec.md §3.7, §4.6).
type Closure struct {
	Argc     int
	Captures []Value
	Body     ir.Expr
}

// Builtin is a primitive function implemented in Go, unified with Closure
// under the same apply/saturation path (spec.md §4.7.1).
type Builtin struct {
	Name string
	Argc int
	Fn   func(args []Value) (Value, error)
}

// Record is a runtime record value: an unordered set of named fields
// (spec.md §3.7; row polymorphism is erased by the time values exist).
type Record struct {
	Attrs map[string]Value
}

func NewRecord(attrs map[string]Value) *Record {
	return &Record{Attrs: attrs}
}

func (r *Record) String() string {
	names := make([]string, 0, len(r.Attrs))
	for name := range r.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(r.Attrs[name].String())
	}
	b.WriteString("}")
	return b.String()
}

// Sum is a runtime tagged-union value: one alternative's tag and payload
// (spec.md §5's list/maybe and SPEC_FULL.md's generalized `sum` type).
type Sum struct {
	Tag  string
	Data Value
}

func NewSum(tag string, data Value) *Sum {
	return &Sum{Tag: tag, Data: data}
}

func (s *Sum) String() string {
	return s.Tag + "(" + s.Data.String() + ")"
}
