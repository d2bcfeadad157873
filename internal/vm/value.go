// Package vm implements the stack-based evaluator for internal/ir (spec.md
// §4.7): call frames addressed by base offset, curried closures and
// builtins unified under one apply/saturation path (§4.7.1). Grounded on
// original_source/vm.hpp/vm.cpp's `value`/`frame`/`state`/`apply` design,
// restructured in the tagged-struct style of funxy's internal/vm/value.go
// (a `Kind` tag plus inline primitive fields, an `any` slot for heap
// objects) rather than funxy's own bytecode+upvalue machinery, which this
// spec's tree-walking-over-IR model does not use.
package vm

import "fmt"

// Kind tags the variant held by a Value (spec.md §3.7's VM value union).
type Kind int

const (
	KindUnit Kind = iota
	KindBoolean
	KindInteger
	KindReal
	KindString
	KindBuiltin
	KindClosure
	KindRecord
	KindSum

	// kindSelf is never produced by surface evaluation: it is the
	// placeholder a Scope pre-fills a not-yet-initialized recursive
	// binding's slot with (spec.md §9's "self-reference in closures"); a
	// closure that captures this sentinel instead of its own final value
	// is transparently redirected, on use as a callee, to the closure
	// actually executing in the current frame (internal/vm's apply).
	kindSelf
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindBuiltin:
		return "builtin"
	case KindClosure:
		return "closure"
	case KindRecord:
		return "record"
	case KindSum:
		return "sum"
	default:
		return "?"
	}
}

// Value is a stack-allocated tagged union over {unit, boolean, integer,
// real, string, builtin, closure, record, sum} (spec.md §3.7). Obj carries
// the heap-allocated representation for the non-primitive kinds.
type Value struct {
	Kind Kind

	Bool bool
	Int  int64
	Real float64
	Str  string

	Obj any
}

func UnitVal() Value           { return Value{Kind: KindUnit} }
func BoolVal(v bool) Value     { return Value{Kind: KindBoolean, Bool: v} }
func IntVal(v int64) Value     { return Value{Kind: KindInteger, Int: v} }
func RealVal(v float64) Value  { return Value{Kind: KindReal, Real: v} }
func StringVal(v string) Value { return Value{Kind: KindString, Str: v} }

func ClosureVal(c *Closure) Value { return Value{Kind: KindClosure, Obj: c} }
func BuiltinVal(b *Builtin) Value { return Value{Kind: KindBuiltin, Obj: b} }
func RecordVal(r *Record) Value   { return Value{Kind: KindRecord, Obj: r} }
func SumVal(s *Sum) Value         { return Value{Kind: KindSum, Obj: s} }

func selfVal() Value { return Value{Kind: kindSelf} }

func (v Value) String() string {
	switch v.Kind {
	case KindUnit:
		return "()"
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindReal:
		return fmt.Sprintf("%g", v.Real)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindBuiltin:
		return "#<builtin>"
	case KindClosure:
		return "#<closure>"
	case KindRecord:
		return v.Obj.(*Record).String()
	case KindSum:
		return v.Obj.(*Sum).String()
	default:
		return "#<unprintable>"
	}
}
