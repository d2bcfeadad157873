// Package builtins installs the initial environment every session starts
// from: integer arithmetic, the type-reification machinery (`->`, `type`,
// `ctor`), and the `maybe`/`list` sum types (spec.md §5). Grounded on
// original_source/core.cpp and builtins.cpp's `package::core`/
// `package::builtins`, which pair each name's polytype and its runtime
// value in a single `def` call — internal/builtins.define mirrors that
// pairing against infer.State and vm.VM instead of a single `package`
// object, since this module keeps type-checking and evaluation as
// separate packages.
package builtins

import (
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
	"github.com/wisplang/wisp/internal/vm"
)

// Install wires s (inference) and m (evaluation) with the same set of
// bindings, generalized at s's current level — call this against a fresh
// top-level infer.State and vm.VM before running any user code.
func Install(s *infer.State, m *vm.VM) error {
	installArithmetic(s, m)
	if err := installReification(s, m); err != nil {
		return err
	}
	if err := installMaybe(s, m); err != nil {
		return err
	}
	if err := installList(s, m); err != nil {
		return err
	}
	return nil
}

// define generalizes t at s's current level, binds name to the result in
// s.Vars, and installs value as the same name's runtime binding in
// m.Globals — the two halves original_source/package.hpp's package::def
// keeps together as one (symbol, type, value) entry.
func define(s *infer.State, m *vm.VM, name string, t types.Mono, value vm.Value) error {
	if err := s.Vars.Define(name, s.Generalize(t)); err != nil {
		return err
	}
	m.Globals[name] = value
	return nil
}

func installArithmetic(s *infer.State, m *vm.VM) {
	arith := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	cmp := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Boolean))

	must(define(s, m, "+", arith, vm.BuiltinVal(&vm.Builtin{Name: "+", Argc: 2, Fn: intBinOp(func(a, b int64) int64 { return a + b })})))
	must(define(s, m, "-", arith, vm.BuiltinVal(&vm.Builtin{Name: "-", Argc: 2, Fn: intBinOp(func(a, b int64) int64 { return a - b })})))
	must(define(s, m, "*", arith, vm.BuiltinVal(&vm.Builtin{Name: "*", Argc: 2, Fn: intBinOp(func(a, b int64) int64 { return a * b })})))
	must(define(s, m, "=", cmp, vm.BuiltinVal(&vm.Builtin{Name: "=", Argc: 2, Fn: func(args []vm.Value) (vm.Value, error) {
		return vm.BoolVal(args[0].Int == args[1].Int), nil
	}})))
}

func intBinOp(fn func(a, b int64) int64) func([]vm.Value) (vm.Value, error) {
	return func(args []vm.Value) (vm.Value, error) {
		return vm.IntVal(fn(args[0].Int, args[1].Int)), nil
	}
}

// ctorStub is the trivial runtime value paired with a type-only binding
// like `->`, `type`, or `ctor`: these exist purely so that reified type
// terms can be built and passed around as ordinary values (spec.md
// §4.5.1); their own evaluation never observably does anything, matching
// original_source/core.cpp's `ctor_value`/`ctor2_value` stub closures.
func ctorStub(argc int) vm.Value {
	return vm.BuiltinVal(&vm.Builtin{Name: "ctor-stub", Argc: argc, Fn: func(args []vm.Value) (vm.Value, error) {
		return vm.UnitVal(), nil
	}})
}

// installReification wires the `->`/`type`/`ctor` family and the
// `integer`/`boolean`/`unit` reified type bindings (spec.md §4.5.1).
// Grounded on original_source/core.cpp's corresponding blocks.
func installReification(s *infer.State, m *vm.VM) error {
	{
		a := s.Fresh(kind.Term)
		b := s.Fresh(kind.Term)
		sig := types.Arrow(types.TypeOf(a), types.Arrow(types.TypeOf(b), types.TypeOf(types.Arrow(a, b))))
		if err := define(s, m, "->", sig, ctorStub(2)); err != nil {
			return err
		}
	}
	{
		a := s.Fresh(kind.Term)
		b := s.Fresh(kind.Term)
		sig := types.Arrow(types.Arrow(a, b), types.Arrow(a, b))
		s.Sigs.Define(types.Func, s.Generalize(sig))
	}
	{
		a := s.Fresh(kind.Term)
		sig := types.Arrow(types.TypeOf(a), types.TypeOf(a))
		s.Sigs.Define(types.Ty, s.Generalize(sig))
	}
	{
		a := s.Fresh(kind.Term)
		sig := types.Arrow(types.TypeOf(a), types.TypeOf(types.TypeOf(a)))
		if err := define(s, m, "type", sig, ctorStub(1)); err != nil {
			return err
		}
	}

	ctor := types.NewCst("ctor", kind.MakeArrow(kind.MakeArrow(kind.Term, kind.Term), kind.Term))
	{
		c := s.Fresh(kind.MakeArrow(kind.Term, kind.Term))
		a := s.Fresh(kind.Term)
		sig := types.Arrow(types.ApplyN(ctor, c), types.Arrow(types.TypeOf(a), types.TypeOf(types.MustApply(c, a))))
		s.Sigs.Define(ctor, s.Generalize(sig))
	}
	{
		c := s.Fresh(kind.MakeArrow(kind.Term, kind.Term))
		sig := types.Arrow(types.ApplyN(ctor, c), types.TypeOf(types.ApplyN(ctor, c)))
		if err := define(s, m, "ctor", sig, ctorStub(1)); err != nil {
			return err
		}
	}

	if err := define(s, m, "integer", types.TypeOf(types.Integer), vm.UnitVal()); err != nil {
		return err
	}
	if err := define(s, m, "boolean", types.TypeOf(types.Boolean), vm.UnitVal()); err != nil {
		return err
	}
	if err := define(s, m, "unit", types.TypeOf(types.Unit), vm.UnitVal()); err != nil {
		return err
	}
	return nil
}

// installMaybe wires the `maybe` sum type and its `none`/`just`
// constructors (spec.md §5). Grounded on original_source/core.cpp's
// `maybe` block.
func installMaybe(s *infer.State, m *vm.VM) error {
	maybe := types.NewCst("maybe", kind.MakeArrow(kind.Term, kind.Term))

	{
		a := s.Fresh(kind.Term)
		row := types.ExtRow("some", a, types.ExtRow("none", types.Unit, types.Empty))
		sig := types.Arrow(types.MustApply(maybe, a), types.SumOf(row))
		s.Sigs.Define(maybe, s.Generalize(sig))
	}
	{
		a := s.Fresh(kind.Term)
		if err := define(s, m, "none", types.MustApply(maybe, a), vm.SumVal(vm.NewSum("none", vm.UnitVal()))); err != nil {
			return err
		}
	}
	{
		a := s.Fresh(kind.Term)
		sig := types.Arrow(a, types.MustApply(maybe, a))
		just := vm.BuiltinVal(&vm.Builtin{Name: "just", Argc: 1, Fn: func(args []vm.Value) (vm.Value, error) {
			return vm.SumVal(vm.NewSum("some", args[0])), nil
		}})
		if err := define(s, m, "just", sig, just); err != nil {
			return err
		}
	}
	{
		a := s.Fresh(kind.Term)
		sig := types.Arrow(types.TypeOf(a), types.TypeOf(types.MustApply(maybe, a)))
		if err := define(s, m, "maybe", sig, ctorStub(1)); err != nil {
			return err
		}
	}
	return nil
}

// installList wires the `list` sum type and its `nil`/`cons` constructors
// (spec.md §5). Grounded on original_source/builtins.cpp's `list` block.
func installList(s *infer.State, m *vm.VM) error {
	list := types.NewCst("list", kind.MakeArrow(kind.Term, kind.Term))

	{
		a := s.Fresh(kind.Term)
		listOfA := types.MustApply(list, a)
		cell := types.RecordOf(types.ExtRow("head", a, types.ExtRow("tail", listOfA, types.Empty)))
		row := types.ExtRow("cons", cell, types.ExtRow("nil", types.Unit, types.Empty))
		sig := types.Arrow(listOfA, types.SumOf(row))
		s.Sigs.Define(list, s.Generalize(sig))
	}
	{
		a := s.Fresh(kind.Term)
		if err := define(s, m, "nil", types.MustApply(list, a), vm.SumVal(vm.NewSum("nil", vm.UnitVal()))); err != nil {
			return err
		}
	}
	{
		a := s.Fresh(kind.Term)
		listOfA := types.MustApply(list, a)
		sig := types.Arrow(a, types.Arrow(listOfA, listOfA))
		cons := vm.BuiltinVal(&vm.Builtin{Name: "cons", Argc: 2, Fn: func(args []vm.Value) (vm.Value, error) {
			cell := vm.NewRecord(map[string]vm.Value{"head": args[0], "tail": args[1]})
			return vm.SumVal(vm.NewSum("cons", vm.RecordVal(cell))), nil
		}})
		if err := define(s, m, "cons", sig, cons); err != nil {
			return err
		}
	}
	{
		a := s.Fresh(kind.Term)
		sig := types.Arrow(types.TypeOf(a), types.TypeOf(types.MustApply(list, a)))
		if err := define(s, m, "list", sig, ctorStub(1)); err != nil {
			return err
		}
	}
	return nil
}

// must panics on an error that can only come from a duplicate name within
// this package's own bindings — a programmer error, not a user-facing one.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
