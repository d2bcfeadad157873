package vm

import (
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/ir"
)

// apply dispatches a call through the appropriate saturation path, and
// redirects the recursive-self sentinel (spec.md §9) back to the closure
// actually executing in the current frame. Grounded on
// original_source/vm.cpp's `apply`.
func apply(vm *VM, fn Value, args []Value) (Value, error) {
	switch fn.Kind {
	case KindClosure:
		return applyClosure(vm, fn, args)
	case KindBuiltin:
		return applyBuiltin(vm, fn, args)
	case kindSelf:
		self := vm.frame().Self
		return apply(vm, self, args)
	default:
		return Value{}, diagnostics.New(diagnostics.ErrNotCallable, "value of kind %s is not callable", fn.Kind)
	}
}

// applyClosure implements full/under/over-saturation for a closure value
// (spec.md §4.7.1). A fully-saturated call pushes a new frame whose Self is
// fn itself, so a recursive-self sentinel encountered while running the
// body resolves back to this exact closure.
func applyClosure(vm *VM, fn Value, args []Value) (Value, error) {
	cl := fn.Obj.(*Closure)
	switch {
	case len(args) == cl.Argc:
		base := len(vm.stack)
		vm.stack = append(vm.stack, args...)
		vm.frames = append(vm.frames, Frame{Base: base, Captures: cl.Captures, Self: fn})

		result, err := Run(vm, cl.Body)

		vm.frames = vm.frames[:len(vm.frames)-1]
		vm.stack = vm.stack[:base]
		return result, err

	case len(args) < cl.Argc:
		return unsaturated(fn, cl.Argc, args), nil

	default:
		first, err := applyClosure(vm, fn, args[:cl.Argc])
		if err != nil {
			return Value{}, err
		}
		return apply(vm, first, args[cl.Argc:])
	}
}

// applyBuiltin mirrors applyClosure's saturation handling for a primitive
// function, calling into Go only once exactly Argc arguments are in hand.
func applyBuiltin(vm *VM, fn Value, args []Value) (Value, error) {
	b := fn.Obj.(*Builtin)
	switch {
	case len(args) == b.Argc:
		return b.Fn(args)

	case len(args) < b.Argc:
		return unsaturated(fn, b.Argc, args), nil

	default:
		first, err := b.Fn(args[:b.Argc])
		if err != nil {
			return Value{}, err
		}
		return apply(vm, first, args[b.Argc:])
	}
}

// unsaturated builds the curried remainder of a partially-applied call: a
// new closure capturing the arguments already supplied plus the original
// callee, whose body re-dispatches through apply once the remaining
// arguments arrive. Grounded on original_source/vm.cpp's `unsaturated`.
func unsaturated(fn Value, expected int, args []Value) Value {
	captures := make([]Value, len(args)+1)
	copy(captures, args)
	captures[len(args)] = fn

	callArgs := make([]ir.Expr, 0, expected)
	for i := range args {
		callArgs = append(callArgs, &ir.Capture{Index: i})
	}
	remaining := expected - len(args)
	for i := 0; i < remaining; i++ {
		callArgs = append(callArgs, &ir.Local{Index: i})
	}

	body := &ir.Call{Func: &ir.Capture{Index: len(args)}, Args: callArgs}
	return ClosureVal(&Closure{Argc: remaining, Captures: captures, Body: body})
}
