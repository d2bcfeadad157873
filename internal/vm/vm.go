package vm

import (
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/ir"
)

// Frame is one call's activation record: Base is the index into the shared
// value stack where its locals begin, Captures holds the captured values
// of the closure it was invoked from, and Self is that closure value — consulted when the
// recursive-self sentinel (spec.md §9) is applied from within the call.
// Grounded on original_source/vm.hpp's `frame{sp, cp}`.
type Frame struct {
	Base     int
	Captures []Value
	Self     Value
}

// Importer resolves a package name to the record value exposed by `import`
// (spec.md §4.7; paired with infer.Importer at the type level).
type Importer interface {
	Import(name string) (Value, error)
}

// VM is the evaluator's mutable state: one growable value stack shared by
// every frame, a frame stack, a global namespace, and an optional package
// Importer. Grounded on original_source/vm.hpp's `state{stack, frames,
// globals}`.
type VM struct {
	stack   []Value
	frames  []Frame
	Globals map[string]Value

	Importer Importer
}

// New returns a VM with an empty global namespace and one bottom frame
// (matching original_source/vm.cpp's initial `frames.emplace_back`).
func New() *VM {
	return &VM{
		Globals: map[string]Value{},
		frames:  []Frame{{}},
	}
}

func (vm *VM) frame() *Frame {
	return &vm.frames[len(vm.frames)-1]
}

func (vm *VM) local(i int) Value {
	return vm.stack[vm.frame().Base+i]
}

func (vm *VM) capture(i int) Value {
	return vm.frame().Captures[i]
}

func (vm *VM) global(name string) (Value, error) {
	v, ok := vm.Globals[name]
	if !ok {
		return Value{}, diagnostics.New(diagnostics.ErrUnbound, "unbound variable %q", name)
	}
	return v, nil
}

// Run evaluates e against vm's current frame, dispatching one case per IR
// node (spec.md §4.7). Grounded on original_source/vm.cpp's `run` family of
// overloads, collapsed into a single switch in the style of internal/infer
// and internal/ir's own dispatch functions.
func Run(vm *VM, e ir.Expr) (Value, error) {
	switch node := e.(type) {
	case *ir.Lit:
		return runLit(node), nil
	case *ir.Local:
		return vm.local(node.Index), nil
	case *ir.Capture:
		return vm.capture(node.Index), nil
	case *ir.Global:
		return vm.global(node.Name)
	case *ir.Seq:
		return runSeq(vm, node)
	case *ir.Scope:
		return runScope(vm, node)
	case *ir.Cond:
		return runCond(vm, node)
	case *ir.Closure:
		return runClosure(vm, node)
	case *ir.Call:
		return runCall(vm, node)
	case *ir.Record:
		return runRecord(vm, node)
	case *ir.Use:
		return runUse(vm, node)
	case *ir.Import:
		return runImport(vm, node)
	case *ir.Def:
		return Value{}, diagnostics.New(diagnostics.ErrForm, "def must follow a value in a sequence")
	case *ir.Sel:
		return Value{}, diagnostics.New(diagnostics.ErrForm, "selection must follow a value in a sequence")
	default:
		return Value{}, diagnostics.New(diagnostics.ErrForm, "unrecognized IR node")
	}
}

func runLit(lit *ir.Lit) Value {
	switch lit.Kind {
	case ir.LitUnit:
		return UnitVal()
	case ir.LitBoolean:
		return BoolVal(lit.Bool)
	case ir.LitInteger:
		return IntVal(lit.Int)
	case ir.LitReal:
		return RealVal(lit.Real)
	case ir.LitString:
		return StringVal(lit.Str)
	default:
		panic("vm: unrecognized literal kind")
	}
}

// runSeq evaluates items in order, special-casing *ir.Def and *ir.Sel: both
// act on the PRECEDING item's value rather than computing one of their own
// (spec.md §4.7's "def pops the top value" / "sel pops a record"), which a
// single flat Run dispatch cannot express without this caller-side state.
func runSeq(vm *VM, seq *ir.Seq) (Value, error) {
	var prev Value
	hasPrev := false

	for _, item := range seq.Items {
		switch node := item.(type) {
		case *ir.Def:
			if !hasPrev {
				return Value{}, diagnostics.New(diagnostics.ErrForm, "def has no preceding value")
			}
			if _, exists := vm.Globals[node.Name]; exists {
				return Value{}, diagnostics.New(diagnostics.ErrRedefined, "%q is already defined", node.Name)
			}
			vm.Globals[node.Name] = prev

		case *ir.Sel:
			if !hasPrev {
				return Value{}, diagnostics.New(diagnostics.ErrForm, "selection has no preceding value")
			}
			rec, ok := prev.Obj.(*Record)
			if prev.Kind != KindRecord || !ok {
				return Value{}, diagnostics.New(diagnostics.ErrNotCallable, "selection %q applied to a non-record value", node.Attr)
			}
			v, ok := rec.Attrs[node.Attr]
			if !ok {
				return Value{}, diagnostics.New(diagnostics.ErrMissingField, "record has no attribute %q", node.Attr)
			}
			prev = v

		default:
			v, err := Run(vm, item)
			if err != nil {
				return Value{}, err
			}
			prev = v
			hasPrev = true
		}
	}

	if !hasPrev {
		return UnitVal(), nil
	}
	return prev, nil
}

// runScope implements let-evaluation (spec.md §4.7, §9): every def's slot
// is pre-filled with the recursive-self sentinel before any def is
// evaluated, so a lambda-valued def capturing its own (still-sentinel)
// slot can later be redirected back to itself on application.
func runScope(vm *VM, s *ir.Scope) (Value, error) {
	base := len(vm.stack)
	for range s.Defs {
		vm.stack = append(vm.stack, selfVal())
	}

	for i, def := range s.Defs {
		v, err := Run(vm, def)
		if err != nil {
			vm.stack = vm.stack[:base]
			return Value{}, err
		}
		vm.stack[base+i] = v
	}

	result, err := Run(vm, s.Body)
	vm.stack = vm.stack[:base]
	if err != nil {
		return Value{}, err
	}
	return result, nil
}

func runCond(vm *VM, c *ir.Cond) (Value, error) {
	test, err := Run(vm, c.Test)
	if err != nil {
		return Value{}, err
	}
	if test.Kind != KindBoolean {
		return Value{}, diagnostics.New(diagnostics.ErrNotCallable, "condition is not a boolean")
	}
	if test.Bool {
		return Run(vm, c.Then)
	}
	return Run(vm, c.Else)
}

func runClosure(vm *VM, c *ir.Closure) (Value, error) {
	captures := make([]Value, len(c.Captures))
	for i, ce := range c.Captures {
		v, err := Run(vm, ce)
		if err != nil {
			return Value{}, err
		}
		captures[i] = v
	}
	return ClosureVal(&Closure{Argc: c.Argc, Captures: captures, Body: c.Body}), nil
}

func runCall(vm *VM, c *ir.Call) (Value, error) {
	fn, err := Run(vm, c.Func)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, len(c.Args))
	for i, ae := range c.Args {
		v, err := Run(vm, ae)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return apply(vm, fn, args)
}

func runRecord(vm *VM, r *ir.Record) (Value, error) {
	attrs := make(map[string]Value, len(r.Attrs))
	for _, a := range r.Attrs {
		v, err := Run(vm, a.Value)
		if err != nil {
			return Value{}, err
		}
		attrs[a.Name] = v
	}
	return RecordVal(NewRecord(attrs)), nil
}

// runImport implements the `import` rule: vm.Importer resolves the package
// to a record value ready for the paired Def to bind (spec.md §4.7).
func runImport(vm *VM, imp *ir.Import) (Value, error) {
	if vm.Importer == nil {
		return Value{}, diagnostics.New(diagnostics.ErrUnbound, "no importer configured for package %q", imp.Package)
	}
	return vm.Importer.Import(imp.Package)
}

// runUse implements the `use` rule (spec.md §4.7, SPEC_FULL.md): env must
// evaluate to a record; its fields are installed into vm.Globals for the
// dynamic extent of body's evaluation, then the prior globals (if any) are
// restored, so use nests and shadows correctly even at the top level.
func runUse(vm *VM, u *ir.Use) (Value, error) {
	env, err := Run(vm, u.Env)
	if err != nil {
		return Value{}, err
	}
	rec, ok := env.Obj.(*Record)
	if env.Kind != KindRecord || !ok {
		return Value{}, diagnostics.New(diagnostics.ErrNotCallable, "use requires a record value")
	}

	type saved struct {
		had bool
		val Value
	}
	backups := make(map[string]saved, len(rec.Attrs))
	for name, val := range rec.Attrs {
		old, had := vm.Globals[name]
		backups[name] = saved{had: had, val: old}
		vm.Globals[name] = val
	}

	result, err := Run(vm, u.Body)

	for name, b := range backups {
		if b.had {
			vm.Globals[name] = b.val
		} else {
			delete(vm.Globals, name)
		}
	}

	return result, err
}
