// Package session glues the pipeline stages into one executable unit: a
// Package owns its own inference state and VM, and Exec drives a source
// string top-level form by top-level form through parse → elaborate →
// infer → lower → evaluate, persisting def/import bindings as it goes.
// Grounded on original_source/package.hpp/package.cpp's `package` type
// (`exec`, `sig`, the resolver-backed import chain).
package session

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/builtins"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/ir"
	"github.com/wisplang/wisp/internal/sexpr"
	"github.com/wisplang/wisp/internal/types"
	"github.com/wisplang/wisp/internal/vm"
)

// Result is what executing one top-level form produces: the generalized
// type of the form's value (for REPL/diagnostic display — spec.md §6.4's
// "each top-level result is reported") and the value itself.
type Result struct {
	Type  types.Poly
	Value vm.Value
}

// Resolver resolves a package name to the already-built Package it names,
// loading and executing it if necessary (internal/modcache wires this
// against a search path and content-hash cache).
type Resolver interface {
	Resolve(name string) (*Package, error)
}

// Package is one compilation/evaluation unit: its own inference state and
// VM, sharing nothing with any other Package except through import.
// Grounded on original_source/package.hpp's `package{name, ts, es}`.
type Package struct {
	Name     string
	Infer    *infer.State
	VM       *vm.VM
	Resolver Resolver
}

// New creates a Package with the standard prelude installed (spec.md §5)
// and no import resolver configured — set Resolver before executing a
// form containing `import` if cross-package imports are needed.
func New(name string) (*Package, error) {
	p := newBare(name)
	if err := builtins.Install(p.Infer, p.VM); err != nil {
		return nil, err
	}
	return p, nil
}

// NewBare creates a Package with no prelude installed — `.wisprc.yaml`'s
// `enablePrelude: false` (internal/config.Project.PreludeEnabled) opts a
// project out of the automatic arithmetic/reification/list/maybe
// environment, e.g. for a package meant to define its own from scratch.
func NewBare(name string) (*Package, error) {
	return newBare(name), nil
}

func newBare(name string) *Package {
	s := infer.NewState()
	m := vm.New()
	p := &Package{Name: name, Infer: s, VM: m}
	s.Importer = typeImporter{p}
	m.Importer = valueImporter{p}
	return p
}

// Exec parses src into top-level forms and runs each one through the full
// pipeline in order, stopping at the first error. Every returned error is
// tagged with a fresh random session-correlation id (diagnostics.Tag);
// the id is not recorded anywhere else and does not identify the form.
func (p *Package) Exec(src string) ([]Result, error) {
	forms, err := sexpr.Read(src)
	if err != nil {
		return nil, diagnostics.Tag(err)
	}

	results := make([]Result, 0, len(forms))
	for _, form := range forms {
		r, err := p.execForm(form)
		if err != nil {
			return results, diagnostics.Tag(err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Check parses and elaborates/infers src's top-level forms without
// lowering or evaluating them — the `wisp check` subcommand's type-check-
// only mode. Def bindings still persist into p.Infer.Vars (so later forms
// in the same source, or a later Check/Exec call, see them), but nothing
// is ever pushed through ir.Lower or vm.Run.
func (p *Package) Check(src string) ([]types.Poly, error) {
	forms, err := sexpr.Read(src)
	if err != nil {
		return nil, diagnostics.Tag(err)
	}

	out := make([]types.Poly, 0, len(forms))
	for _, form := range forms {
		e, err := ast.Check(form)
		if err != nil {
			return out, diagnostics.Tag(err)
		}
		mono, err := infer.Infer(p.Infer, e)
		if err != nil {
			return out, diagnostics.Tag(err)
		}
		out = append(out, p.Infer.Generalize(mono))
	}
	return out, nil
}

func (p *Package) execForm(form sexpr.SExpr) (Result, error) {
	e, err := ast.Check(form)
	if err != nil {
		return Result{}, err
	}

	mono, err := infer.Infer(p.Infer, e)
	if err != nil {
		return Result{}, err
	}
	reported := p.Infer.Generalize(mono)

	compiled, err := ir.Lower(e)
	if err != nil {
		return Result{}, err
	}

	value, err := vm.Run(p.VM, compiled)
	if err != nil {
		return Result{}, err
	}

	return Result{Type: reported, Value: value}, nil
}

// Signature builds the record-of-exported-bindings polytype `import`
// binds a package name to (spec.md §4.5's import rule). Grounded on
// original_source/package.cpp's package::sig: every locally-defined
// binding is instantiated, placed in a row, and the whole record is
// re-generalized so a fresh instantiation at the importer's site doesn't
// share type variables with this package's own.
func (p *Package) Signature() types.Poly {
	row := types.Empty
	for name, poly := range p.Infer.Vars.Locals() {
		row = types.ExtRow(name, p.Infer.Instantiate(poly), row)
	}
	return p.Infer.Generalize(types.RecordOf(row))
}

// Dict builds the runtime record value `import` binds a package name to:
// every currently-bound global, as one record (original_source/
// package.hpp's package::dict).
func (p *Package) Dict() vm.Value {
	attrs := make(map[string]vm.Value, len(p.VM.Globals))
	for name, v := range p.VM.Globals {
		attrs[name] = v
	}
	return vm.RecordVal(vm.NewRecord(attrs))
}

type typeImporter struct{ p *Package }

func (i typeImporter) Import(name string) (types.Poly, error) {
	if i.p.Resolver == nil {
		return types.Poly{}, diagnostics.New(diagnostics.ErrUnbound, "no module resolver configured for %q", name)
	}
	target, err := i.p.Resolver.Resolve(name)
	if err != nil {
		return types.Poly{}, err
	}
	return target.Signature(), nil
}

type valueImporter struct{ p *Package }

func (i valueImporter) Import(name string) (vm.Value, error) {
	if i.p.Resolver == nil {
		return vm.Value{}, diagnostics.New(diagnostics.ErrUnbound, "no module resolver configured for %q", name)
	}
	target, err := i.p.Resolver.Resolve(name)
	if err != nil {
		return vm.Value{}, err
	}
	return target.Dict(), nil
}
