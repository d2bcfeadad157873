package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
)

// inferMake implements the `make` rule (spec.md §4.5.2): nominal
// construction. The nominal type name is looked up as an ordinary
// variable bound to a polytype of shape type(outer) >>= type(inner) —
// the same binding a `product`/`coproduct` declaration or a built-in
// registers (spec.md §4.5.1's reification, applied to a constructor
// rather than a plain value).
func inferMake(s *State, make_ *ast.Make) (types.Mono, error) {
	name, ok := make_.Type.(*ast.Var)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrForm, "(make type (name expr)...): type must be a bare name")
	}
	sig, ok := s.Vars.Find(name.Name)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnknownSignature, "no signature registered for %q", name.Name)
	}

	child := s.Scope()
	outer := s.Fresh(kind.Term)
	inner := child.Fresh(kind.Term)

	// The signature is instantiated at the child's (deeper) level, and
	// unifying it with outer (allocated at s's level) demotes every
	// variable on the contravariant (outer) side to s's level. Only
	// variables that appear on the covariant (inner) side alone stay at
	// the child level and may generalize here.
	instantiated := child.Instantiate(sig)
	if err := s.Unify(types.Arrow(types.TypeOf(outer), types.TypeOf(inner)), instantiated); err != nil {
		return nil, err
	}

	reference := child.Generalize(inner)

	row := types.Empty
	for i := len(make_.Attrs) - 1; i >= 0; i-- {
		attr := make_.Attrs[i]
		t, err := Infer(child, attr.Value)
		if err != nil {
			return nil, err
		}
		row = types.ExtRow(attr.Name, t, row)
	}
	provided := types.RecordOf(row)

	if err := s.Unify(inner, provided); err != nil {
		return nil, err
	}

	gen := child.Generalize(inner)
	quantified := map[*types.Var]struct{}{}
	for v := range gen.Forall {
		quantified[v] = struct{}{}
	}

	for v := range reference.Forall {
		resolved := child.Substitute(v)
		if rv, ok := resolved.(*types.Var); ok {
			if _, ok := quantified[rv]; ok {
				continue
			}
		}
		return nil, diagnostics.New(diagnostics.ErrGeneralizationLost,
			"make %q would specialize a parametric field", name.Name)
	}

	return outer, nil
}
