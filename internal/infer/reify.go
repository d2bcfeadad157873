package infer

import (
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
)

// reconstruct extracts the monotype a reified type value stands for
// (spec.md §4.5.1): if t is literally type(x), return x; otherwise treat
// t as a (possibly partially applied) type constructor and peel arrows
// off it until a type(x) application appears.
func reconstruct(s *State, t types.Mono) (types.Mono, error) {
	t = s.Substitute(t)
	if app, ok := t.(*types.App); ok {
		if ctor, ok := app.Ctor.(*types.Cst); ok && ctor == types.Ty {
			return app.Arg, nil
		}
	}

	a := s.Fresh(kind.Term)
	b := s.Fresh(kind.Term)
	if err := s.Unify(t, types.Arrow(a, b)); err != nil {
		return nil, err
	}
	return reconstruct(s, b)
}

// headConstructor returns the nominal constant at the head of an
// application chain: headConstructor(list(integer)) is list,
// headConstructor(Point) is Point itself. ok is false for a bare
// variable, which has no fixed head.
func headConstructor(t types.Mono) (*types.Cst, bool) {
	switch v := t.(type) {
	case *types.Cst:
		return v, true
	case *types.App:
		return headConstructor(v.Ctor)
	default:
		return nil, false
	}
}

// unwrapSignature looks up the coercion signature registered (in Sigs)
// for t's head constructor and, if one exists, unifies t against its
// declared outer shape and returns the corresponding inner/structural
// shape. Used by both typed-argument binding and the application-retry
// rule to let a nominal type stand in for its underlying structure.
// ok is false (with a nil error) when no signature is registered for t's
// head — not every type coerces, and that's not itself an error.
func unwrapSignature(s *State, t types.Mono) (types.Mono, bool, error) {
	resolved := s.Substitute(t)
	c, ok := headConstructor(resolved)
	if !ok {
		return nil, false, nil
	}
	sig, found := s.Sigs.Find(c)
	if !found {
		return nil, false, nil
	}

	instantiated := s.Instantiate(sig)
	outer := s.Fresh(kind.Term)
	inner := s.Fresh(kind.Term)
	if err := s.Unify(instantiated, types.Arrow(outer, inner)); err != nil {
		return nil, false, err
	}
	if err := s.Unify(resolved, outer); err != nil {
		return nil, false, err
	}
	return s.Substitute(inner), true, nil
}
