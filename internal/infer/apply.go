package infer

import (
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
)

// scopedSub opens a child substitution over s, for the speculative
// application-retry attempts below: every unification made against the
// returned state is invisible to s until its Sub is explicitly merged,
// and simply discarded on failure (design note, spec.md §9, "Application
// retry").
func (s *State) scopedSub() *State {
	return &State{Level: s.Level, Vars: s.Vars, Sigs: s.Sigs, Sub: types.Scope(s.Sub), Importer: s.Importer}
}

// chainArrow builds args[0] >>= args[1] >>= ... >>= result.
func chainArrow(args []types.Mono, result types.Mono) types.Mono {
	acc := result
	for i := len(args) - 1; i >= 0; i-- {
		acc = types.Arrow(args[i], acc)
	}
	return acc
}

// applyWithRetry implements the app inference rule (spec.md §4.5): try
// plain application first; on failure, retry up to three more times with
// the function's head constructor signature unwrapped, the first
// argument's unwrapped, or both — implementing implicit coercion through
// a declared nominal signature (e.g. the sum-type constructor applied
// implicitly). Each attempt runs in its own substitution scope so a
// failed attempt leaves no trace; only a successful attempt's scope is
// merged back into s.
func applyWithRetry(s *State, funcType types.Mono, argTypes []types.Mono) (types.Mono, error) {
	plain := func(child *State, ft types.Mono, ats []types.Mono) (types.Mono, error) {
		result := child.Fresh(kind.Term)
		if err := child.Unify(chainArrow(ats, result), ft); err != nil {
			return nil, err
		}
		return result, nil
	}

	plainChild := s.scopedSub()
	result, originalErr := plain(plainChild, funcType, argTypes)
	if originalErr == nil {
		plainChild.Sub.Merge()
		return result, nil
	}

	variants := []struct{ unwrapFunc, unwrapArg bool }{
		{true, false},
		{false, true},
		{true, true},
	}

	for _, v := range variants {
		child := s.scopedSub()
		ft := funcType
		ats := argTypes
		ok := true

		if v.unwrapFunc {
			uft, found, err := unwrapSignature(child, ft)
			if err != nil || !found {
				ok = false
			} else {
				ft = uft
			}
		}
		if ok && v.unwrapArg {
			if len(ats) == 0 {
				ok = false
			} else if uat, found, err := unwrapSignature(child, ats[0]); err != nil || !found {
				ok = false
			} else {
				replaced := make([]types.Mono, len(ats))
				copy(replaced, ats)
				replaced[0] = uat
				ats = replaced
			}
		}
		if !ok {
			continue
		}

		if result, err := plain(child, ft, ats); err == nil {
			child.Sub.Merge()
			return result, nil
		}
	}

	return nil, originalErr
}
