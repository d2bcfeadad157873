package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
)

func TestUnifyVarWithConstant(t *testing.T) {
	sub := types.NewSubst()
	u := types.NewUnifier(sub, 0)

	v := types.NewVar(0, kind.Term)
	require.NoError(t, u.Unify(v, types.Integer))
	require.True(t, types.Identical(types.Substitute(sub, v), types.Integer))
}

func TestUnifyOccursCheck(t *testing.T) {
	sub := types.NewSubst()
	u := types.NewUnifier(sub, 0)

	v := types.NewVar(0, kind.Term)
	self := types.ApplyN(types.IO, v)
	err := u.Unify(v, self)
	require.Error(t, err)
}

func TestUnifyKindMismatch(t *testing.T) {
	sub := types.NewSubst()
	u := types.NewUnifier(sub, 0)

	err := u.Unify(types.Integer, types.Empty)
	require.Error(t, err)
}

func TestUnifyRowsDifferentOrder(t *testing.T) {
	sub := types.NewSubst()
	u := types.NewUnifier(sub, 0)

	rowA := types.ExtRow("x", types.Integer, types.ExtRow("y", types.Boolean, types.Empty))
	rowB := types.ExtRow("y", types.Boolean, types.ExtRow("x", types.Integer, types.Empty))

	require.NoError(t, u.Unify(rowA, rowB))
}

func TestUnifyRowsMissingField(t *testing.T) {
	sub := types.NewSubst()
	u := types.NewUnifier(sub, 0)

	rowA := types.ExtRow("x", types.Integer, types.Empty)
	rowB := types.Empty

	err := u.Unify(rowA, rowB)
	require.Error(t, err)
}

func TestUnifyOpenRowAbsorbsField(t *testing.T) {
	sub := types.NewSubst()
	u := types.NewUnifier(sub, 0)

	openTail := types.NewVar(0, kind.Row)
	rowA := types.ExtRow("x", types.Integer, openTail)
	rowB := types.ExtRow("x", types.Integer, types.ExtRow("y", types.Boolean, types.Empty))

	require.NoError(t, u.Unify(rowA, rowB))
}

func TestGeneralizeAndInstantiate(t *testing.T) {
	sub := types.NewSubst()
	v := types.NewVar(1, kind.Term)
	identity := types.Arrow(v, v)

	poly := types.Generalize(sub, 1, identity)
	require.Len(t, poly.Forall, 1)

	inst1 := types.Instantiate(0, poly)
	inst2 := types.Instantiate(0, poly)
	require.False(t, types.Identical(inst1, inst2), "each instantiation should allocate fresh variables")

	app1, ok := inst1.(*types.App)
	require.True(t, ok)
	innerApp, ok := app1.Ctor.(*types.App)
	require.True(t, ok)
	require.True(t, types.Identical(innerApp.Arg, app1.Arg), "both sides of the identity arrow share one fresh variable")
}

func TestGeneralizeRespectsLevel(t *testing.T) {
	sub := types.NewSubst()
	escaped := types.NewVar(0, kind.Term)
	local := types.NewVar(1, kind.Term)

	poly := types.Generalize(sub, 1, types.Arrow(escaped, local))
	require.Len(t, poly.Forall, 1)
	_, ok := poly.Forall[local]
	require.True(t, ok)
	_, ok = poly.Forall[escaped]
	require.False(t, ok, "variable born at a shallower level must stay free")
}
