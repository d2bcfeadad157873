package sexpr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/sexpr"
)

func TestReadAtoms(t *testing.T) {
	forms, err := sexpr.Read("42 3.5 true false foo")
	require.NoError(t, err)
	require.Len(t, forms, 5)
	require.Equal(t, sexpr.Integer, forms[0].Kind)
	require.Equal(t, int64(42), forms[0].IntVal)
	require.Equal(t, sexpr.Real, forms[1].Kind)
	require.Equal(t, sexpr.Boolean, forms[2].Kind)
	require.True(t, forms[2].BoolVal)
	require.Equal(t, sexpr.Boolean, forms[3].Kind)
	require.False(t, forms[3].BoolVal)
	require.Equal(t, sexpr.Symbol, forms[4].Kind)
	require.Equal(t, "foo", forms[4].Symbol().String())
}

func TestReadNestedList(t *testing.T) {
	forms, err := sexpr.Read("(func (x) (+ x 1))")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	require.Equal(t, "(func (x) (+ x 1))", forms[0].String())
}

func TestReadComments(t *testing.T) {
	forms, err := sexpr.Read("; a comment\n(+ 1 2) ; trailing\n")
	require.NoError(t, err)
	require.Len(t, forms, 1)
}

func TestReadUnterminatedList(t *testing.T) {
	_, err := sexpr.Read("(+ 1 2")
	require.Error(t, err)
}

func TestReadUnexpectedCloseParen(t *testing.T) {
	_, err := sexpr.Read(")")
	require.Error(t, err)
}

func TestSignedSymbolsNotNumeric(t *testing.T) {
	forms, err := sexpr.Read("+ - -> +foo")
	require.NoError(t, err)
	for _, f := range forms {
		require.Equal(t, sexpr.Symbol, f.Kind, "%v", f)
	}
}

func TestReadOneRejectsTrailing(t *testing.T) {
	_, err := sexpr.ReadOne("1 2")
	require.Error(t, err)
}

func TestInternStable(t *testing.T) {
	a := sexpr.Intern("zeta")
	b := sexpr.Intern("zeta")
	require.True(t, a.Equal(b))
}
