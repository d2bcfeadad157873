package kind_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/kind"
)

func TestMakeArrowAssociativity(t *testing.T) {
	got := kind.MakeArrow(kind.Term, kind.Term, kind.Term)
	want := kind.Arrow{From: kind.Term, To: kind.Arrow{From: kind.Term, To: kind.Term}}
	require.True(t, got.Equal(want))
}

func TestMakeArrowSingle(t *testing.T) {
	require.True(t, kind.MakeArrow(kind.Row).Equal(kind.Row))
}

func TestEqualDistinguishesTermAndRow(t *testing.T) {
	require.False(t, kind.Term.Equal(kind.Row))
	require.True(t, kind.Term.Equal(kind.Term))
}

func TestArrowStringIsReadable(t *testing.T) {
	a := kind.MakeArrow(kind.Term, kind.Row)
	require.Equal(t, "(* >>= @)", a.String())
}
