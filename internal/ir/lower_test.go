package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/ir"
	"github.com/wisplang/wisp/internal/sexpr"
)

func lower(t *testing.T, src string) ir.Expr {
	t.Helper()
	forms, err := sexpr.Read(src)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	e, err := ast.Check(forms[0])
	require.NoError(t, err)
	compiled, err := ir.Lower(e)
	require.NoError(t, err)
	return compiled
}

func TestLowerLiteral(t *testing.T) {
	e := lower(t, "1")
	lit, ok := e.(*ir.Lit)
	require.True(t, ok)
	require.Equal(t, ir.LitInteger, lit.Kind)
	require.Equal(t, int64(1), lit.Int)
}

func TestLowerUnboundVarIsGlobal(t *testing.T) {
	e := lower(t, "plus")
	g, ok := e.(*ir.Global)
	require.True(t, ok)
	require.Equal(t, "plus", g.Name)
}

func TestLowerAbsBindsArgsAsLocals(t *testing.T) {
	e := lower(t, "(func (x y) x)")
	cl, ok := e.(*ir.Closure)
	require.True(t, ok)
	require.Equal(t, 2, cl.Argc)
	require.Empty(t, cl.Captures)

	local, ok := cl.Body.(*ir.Local)
	require.True(t, ok)
	require.Equal(t, 0, local.Index)
}

func TestLowerAbsCapturesFreeVariable(t *testing.T) {
	e := lower(t, "(func (x) (func (y) plus))")
	outer, ok := e.(*ir.Closure)
	require.True(t, ok)
	require.Len(t, outer.Captures, 1)

	outerCapture, ok := outer.Captures[0].(*ir.Global)
	require.True(t, ok)
	require.Equal(t, "plus", outerCapture.Name)

	inner, ok := outer.Body.(*ir.Closure)
	require.True(t, ok)
	require.Len(t, inner.Captures, 1)
	innerCapture, ok := inner.Captures[0].(*ir.Capture)
	require.True(t, ok)
	require.Equal(t, 0, innerCapture.Index)

	body, ok := inner.Body.(*ir.Capture)
	require.True(t, ok)
	require.Equal(t, 0, body.Index)
}

func TestLowerLetPreallocatesSlotsForSelfReference(t *testing.T) {
	e := lower(t, "(let ((fact (func (n) (fact n)))) fact)")
	scope, ok := e.(*ir.Scope)
	require.True(t, ok)
	require.Len(t, scope.Defs, 1)

	cl, ok := scope.Defs[0].(*ir.Closure)
	require.True(t, ok)
	require.Len(t, cl.Captures, 1)
	capturedLocal, ok := cl.Captures[0].(*ir.Local)
	require.True(t, ok)
	require.Equal(t, 0, capturedLocal.Index)

	bodyLocal, ok := scope.Body.(*ir.Local)
	require.True(t, ok)
	require.Equal(t, 0, bodyLocal.Index)
}

func TestLowerBareSelectorBecomesClosure(t *testing.T) {
	e := lower(t, ".x")
	cl, ok := e.(*ir.Closure)
	require.True(t, ok)
	require.Equal(t, 1, cl.Argc)

	seq, ok := cl.Body.(*ir.Seq)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	_, ok = seq.Items[0].(*ir.Local)
	require.True(t, ok)
	sel, ok := seq.Items[1].(*ir.Sel)
	require.True(t, ok)
	require.Equal(t, "x", sel.Attr)
}

func TestLowerSelectionAppOptimizesToSeq(t *testing.T) {
	e := lower(t, "(.x r)")
	seq, ok := e.(*ir.Seq)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	sel, ok := seq.Items[1].(*ir.Sel)
	require.True(t, ok)
	require.Equal(t, "x", sel.Attr)
}

func TestLowerGenericCallUsesCallNode(t *testing.T) {
	e := lower(t, "(f 1 2)")
	call, ok := e.(*ir.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestLowerRecordAndMakeShareNode(t *testing.T) {
	record := lower(t, "(record (x 1) (y 2))")
	_, ok := record.(*ir.Record)
	require.True(t, ok)
	made := lower(t, "(make point (x 1))")
	_, ok = made.(*ir.Record)
	require.True(t, ok)
}

func TestLowerDefRejectsNonTopLevel(t *testing.T) {
	_, err := ir.Lower(mustElaborate(t, "(func (x) (def y x))"))
	require.Error(t, err)
}

func TestLowerDefLowersToDefinitionSeq(t *testing.T) {
	e := lower(t, "(def one 1)")
	seq, ok := e.(*ir.Seq)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	def, ok := seq.Items[1].(*ir.Def)
	require.True(t, ok)
	require.Equal(t, "one", def.Name)
}

func TestLowerUseInstallsFieldsAroundBody(t *testing.T) {
	e := lower(t, "(use (record (x 1)) x)")
	use, ok := e.(*ir.Use)
	require.True(t, ok)
	require.NotNil(t, use.Env)
	require.NotNil(t, use.Body)
}

func mustElaborate(t *testing.T, src string) ast.Expr {
	t.Helper()
	forms, err := sexpr.Read(src)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	e, err := ast.Check(forms[0])
	require.NoError(t, err)
	return e
}
