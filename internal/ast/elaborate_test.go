package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/sexpr"
)

func elaborate(t *testing.T, src string) ast.Expr {
	t.Helper()
	forms, err := sexpr.Read(src)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	e, err := ast.Check(forms[0])
	require.NoError(t, err)
	return e
}

func TestElaborateArithmeticApp(t *testing.T) {
	e := elaborate(t, "(+ 1 2)")
	app, ok := e.(*ast.App)
	require.True(t, ok)
	require.Len(t, app.Args, 2)
	require.Equal(t, "+", app.Func.(*ast.Var).Name)
}

func TestElaborateAbsUntyped(t *testing.T) {
	e := elaborate(t, "(func (x y) (+ x y))")
	abs, ok := e.(*ast.Abs)
	require.True(t, ok)
	require.Len(t, abs.Args, 2)
	require.Equal(t, "x", abs.Args[0].Name)
	require.Nil(t, abs.Args[0].Type)
}

func TestElaborateAbsTyped(t *testing.T) {
	e := elaborate(t, "(func ((integer x)) x)")
	abs, ok := e.(*ast.Abs)
	require.True(t, ok)
	require.Len(t, abs.Args, 1)
	require.Equal(t, "x", abs.Args[0].Name)
	require.NotNil(t, abs.Args[0].Type)
}

func TestElaborateLet(t *testing.T) {
	e := elaborate(t, "(let ((x 1) (y 2)) (+ x y))")
	let, ok := e.(*ast.Let)
	require.True(t, ok)
	require.Len(t, let.Defs, 2)
	require.Equal(t, "x", let.Defs[0].Name)
}

func TestElaborateLetDuplicateBindingFails(t *testing.T) {
	forms, err := sexpr.Read("(let ((x 1) (x 2)) x)")
	require.NoError(t, err)
	_, err = ast.Check(forms[0])
	require.Error(t, err)
}

func TestElaborateSelectionPrefix(t *testing.T) {
	e := elaborate(t, ".foo")
	sel, ok := e.(*ast.Sel)
	require.True(t, ok)
	require.Equal(t, "foo", sel.Name)
}

func TestElaborateQualifiedName(t *testing.T) {
	e := elaborate(t, "a.b.c")
	outer, ok := e.(*ast.App)
	require.True(t, ok)
	require.Equal(t, "c", outer.Func.(*ast.Sel).Name)
	inner, ok := outer.Args[0].(*ast.App)
	require.True(t, ok)
	require.Equal(t, "b", inner.Func.(*ast.Sel).Name)
	require.Equal(t, "a", inner.Args[0].(*ast.Var).Name)
}

func TestElaborateReservedIdentifierFails(t *testing.T) {
	forms, err := sexpr.Read("let")
	require.NoError(t, err)
	_, err = ast.Check(forms[0])
	require.Error(t, err)
}

func TestElaborateRecord(t *testing.T) {
	e := elaborate(t, "(record (x 1) (y 2))")
	rec, ok := e.(*ast.Record)
	require.True(t, ok)
	require.Len(t, rec.Attrs, 2)
}

func TestElaborateCond(t *testing.T) {
	e := elaborate(t, "(if true 1 2)")
	cond, ok := e.(*ast.Cond)
	require.True(t, ok)
	require.NotNil(t, cond.Test)
}

func TestElaborateUseImportMake(t *testing.T) {
	e := elaborate(t, "(use (record (x 1)) (+ x 1))")
	use, ok := e.(*ast.Use)
	require.True(t, ok)
	require.NotNil(t, use.Env)

	e = elaborate(t, "(import math)")
	imp, ok := e.(*ast.Import)
	require.True(t, ok)
	require.Equal(t, "math", imp.Package)

	e = elaborate(t, "(make point (x 1) (y 2))")
	make_, ok := e.(*ast.Make)
	require.True(t, ok)
	require.Len(t, make_.Attrs, 2)
}

func TestElaborateMatchIsParsedOnly(t *testing.T) {
	e := elaborate(t, "(match (just x x) (none y y))")
	m, ok := e.(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 2)
}

func TestElaborateEmptyApplicationFails(t *testing.T) {
	forms, err := sexpr.Read("()")
	require.NoError(t, err)
	_, err = ast.Check(forms[0])
	require.Error(t, err)
}
