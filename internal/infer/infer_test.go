package infer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/infer"
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/sexpr"
	"github.com/wisplang/wisp/internal/types"
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

func mono(t *testing.T, s *infer.State, src string) types.Mono {
	t.Helper()
	m, err := infer.Infer(s, elaborate(t, src))
	require.NoError(t, err)
	return s.Substitute(m)
}

func requireIdentical(t *testing.T, want, got types.Mono) {
	t.Helper()
	require.True(t, types.Identical(want, got), "want %s, got %s", want.String(), got.String())
}

func TestInferLiterals(t *testing.T) {
	s := infer.NewState()
	requireIdentical(t, types.Integer, mono(t, s, "1"))
	requireIdentical(t, types.Real, mono(t, s, "1.5"))
	requireIdentical(t, types.Boolean, mono(t, s, "true"))
}

func TestInferArithmeticApp(t *testing.T) {
	s := infer.NewState()
	plus := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(plus)))

	requireIdentical(t, types.Integer, mono(t, s, "(+ 1 2)"))
}

func TestInferArithmeticMismatch(t *testing.T) {
	s := infer.NewState()
	plus := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(plus)))

	_, err := infer.Infer(s, elaborate(t, "(+ 1 true)"))
	require.Error(t, err)
	require.True(t, diagnostics.Is(err, diagnostics.ErrMismatch))
}

func TestInferPolymorphicIdentityViaLet(t *testing.T) {
	s := infer.NewState()
	e := elaborate(t, "(let ((id (func (x) x))) (if (id true) (id 1) (id 2)))")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)
	requireIdentical(t, types.Integer, s.Substitute(m))
}

func TestInferCurrying(t *testing.T) {
	s := infer.NewState()
	plus := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(plus)))

	e := elaborate(t, "(let ((add (func (x y) (+ x y))) (inc (add 1))) (inc 41))")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)
	requireIdentical(t, types.Integer, s.Substitute(m))
}

func TestInferRecursiveFactorial(t *testing.T) {
	s := infer.NewState()
	arith := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	cmp := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Boolean))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(arith)))
	require.NoError(t, s.Vars.Define("-", types.MonoPoly(arith)))
	require.NoError(t, s.Vars.Define("*", types.MonoPoly(arith)))
	require.NoError(t, s.Vars.Define("=", types.MonoPoly(cmp)))

	e := elaborate(t, "(let ((fact (func (n) (if (= n 0) 1 (* n (fact (- n 1))))))) (fact 5))")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)
	requireIdentical(t, types.Integer, s.Substitute(m))
}

func TestInferRecordSelection(t *testing.T) {
	s := infer.NewState()
	arith := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(arith)))

	e := elaborate(t, "((func (r) (.x r)) (record (x 1) (y 2)))")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)
	requireIdentical(t, types.Integer, s.Substitute(m))
}

func TestInferMissingFieldFails(t *testing.T) {
	s := infer.NewState()
	e := elaborate(t, "((func (r) (.x r)) (record (y 2)))")
	_, err := infer.Infer(s, e)
	require.Error(t, err)
	require.True(t, diagnostics.Is(err, diagnostics.ErrMissingField))
}

func TestInferOccursCheckFails(t *testing.T) {
	s := infer.NewState()
	e := elaborate(t, "(let ((f (func (x) (x x)))) f)")
	_, err := infer.Infer(s, e)
	require.Error(t, err)
	require.True(t, diagnostics.Is(err, diagnostics.ErrOccursCheck))
}

func TestInferUnboundVariableFails(t *testing.T) {
	s := infer.NewState()
	_, err := infer.Infer(s, elaborate(t, "nope"))
	require.Error(t, err)
	require.True(t, diagnostics.Is(err, diagnostics.ErrUnbound))
}

func TestInferUse(t *testing.T) {
	s := infer.NewState()
	arith := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(arith)))

	e := elaborate(t, "(use (record (x 1) (y 2)) (+ x y))")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)
	requireIdentical(t, types.Integer, s.Substitute(m))
}

func TestInferDefPersistsBinding(t *testing.T) {
	s := infer.NewState()
	_, err := infer.Infer(s, elaborate(t, "(def one 1)"))
	require.NoError(t, err)

	p, ok := s.Vars.Find("one")
	require.True(t, ok)
	requireIdentical(t, types.Integer, s.Instantiate(p))
}

func TestInferDefRecursiveFunction(t *testing.T) {
	s := infer.NewState()
	arith := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Integer))
	cmp := types.Arrow(types.Integer, types.Arrow(types.Integer, types.Boolean))
	require.NoError(t, s.Vars.Define("+", types.MonoPoly(arith)))
	require.NoError(t, s.Vars.Define("-", types.MonoPoly(arith)))
	require.NoError(t, s.Vars.Define("*", types.MonoPoly(arith)))
	require.NoError(t, s.Vars.Define("=", types.MonoPoly(cmp)))

	_, err := infer.Infer(s, elaborate(t, "(def fact (func (n) (if (= n 0) 1 (* n (fact (- n 1))))))"))
	require.NoError(t, err)

	m, err := infer.Infer(s, elaborate(t, "(fact 5)"))
	require.NoError(t, err)
	requireIdentical(t, types.Integer, s.Substitute(m))
}

type stubImporter struct {
	pkgs map[string]types.Poly
}

func (si stubImporter) Import(name string) (types.Poly, error) {
	p, ok := si.pkgs[name]
	if !ok {
		return types.Poly{}, diagnostics.New(diagnostics.ErrUnbound, "no such package %q", name)
	}
	return p, nil
}

func TestInferImport(t *testing.T) {
	s := infer.NewState()
	s.Importer = stubImporter{pkgs: map[string]types.Poly{
		"math": types.MonoPoly(types.RecordOf(types.ExtRow("pi", types.Real, types.Empty))),
	}}

	_, err := infer.Infer(s, elaborate(t, "(import math)"))
	require.NoError(t, err)

	e := elaborate(t, "(.pi math)")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)
	requireIdentical(t, types.Real, s.Substitute(m))
}

func TestInferImportRejectsRedefinition(t *testing.T) {
	s := infer.NewState()
	s.Importer = stubImporter{pkgs: map[string]types.Poly{
		"math": types.MonoPoly(types.Unit),
	}}
	require.NoError(t, s.Vars.Define("math", types.MonoPoly(types.Unit)))

	_, err := infer.Infer(s, elaborate(t, "(import math)"))
	require.Error(t, err)
	require.True(t, diagnostics.Is(err, diagnostics.ErrRedefined))
}

// registerPoint wires a nominal record type Point{x: integer, y: integer}
// into s the way a product declaration would: a variable binding of
// polytype type(Point) >>= type({x: integer, y: integer}).
func registerPoint(t *testing.T, s *infer.State) *types.Cst {
	t.Helper()
	point := types.NewCst("Point", kind.Term)
	row := types.ExtRow("x", types.Integer, types.ExtRow("y", types.Integer, types.Empty))
	sig := types.MonoPoly(types.Arrow(types.TypeOf(point), types.TypeOf(types.RecordOf(row))))
	require.NoError(t, s.Vars.Define("Point", sig))
	return point
}

func TestInferMake(t *testing.T) {
	s := infer.NewState()
	registerPoint(t, s)

	e := elaborate(t, "(make Point (x 1) (y 2))")
	m, err := infer.Infer(s, e)
	require.NoError(t, err)

	c, ok := s.Substitute(m).(*types.Cst)
	require.True(t, ok)
	require.Equal(t, "Point", c.Name)
}

func TestInferMakeMissingSignatureFails(t *testing.T) {
	s := infer.NewState()
	e := elaborate(t, "(make Nowhere (x 1))")
	_, err := infer.Infer(s, e)
	require.Error(t, err)
}
