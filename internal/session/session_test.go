package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/session"
	"github.com/wisplang/wisp/internal/types"
	"github.com/wisplang/wisp/internal/vm"
)

func TestExecSingleExpression(t *testing.T) {
	p, err := session.New("main")
	require.NoError(t, err)

	results, err := p.Exec("(+ 1 2)")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, vm.IntVal(3), results[0].Value)
}

func TestExecDefPersistsAcrossForms(t *testing.T) {
	p, err := session.New("main")
	require.NoError(t, err)

	_, err = p.Exec("(def double (func (x) (* x 2)))")
	require.NoError(t, err)

	results, err := p.Exec("(double 21)")
	require.NoError(t, err)
	require.Equal(t, vm.IntVal(42), results[0].Value)
}

func TestExecMultipleFormsInOneSource(t *testing.T) {
	p, err := session.New("main")
	require.NoError(t, err)

	results, err := p.Exec("(def x 1) (def y 2) (+ x y)")
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, vm.IntVal(3), results[2].Value)
}

func TestExecReportsErrorWithSessionTag(t *testing.T) {
	p, err := session.New("main")
	require.NoError(t, err)

	_, err = p.Exec("nope")
	require.Error(t, err)
	require.True(t, diagnostics.Is(err, diagnostics.ErrUnbound))
	de, ok := err.(*diagnostics.DiagnosticError)
	require.True(t, ok)
	require.NotEmpty(t, de.Session)
}

type stubResolver struct {
	packages map[string]*session.Package
}

func (r stubResolver) Resolve(name string) (*session.Package, error) {
	pkg, ok := r.packages[name]
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnbound, "no such package %q", name)
	}
	return pkg, nil
}

func TestExecImportBindsAnotherPackagesExports(t *testing.T) {
	math, err := session.New("math")
	require.NoError(t, err)
	_, err = math.Exec("(def pi 3)")
	require.NoError(t, err)

	main, err := session.New("main")
	require.NoError(t, err)
	main.Resolver = stubResolver{packages: map[string]*session.Package{"math": math}}

	results, err := main.Exec("(import math) (.pi math)")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, vm.IntVal(3), results[1].Value)
}

func TestSignatureGeneralizesExportedBindings(t *testing.T) {
	p, err := session.New("id-pkg")
	require.NoError(t, err)
	_, err = p.Exec("(def id (func (x) x))")
	require.NoError(t, err)

	sig := p.Signature()
	require.NotEmpty(t, sig.Forall)
	record, ok := sig.Body.(*types.App)
	require.True(t, ok)
	require.True(t, types.Identical(types.Record, record.Ctor))
}
