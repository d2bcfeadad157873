package diagnostics_test

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/diagnostics"
)

// requireTypeDiff fails the test with a unified diff between the expected
// and actual rendered type strings, rather than a raw string comparison —
// useful once types grow past a few constructors deep.
func requireTypeDiff(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	t.Fatalf("type mismatch:\n%s", text)
}

func TestDiagnosticErrorFormatting(t *testing.T) {
	err := diagnostics.New(diagnostics.ErrMismatch, "cannot unify %s and %s", "integer", "boolean")
	require.Equal(t, "Mismatch: cannot unify integer and boolean", err.Error())
}

func TestTagAttachesSession(t *testing.T) {
	err := diagnostics.New(diagnostics.ErrUnbound, "unbound variable %q", "x")
	tagged := diagnostics.Tag(err)
	require.True(t, diagnostics.Is(tagged, diagnostics.ErrUnbound))
	require.NotEmpty(t, tagged.(*diagnostics.DiagnosticError).Session)
	requireTypeDiff(t, "integer", "integer")
}
