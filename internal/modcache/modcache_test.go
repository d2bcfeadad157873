package modcache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wisplang/wisp/internal/modcache"
	"github.com/wisplang/wisp/internal/vm"
)

func writePackage(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".wisp"), []byte(src), 0o644))
}

func TestResolveFindsAndExecutesPackageOnSearchPath(t *testing.T) {
	root := t.TempDir()
	writePackage(t, filepath.Join(root, "nested"), "math", "(def pi 3)")

	c, err := modcache.Open(filepath.Join(root, "cache.db"), []string{root})
	require.NoError(t, err)
	defer c.Close()

	pkg, err := c.Resolve("math")
	require.NoError(t, err)
	require.Equal(t, vm.IntVal(3), pkg.VM.Globals["pi"])
}

func TestResolveMemoizesWithinProcess(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "math", "(def pi 3)")

	c, err := modcache.Open(filepath.Join(root, "cache.db"), []string{root})
	require.NoError(t, err)
	defer c.Close()

	first, err := c.Resolve("math")
	require.NoError(t, err)
	second, err := c.Resolve("math")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestResolveMissingPackageErrors(t *testing.T) {
	root := t.TempDir()
	c, err := modcache.Open(filepath.Join(root, "cache.db"), []string{root})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Resolve("nope")
	require.Error(t, err)
}

func TestChangedDetectsModifiedSource(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "math", "(def pi 3)")

	c, err := modcache.Open(filepath.Join(root, "cache.db"), []string{root})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Resolve("math")
	require.NoError(t, err)

	changed, err := c.Changed("math", []byte("(def pi 3)"))
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = c.Changed("math", []byte("(def pi 4)"))
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = c.Changed("geometry", []byte("(def tau 6)"))
	require.NoError(t, err)
	require.True(t, changed)
}
