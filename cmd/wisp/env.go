package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/modcache"
	"github.com/wisplang/wisp/internal/session"
)

// isStderrTTY reports whether stderr is attached to a terminal
// (github.com/mattn/go-isatty), deciding whether diagnostics get ANSI
// color codes.
func isStderrTTY() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// newSession builds a Package honoring the project's .wisprc.yaml
// (internal/config) and the WISP_MODULE_PATH / WISP_PRELUDE environment
// variables, which take precedence over the config file and may come
// from a .env file loaded by main's godotenv.Load() call. The returned
// *modcache.Cache, if non-nil, owns a sqlite handle the caller must
// Close().
func newSession(name string) (*session.Package, *modcache.Cache, error) {
	proj, err := config.LoadProject(".wisprc.yaml")
	if err != nil {
		return nil, nil, err
	}

	var pkg *session.Package
	if preludeEnabled(proj) {
		pkg, err = session.New(name)
	} else {
		pkg, err = session.NewBare(name)
	}
	if err != nil {
		return nil, nil, err
	}

	paths := modulePath(proj)
	if len(paths) == 0 {
		return pkg, nil, nil
	}

	dbPath := cacheFile()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, nil, err
	}
	cache, err := modcache.Open(dbPath, paths)
	if err != nil {
		return nil, nil, err
	}
	pkg.Resolver = cache
	return pkg, cache, nil
}

func preludeEnabled(proj config.Project) bool {
	switch os.Getenv("WISP_PRELUDE") {
	case "0", "false":
		return false
	case "1", "true":
		return true
	default:
		return proj.PreludeEnabled()
	}
}

// modulePath resolves WISP_MODULE_PATH (OS path-list-separated) over the
// project config's modulePath list.
func modulePath(proj config.Project) []string {
	if raw := os.Getenv("WISP_MODULE_PATH"); raw != "" {
		return strings.Split(raw, string(os.PathListSeparator))
	}
	return proj.ModulePath
}

func cacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "wisp-modcache.db")
	}
	return filepath.Join(dir, "wisp", "modcache.db")
}
