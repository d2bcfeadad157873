// Package modcache resolves `import`ed package names to source files on a
// search path and remembers, across process runs, the content hash each
// package was last loaded with. No direct teacher analogue exists — funxy
// resolves its own imports purely in memory — so this package is grounded
// on original_source/package.hpp's `package::path`/`package::resolve`
// (a list of search roots, first match wins) for the resolution half, and
// is new infrastructure for the persistence half, wired against
// modernc.org/sqlite (a pack dependency with no other natural home in
// this module) and github.com/bmatcuk/doublestar/v4 for the glob search.
package modcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	_ "modernc.org/sqlite"

	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/session"
)

// Cache implements session.Resolver: `import name` finds name.wisp under
// SearchPaths (original_source/package.cpp's resolve-by-search-path
// behavior), executes it into a fresh session.Package, and memoizes the
// result for this process's lifetime. Every successful load is also
// recorded in a small sqlite database keyed by package name, so a
// long-running process (a REPL, a watch-mode build) can later ask
// whether a package's source changed since it was last loaded.
type Cache struct {
	db          *sql.DB
	SearchPaths []string

	loaded map[string]*session.Package
}

// Open creates (or reuses) the sqlite database at dbPath and returns a
// Cache searching searchPaths in order.
func Open(dbPath string, searchPaths []string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`create table if not exists imports (
		name text primary key,
		path text not null,
		hash text not null,
		loaded_at integer not null
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db, SearchPaths: searchPaths, loaded: map[string]*session.Package{}}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Resolve implements session.Resolver.
func (c *Cache) Resolve(name string) (*session.Package, error) {
	if p, ok := c.loaded[name]; ok {
		return p, nil
	}

	path, err := c.find(name)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostics.New(diagnostics.ErrUnbound, "cannot read package %q at %s: %v", name, path, err)
	}

	pkg, err := session.New(name)
	if err != nil {
		return nil, err
	}
	pkg.Resolver = c

	if _, err := pkg.Exec(string(src)); err != nil {
		return nil, err
	}

	c.loaded[name] = pkg
	c.record(name, path, src)
	return pkg, nil
}

// find walks SearchPaths in order, glob-matching "**/name.wisp" under
// each root (bmatcuk/doublestar/v4), and returns the first hit.
func (c *Cache) find(name string) (string, error) {
	for _, root := range c.SearchPaths {
		matches, err := doublestar.Glob(os.DirFS(root), "**/"+name+".wisp")
		if err != nil {
			continue
		}
		if len(matches) > 0 {
			return filepath.Join(root, matches[0]), nil
		}
	}
	return "", diagnostics.New(diagnostics.ErrUnbound, "no package named %q found on the module path", name)
}

func (c *Cache) record(name, path string, src []byte) {
	sum := sha256.Sum256(src)
	hash := hex.EncodeToString(sum[:])
	_, _ = c.db.Exec(`insert into imports(name, path, hash, loaded_at) values(?, ?, ?, ?)
		on conflict(name) do update set path = excluded.path, hash = excluded.hash, loaded_at = excluded.loaded_at`,
		name, path, hash, time.Now().Unix())
}

// Changed reports whether name's recorded content hash differs from (or
// is absent for) the given source bytes — used by a watch-mode build to
// decide whether a package needs re-checking.
func (c *Cache) Changed(name string, src []byte) (bool, error) {
	sum := sha256.Sum256(src)
	hash := hex.EncodeToString(sum[:])

	var stored string
	err := c.db.QueryRow(`select hash from imports where name = ?`, name).Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return stored != hash, nil
}
