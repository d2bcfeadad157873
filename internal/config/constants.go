// Package config holds reserved-word tables, syntax prefixes, and small
// runtime toggles shared across the pipeline, mirroring funxy's
// internal/config/constants.go.
package config

// IsTestMode is a test-setup toggle. No code in this module reads it:
// type-variable names in String() output are always the allocation-order
// names (!t1, !t2, ...).
var IsTestMode = false

// ReservedWords cannot be used as variable names: elaboration rejects them
// as variable references, function arguments, and let or def names
// (spec.md §3.2). Record-field and import names are not checked.
var ReservedWords = map[string]bool{
	"func": true, "let": true, "do": true, "def": true, "if": true,
	"record": true, "match": true, "make": true, "use": true,
	"import": true, "product": true, "coproduct": true, "_": true,
}

// IsReserved reports whether name is a reserved keyword.
func IsReserved(name string) bool {
	return ReservedWords[name]
}

// SelectionPrefix introduces a record-selector symbol: ".foo" parses to
// (sel foo).
const SelectionPrefix = '.'

// InjectionPrefix introduces a sum-injection symbol: "|foo" parses to
// (inj foo). Injection is parsed but not evaluated (SPEC_FULL.md §2).
const InjectionPrefix = '|'

// SourceFileExt is the canonical wisp source file extension.
const SourceFileExt = ".wisp"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".wisp", ".wsp"}

// HasSourceExt reports whether path ends in a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// FixName is the identifier bound, during let-rewriting (spec.md §4.5,
// rule for recursive `let`), to the fixpoint combinator used to desugar a
// recursive let into a non-recursive one. It is not a surface-syntax
// reserved word: the reader accepts `__fix__` as an ordinary symbol, so
// source text can refer to the same name.
const FixName = "__fix__"
