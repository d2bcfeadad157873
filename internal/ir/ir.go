// Package ir implements the small intermediate representation lowering
// resolves lexical names into (spec.md §3.7, §4.6): explicit local/capture/
// global resolution, closure construction with ordered captures, and
// scoped lets. Grounded on original_source/ir.hpp's node shapes and
// ir.cpp's compile() family, restructured as a tagged interface in the
// style of internal/ast rather than a C++ variant.
package ir

// Expr is a node of the intermediate representation (spec.md §3.7).
type Expr interface {
	isExpr()
}

// LitKind mirrors ast.LitKind for the subset of literals the IR carries
// (strings are reserved for future builtin use; spec.md §3.7 lists it in
// the VM value union even though no surface syntax produces one yet).
type LitKind int

const (
	LitUnit LitKind = iota
	LitBoolean
	LitInteger
	LitReal
	LitString
)

// Lit is a constant value baked into the IR at lowering time.
type Lit struct {
	Kind LitKind
	Bool bool
	Int  int64
	Real float64
	Str  string
}

func (*Lit) isExpr() {}

// Local is a reference to the i'th value in the current call frame: an
// argument or a let-bound local (spec.md §4.6, §4.7).
type Local struct {
	Index int
}

func (*Local) isExpr() {}

// Capture is a reference to the i'th value captured by the enclosing
// closure at creation time.
type Capture struct {
	Index int
}

func (*Capture) isExpr() {}

// Global is a reference to a top-level binding by name.
type Global struct {
	Name string
}

func (*Global) isExpr() {}

// Seq evaluates Items in order; its value is the value of the last item
// (or unit, for an empty sequence). Grounded on original_source/ir.hpp's
// `seq` node.
type Seq struct {
	Items []Expr
}

func (*Seq) isExpr() {}

// Scope is a let: each of Defs is evaluated in order and bound to the next
// local slot (pre-allocated before any of them run, so a lambda-valued def
// may refer to its own slot for recursion), then Body is evaluated in that
// extended frame. Grounded on original_source/ir.hpp's `scope` node
// (defs + value).
type Scope struct {
	Defs []Expr
	Body Expr
}

func (*Scope) isExpr() {}

// Call evaluates Func, then each of Args left to right, then dispatches
// through apply/saturation (spec.md §4.7.1).
type Call struct {
	Func Expr
	Args []Expr
}

func (*Call) isExpr() {}

// Closure builds a closure value at evaluation time: Captures is the
// ordered list of IR expressions evaluated in the ENCLOSING frame to
// populate the new closure's capture array (spec.md §3.7, §4.6).
type Closure struct {
	Argc     int
	Captures []Expr
	Body     Expr
}

func (*Closure) isExpr() {}

// Cond evaluates Test; if true evaluates Then, else Else.
type Cond struct {
	Test, Then, Else Expr
}

func (*Cond) isExpr() {}

// Def pops the top of the evaluation stack and binds it to Name in the
// VM's globals (top-level only; spec.md §4.6).
type Def struct {
	Name string
}

func (*Def) isExpr() {}

// Import loads a package and leaves its value ready for the paired Def to
// bind (top-level only).
type Import struct {
	Package string
}

func (*Import) isExpr() {}

// Use evaluates Env to a record value, temporarily installs its fields
// into the VM's globals, evaluates Body, then restores the prior globals
// (top-level only — SPEC_FULL.md's resolution of the source's unfinished
// "use" support).
type Use struct {
	Env  Expr
	Body Expr
}

func (*Use) isExpr() {}

// Sel pops a record value and pushes its Attr field (the optimized
// lowering of an application whose function position is a bare selector,
// spec.md §4.6).
type Sel struct {
	Attr string
}

func (*Sel) isExpr() {}

// RecordAttr is one field of a Record construction.
type RecordAttr struct {
	Name  string
	Value Expr
}

// Record builds a record value from its (evaluated) attributes. Both
// `record` and `make` AST forms lower to this node (SPEC_FULL.md §1 —
// `make`'s nominal wrapper carries no distinct runtime representation).
type Record struct {
	Attrs []RecordAttr
}

func (*Record) isExpr() {}
