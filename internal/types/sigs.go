package types

// Signatures is the parent-chained table of nominal-type signatures,
// keyed by type constructor constant: for a nominal constant cst of kind
// κ1 >>= ... >>= *, it holds the polytype (outer -> inner) relating
// cst's applications to their underlying structure. The built-ins
// register these (Func, Ty, maybe, list); internal/infer reads them to
// unwrap typed arguments and during application retries. `make` does not
// consult this table: it looks the type name up among ordinary
// variables. Grounded on original_source/type.hpp's state::sigs_type;
// each child scope chains to its parent rather than copying it.
type Signatures struct {
	parent *Signatures
	table  map[*Cst]Poly
}

// NewSignatures creates a root signature table.
func NewSignatures() *Signatures {
	return &Signatures{table: map[*Cst]Poly{}}
}

// Child creates a scope backed by parent, seeing every signature already
// registered there plus whatever gets registered locally.
func (s *Signatures) Child() *Signatures {
	return &Signatures{parent: s, table: map[*Cst]Poly{}}
}

// Define registers sig as the signature for c in this scope.
func (s *Signatures) Define(c *Cst, sig Poly) {
	s.table[c] = sig
}

// Find looks up c's signature, walking up the parent chain. ok is false
// if no scope has registered one.
func (s *Signatures) Find(c *Cst) (Poly, bool) {
	if p, ok := s.table[c]; ok {
		return p, true
	}
	if s.parent != nil {
		return s.parent.Find(c)
	}
	return Poly{}, false
}
