// Package kind implements the kind system: the "type of a type".
//
// A kind is either the constant "term" kind (classifying proper types like
// integer or boolean), the constant "row" kind (classifying record/sum
// rows), or an arrow between two kinds (classifying type constructors).
package kind

import "fmt"

// Kind is the type of a type: a constant (term, row) or an arrow between
// two kinds.
type Kind interface {
	String() string
	Equal(other Kind) bool
	isKind()
}

// Const is a nominal kind constant. The system uses exactly two canonical
// constants, Term and Row, but Const is not restricted to them.
type Const struct {
	Name string
}

func (Const) isKind() {}

func (c Const) String() string { return c.Name }

func (c Const) Equal(other Kind) bool {
	o, ok := other.(Const)
	return ok && o.Name == c.Name
}

// Arrow is the kind of a type constructor from From to To. Arrow is
// right-associative: From >>= (To1 >>= To2) is built by nesting Arrow.
type Arrow struct {
	From Kind
	To   Kind
}

func (Arrow) isKind() {}

func (a Arrow) String() string {
	return fmt.Sprintf("(%s >>= %s)", a.From.String(), a.To.String())
}

func (a Arrow) Equal(other Kind) bool {
	o, ok := other.(Arrow)
	return ok && a.From.Equal(o.From) && a.To.Equal(o.To)
}

// Term is the kind of proper types (integer, boolean, record r, ...).
var Term Kind = Const{Name: "*"}

// Row is the kind of record/sum rows.
var Row Kind = Const{Name: "@"}

// MakeArrow builds a right-associative n-ary arrow kind out of its
// arguments: MakeArrow(k1, k2, k3) == Arrow{k1, Arrow{k2, k3}}.
// MakeArrow with a single argument returns it unchanged; MakeArrow() is
// invalid and panics, since a kind expression needs at least one kind.
func MakeArrow(ks ...Kind) Kind {
	if len(ks) == 0 {
		panic("kind.MakeArrow: no kinds given")
	}
	if len(ks) == 1 {
		return ks[0]
	}
	return Arrow{From: ks[0], To: MakeArrow(ks[1:]...)}
}
