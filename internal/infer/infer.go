package infer

import (
	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/kind"
	"github.com/wisplang/wisp/internal/types"
)

// Infer computes the monotype of e against s, mutating s.Sub with every
// constraint discovered along the way. Grounded on
// original_source/type.cpp's infer_visitor, one case per node kind rather
// than a visitor double-dispatch.
func Infer(s *State, e ast.Expr) (types.Mono, error) {
	switch node := e.(type) {
	case *ast.Lit:
		return inferLit(node), nil
	case *ast.Var:
		return inferVar(s, node)
	case *ast.Sel:
		return inferSel(s, node), nil
	case *ast.Abs:
		return inferAbs(s, node)
	case *ast.App:
		return inferApp(s, node)
	case *ast.Cond:
		return inferCond(s, node)
	case *ast.Record:
		return inferRecord(s, node)
	case *ast.Let:
		return inferLet(s, node)
	case *ast.Def:
		return inferDef(s, node)
	case *ast.Use:
		return inferUse(s, node)
	case *ast.Import:
		return inferImport(s, node)
	case *ast.Make:
		return inferMake(s, node)
	case *ast.Seq:
		return inferSeq(s, node)
	case *ast.Match, *ast.Module, *ast.Inj:
		return nil, diagnostics.New(diagnostics.ErrForm,
			"this form is not supported by inference yet")
	default:
		return nil, diagnostics.New(diagnostics.ErrForm, "unrecognized AST node")
	}
}

func inferLit(lit *ast.Lit) types.Mono {
	switch lit.Kind {
	case ast.LitUnit:
		return types.Unit
	case ast.LitBoolean:
		return types.Boolean
	case ast.LitInteger:
		return types.Integer
	case ast.LitReal:
		return types.Real
	default:
		panic("infer: unrecognized literal kind")
	}
}

func inferVar(s *State, v *ast.Var) (types.Mono, error) {
	p, ok := s.Vars.Find(v.Name)
	if !ok {
		return nil, diagnostics.New(diagnostics.ErrUnbound, "unbound variable %q", v.Name)
	}
	return s.Instantiate(p), nil
}

// sel a: fresh α:*, ρ:@; type is record(ext(a)(α)(ρ)) >>= α.
func inferSel(s *State, sel *ast.Sel) types.Mono {
	alpha := s.Fresh(kind.Term)
	rho := s.Fresh(kind.Row)
	row := types.ExtRow(sel.Name, alpha, rho)
	return types.Arrow(types.RecordOf(row), alpha)
}

func inferCond(s *State, c *ast.Cond) (types.Mono, error) {
	test, err := Infer(s, c.Test)
	if err != nil {
		return nil, err
	}
	if err := s.Unify(test, types.Boolean); err != nil {
		return nil, err
	}

	conseq, err := Infer(s, c.Conseq)
	if err != nil {
		return nil, err
	}
	alt, err := Infer(s, c.Alt)
	if err != nil {
		return nil, err
	}

	result := s.Fresh(kind.Term)
	if err := s.Unify(result, conseq); err != nil {
		return nil, err
	}
	if err := s.Unify(result, alt); err != nil {
		return nil, err
	}
	return result, nil
}

func inferRecord(s *State, r *ast.Record) (types.Mono, error) {
	row := types.Empty
	for i := len(r.Attrs) - 1; i >= 0; i-- {
		attr := r.Attrs[i]
		t, err := Infer(s, attr.Value)
		if err != nil {
			return nil, err
		}
		row = types.ExtRow(attr.Name, t, row)
	}
	return types.RecordOf(row), nil
}

func inferSeq(s *State, seq *ast.Seq) (types.Mono, error) {
	if len(seq.Items) == 0 {
		return types.Unit, nil
	}
	var result types.Mono
	for _, item := range seq.Items {
		t, err := Infer(s, item)
		if err != nil {
			return nil, err
		}
		result = t
	}
	return result, nil
}

// inferAbs implements the `abs` rule (spec.md §4.5). result is allocated
// at the PARENT level, before the child scope is opened — a deliberate
// level placement (mirroring original_source/type.cpp's abs case) that
// keeps the lambda's return-type variable no deeper than the enclosing
// scope, while each argument's internal variables are born one level
// deeper in the child scope and so generalize correctly when the whole
// abstraction is later let-bound.
func inferAbs(s *State, abs *ast.Abs) (types.Mono, error) {
	result := s.Fresh(kind.Term)
	child := s.Scope()

	outers := make([]types.Mono, len(abs.Args))
	for i, arg := range abs.Args {
		outer, inner, err := inferArg(child, arg)
		if err != nil {
			return nil, err
		}
		outers[i] = outer
		if err := child.Vars.Define(arg.Name, types.MonoPoly(inner)); err != nil {
			return nil, err
		}
	}

	body, err := Infer(child, abs.Body)
	if err != nil {
		return nil, err
	}
	if err := s.Unify(result, body); err != nil {
		return nil, err
	}

	return chainArrow(outers, result), nil
}

// inferArg computes an argument's external (outer, visible in the
// function's arrow type) and internal (inner, bound inside the body)
// monotypes. An untyped argument has outer == inner, a fresh variable.
// A typed argument `(t x)` reifies t, reconstructs the monotype it
// names, and — if that type's head constructor has a registered
// coercion signature (outer >>= inner) — binds the body to the
// unwrapped inner shape while keeping the nominal outer shape visible
// externally (spec.md §4.5's typed-argument rule).
func inferArg(child *State, arg ast.Arg) (outer, inner types.Mono, err error) {
	if arg.Type == nil {
		a := child.Fresh(kind.Term)
		return a, a, nil
	}

	reified, err := Infer(child, arg.Type)
	if err != nil {
		return nil, nil, err
	}
	u, err := reconstruct(child, reified)
	if err != nil {
		return nil, nil, err
	}

	if unwrapped, ok, err := unwrapSignature(child, u); err != nil {
		return nil, nil, err
	} else if ok {
		return u, unwrapped, nil
	}
	return u, u, nil
}

// inferApp implements the `app` rule (spec.md §4.5), including its
// speculative coercion retries.
func inferApp(s *State, app *ast.App) (types.Mono, error) {
	funcType, err := Infer(s, app.Func)
	if err != nil {
		return nil, err
	}
	argTypes := make([]types.Mono, len(app.Args))
	for i, a := range app.Args {
		t, err := Infer(s, a)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}
	return applyWithRetry(s, funcType, argTypes)
}

// inferLet implements the `let` rule (spec.md §4.5): every lambda-valued
// binding is rewritten, via a `fix` combinator bound in an intermediate
// scope, into a self-referential non-recursive binding. Bindings get
// let*-style sequential visibility: each binding's value is inferred
// against bindScope (not fixScope), after every earlier sibling has
// already been defined into it, so `(let ((add ...) (inc (add 1))) ...)`
// sees `add` while inferring `inc`'s value — matching
// internal/ir/lower.go's compileLet, which pre-allocates all local slots
// before compiling any binding's value and so already gives later
// bindings visibility of earlier ones.
func inferLet(s *State, let *ast.Let) (types.Mono, error) {
	fixScope := s.Scope()
	a := fixScope.Fresh(kind.Term)
	if err := fixScope.Vars.Define(config.FixName,
		fixScope.Generalize(types.Arrow(types.Arrow(a, a), a))); err != nil {
		return nil, err
	}

	bindScope := fixScope.Scope()
	for _, def := range let.Defs {
		value := rewriteRecursiveBinding(def)
		t, err := Infer(bindScope, value)
		if err != nil {
			return nil, err
		}
		if err := bindScope.Vars.Define(def.Name, bindScope.Generalize(t)); err != nil {
			return nil, err
		}
	}

	return Infer(bindScope, let.Body)
}

// rewriteRecursiveBinding rewrites a lambda-valued let binding `x = e`
// into `x = fix (func (x) e)`, letting e refer to its own binding name
// as a fresh argument of the wrapping lambda. Non-lambda bindings pass
// through unchanged — they cannot be directly recursive.
func rewriteRecursiveBinding(def ast.Bind) ast.Expr {
	if _, ok := def.Value.(*ast.Abs); !ok {
		return def.Value
	}
	wrapper := &ast.Abs{Args: []ast.Arg{{Name: def.Name}}, Body: def.Value}
	return &ast.App{
		Func: &ast.Var{Name: config.FixName},
		Args: []ast.Expr{wrapper},
	}
}

// inferDef implements the `def` rule: behaves like inferring a
// single-binding let whose body is just that binding's name, then
// persists the resulting generalized type permanently into s (rather
// than a transient child scope) — giving top-level definitions the same
// fix-based self-reference support as a let binding.
func inferDef(s *State, def *ast.Def) (types.Mono, error) {
	synthetic := &ast.Let{
		Defs: []ast.Bind{{Name: def.Name, Value: def.Value}},
		Body: &ast.Var{Name: def.Name},
	}
	value, err := Infer(s, synthetic)
	if err != nil {
		return nil, err
	}
	if err := s.Def(def.Name, value); err != nil {
		return nil, err
	}
	return types.IOOf(types.Unit), nil
}

// inferUse implements the `use` rule: env must infer to a record; each
// of its zonked fields is bound, monomorphically, into a child scope
// body is then inferred in.
func inferUse(s *State, use *ast.Use) (types.Mono, error) {
	value, err := Infer(s, use.Env)
	if err != nil {
		return nil, err
	}
	row := s.Fresh(kind.Row)
	if err := s.Unify(value, types.RecordOf(row)); err != nil {
		return nil, err
	}

	child := s.Scope()
	fields := types.RowFields(s.Substitute(row))
	for attr, t := range fields {
		if err := child.Vars.Define(attr, types.MonoPoly(t)); err != nil {
			return nil, err
		}
	}
	return Infer(child, use.Body)
}

// inferImport implements the `import` rule: the package's exported
// bindings are looked up through s.Importer and bound by name at this
// exact scope. Fails if the name is already locally bound.
func inferImport(s *State, imp *ast.Import) (types.Mono, error) {
	if s.Importer == nil {
		return nil, diagnostics.New(diagnostics.ErrUnbound, "no importer configured for package %q", imp.Package)
	}
	sig, err := s.Importer.Import(imp.Package)
	if err != nil {
		return nil, err
	}
	if err := s.Vars.Define(imp.Package, sig); err != nil {
		return nil, err
	}
	return types.IOOf(types.Unit), nil
}
