package ast

import (
	"strings"

	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/sexpr"
)

// Check elaborates one S-expression into an AST node (spec.md §3.2, §6.2).
// Grounded on original_source/ast.cpp's expr::check dispatch (special-form
// table lookup on the list head, reserved-keyword rejection, and the `:`/
// `.` prefix handling for symbol atoms), extended with the record/use/
// import/make/match/product/coproduct forms spec.md adds beyond what
// ast.cpp's earlier, partial table implements.
func Check(e sexpr.SExpr) (Expr, error) {
	switch e.Kind {
	case sexpr.Integer:
		return &Lit{Kind: LitInteger, Int: e.IntVal}, nil
	case sexpr.Real:
		return &Lit{Kind: LitReal, Real: e.RealVal}, nil
	case sexpr.Boolean:
		return &Lit{Kind: LitBoolean, Bool: e.BoolVal}, nil
	case sexpr.Symbol:
		return checkSymbolAtom(e.Symbol().String())
	case sexpr.List:
		return checkList(e.Items)
	default:
		return nil, diagnostics.New(diagnostics.ErrSyntax, "unrecognized S-expression kind")
	}
}

// CheckAll elaborates a sequence of top-level forms.
func CheckAll(forms []sexpr.SExpr) ([]Expr, error) {
	out := make([]Expr, 0, len(forms))
	for _, f := range forms {
		e, err := Check(f)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func checkSymbolAtom(name string) (Expr, error) {
	if config.IsReserved(name) {
		return nil, diagnostics.New(diagnostics.ErrReservedIdentifier,
			"%q is a reserved keyword and cannot be used as a variable name", name)
	}

	if name[0] == byte(config.SelectionPrefix) {
		attr := name[1:]
		if attr == "" {
			return nil, diagnostics.New(diagnostics.ErrSyntax, "empty attribute name")
		}
		return &Sel{Name: attr}, nil
	}

	if name[0] == byte(config.InjectionPrefix) {
		tag := name[1:]
		if tag == "" {
			return nil, diagnostics.New(diagnostics.ErrSyntax, "empty injection tag")
		}
		return &Inj{Name: tag}, nil
	}

	if strings.Contains(name, ".") {
		return checkQualifiedName(name)
	}

	return &Var{Name: name}, nil
}

// checkQualifiedName desugars "a.b.c" into (sel c (sel b a)) — a chain of
// selector applications read left to right (spec.md §6.1).
func checkQualifiedName(name string) (Expr, error) {
	parts := strings.Split(name, ".")
	for _, p := range parts {
		if p == "" {
			return nil, diagnostics.New(diagnostics.ErrSyntax, "malformed qualified name %q", name)
		}
	}
	var result Expr = &Var{Name: parts[0]}
	for _, attr := range parts[1:] {
		result = &App{Func: &Sel{Name: attr}, Args: []Expr{result}}
	}
	return result, nil
}

type specialForm func(args []sexpr.SExpr) (Expr, error)

var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"func":      checkAbs,
		"let":       checkLet,
		"do":        checkSeq,
		"def":       checkDef,
		"if":        checkCond,
		"record":    checkRecord,
		"make":      checkMake,
		"use":       checkUse,
		"import":    checkImport,
		"match":     checkMatch,
		"product":   checkProduct,
		"coproduct": checkCoproduct,
	}
}

func checkList(items []sexpr.SExpr) (Expr, error) {
	if len(items) == 0 {
		return nil, diagnostics.New(diagnostics.ErrForm, "empty list in application")
	}

	if items[0].Kind == sexpr.Symbol {
		name := items[0].Symbol().String()
		if form, ok := specialForms[name]; ok {
			return form(items[1:])
		}
	}

	return checkCall(items)
}

func checkCall(items []sexpr.SExpr) (Expr, error) {
	funcExpr, err := Check(items[0])
	if err != nil {
		return nil, err
	}
	args := make([]Expr, 0, len(items)-1)
	for _, a := range items[1:] {
		ae, err := Check(a)
		if err != nil {
			return nil, err
		}
		args = append(args, ae)
	}
	return &App{Func: funcExpr, Args: args}, nil
}

// checkAbs parses (func (args...) body).
func checkAbs(args []sexpr.SExpr) (Expr, error) {
	if len(args) != 2 {
		return nil, diagnostics.New(diagnostics.ErrForm, "(func (arg...) body)")
	}
	if args[0].Kind != sexpr.List {
		return nil, diagnostics.New(diagnostics.ErrForm, "(func (arg...) body)")
	}

	formals, err := checkArgs(args[0].Items)
	if err != nil {
		return nil, err
	}
	body, err := Check(args[1])
	if err != nil {
		return nil, err
	}
	return &Abs{Args: formals, Body: body}, nil
}

// checkArgs parses an argument list: each element is either a bare symbol
// (untyped argument) or a 2-element list (type-expr name) (typed
// argument).
func checkArgs(items []sexpr.SExpr) ([]Arg, error) {
	out := make([]Arg, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		var arg Arg
		switch it.Kind {
		case sexpr.Symbol:
			arg = Arg{Name: it.Symbol().String()}
		case sexpr.List:
			if len(it.Items) != 2 {
				return nil, diagnostics.New(diagnostics.ErrForm, "(type-expr name)")
			}
			typeExpr, err := Check(it.Items[0])
			if err != nil {
				return nil, err
			}
			if it.Items[1].Kind != sexpr.Symbol {
				return nil, diagnostics.New(diagnostics.ErrForm, "(type-expr name)")
			}
			arg = Arg{Name: it.Items[1].Symbol().String(), Type: typeExpr}
		default:
			return nil, diagnostics.New(diagnostics.ErrForm, "malformed argument")
		}
		if config.IsReserved(arg.Name) {
			return nil, diagnostics.New(diagnostics.ErrReservedIdentifier,
				"%q is a reserved keyword and cannot be used as an argument name", arg.Name)
		}
		if seen[arg.Name] {
			return nil, diagnostics.New(diagnostics.ErrRedefined, "argument %q repeated", arg.Name)
		}
		seen[arg.Name] = true
		out = append(out, arg)
	}
	return out, nil
}

// checkLet parses (let ((name value)...) body).
func checkLet(args []sexpr.SExpr) (Expr, error) {
	if len(args) != 2 || args[0].Kind != sexpr.List {
		return nil, diagnostics.New(diagnostics.ErrForm, "(let ((name expr)...) body)")
	}

	defs, err := checkBindings(args[0].Items)
	if err != nil {
		return nil, err
	}
	body, err := Check(args[1])
	if err != nil {
		return nil, err
	}
	return &Let{Defs: defs, Body: body}, nil
}

func checkBindings(items []sexpr.SExpr) ([]Bind, error) {
	out := make([]Bind, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		if it.Kind != sexpr.List || len(it.Items) != 2 || it.Items[0].Kind != sexpr.Symbol {
			return nil, diagnostics.New(diagnostics.ErrForm, "(name expr)")
		}
		name := it.Items[0].Symbol().String()
		if config.IsReserved(name) {
			return nil, diagnostics.New(diagnostics.ErrReservedIdentifier,
				"%q is a reserved keyword and cannot be bound", name)
		}
		if seen[name] {
			return nil, diagnostics.New(diagnostics.ErrRedefined, "%q bound twice in the same let", name)
		}
		seen[name] = true
		value, err := Check(it.Items[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Bind{Name: name, Value: value})
	}
	return out, nil
}

// checkSeq parses (do item...).
func checkSeq(args []sexpr.SExpr) (Expr, error) {
	items := make([]Expr, 0, len(args))
	for _, a := range args {
		e, err := Check(a)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return &Seq{Items: items}, nil
}

// checkDef parses (def name expr).
func checkDef(args []sexpr.SExpr) (Expr, error) {
	if len(args) != 2 || args[0].Kind != sexpr.Symbol {
		return nil, diagnostics.New(diagnostics.ErrForm, "(def name expr)")
	}
	name := args[0].Symbol().String()
	if config.IsReserved(name) {
		return nil, diagnostics.New(diagnostics.ErrReservedIdentifier,
			"%q is a reserved keyword and cannot be defined", name)
	}
	value, err := Check(args[1])
	if err != nil {
		return nil, err
	}
	return &Def{Name: name, Value: value}, nil
}

// checkCond parses (if test conseq alt).
func checkCond(args []sexpr.SExpr) (Expr, error) {
	if len(args) != 3 {
		return nil, diagnostics.New(diagnostics.ErrForm, "(if test conseq alt)")
	}
	test, err := Check(args[0])
	if err != nil {
		return nil, err
	}
	conseq, err := Check(args[1])
	if err != nil {
		return nil, err
	}
	alt, err := Check(args[2])
	if err != nil {
		return nil, err
	}
	return &Cond{Test: test, Conseq: conseq, Alt: alt}, nil
}

// checkRecord parses (record (name value)...).
func checkRecord(args []sexpr.SExpr) (Expr, error) {
	attrs, err := checkAttrs(args)
	if err != nil {
		return nil, err
	}
	return &Record{Attrs: attrs}, nil
}

func checkAttrs(items []sexpr.SExpr) ([]Attr, error) {
	out := make([]Attr, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		if it.Kind != sexpr.List || len(it.Items) != 2 || it.Items[0].Kind != sexpr.Symbol {
			return nil, diagnostics.New(diagnostics.ErrForm, "(name expr)")
		}
		name := it.Items[0].Symbol().String()
		if seen[name] {
			return nil, diagnostics.New(diagnostics.ErrRedefined, "attribute %q repeated", name)
		}
		seen[name] = true
		value, err := Check(it.Items[1])
		if err != nil {
			return nil, err
		}
		out = append(out, Attr{Name: name, Value: value})
	}
	return out, nil
}

// checkMake parses (make type (name value)...).
func checkMake(args []sexpr.SExpr) (Expr, error) {
	if len(args) < 1 {
		return nil, diagnostics.New(diagnostics.ErrForm, "(make type (name expr)...)")
	}
	typeExpr, err := Check(args[0])
	if err != nil {
		return nil, err
	}
	attrs, err := checkAttrs(args[1:])
	if err != nil {
		return nil, err
	}
	return &Make{Type: typeExpr, Attrs: attrs}, nil
}

// checkUse parses (use env body).
func checkUse(args []sexpr.SExpr) (Expr, error) {
	if len(args) != 2 {
		return nil, diagnostics.New(diagnostics.ErrForm, "(use env body)")
	}
	env, err := Check(args[0])
	if err != nil {
		return nil, err
	}
	body, err := Check(args[1])
	if err != nil {
		return nil, err
	}
	return &Use{Env: env, Body: body}, nil
}

// checkImport parses (import name).
func checkImport(args []sexpr.SExpr) (Expr, error) {
	if len(args) != 1 || args[0].Kind != sexpr.Symbol {
		return nil, diagnostics.New(diagnostics.ErrForm, "(import name)")
	}
	return &Import{Package: args[0].Symbol().String()}, nil
}

// checkMatch parses (match (tag arg expr)...). Never evaluated past
// elaboration (internal/ir rejects Match with FormError) — exhaustiveness
// semantics are an explicit open question spec.md leaves unresolved.
func checkMatch(args []sexpr.SExpr) (Expr, error) {
	cases := make([]MatchCase, 0, len(args))
	for _, a := range args {
		if a.Kind != sexpr.List || len(a.Items) != 3 ||
			a.Items[0].Kind != sexpr.Symbol || a.Items[1].Kind != sexpr.Symbol {
			return nil, diagnostics.New(diagnostics.ErrForm, "(tag arg expr)")
		}
		value, err := Check(a.Items[2])
		if err != nil {
			return nil, err
		}
		cases = append(cases, MatchCase{
			Tag:   a.Items[0].Symbol().String(),
			Arg:   a.Items[1].Symbol().String(),
			Value: value,
		})
	}
	return &Match{Cases: cases}, nil
}

// checkProduct and checkCoproduct parse (product name (args...) (attr
// exprs...)) / (coproduct ...): nominal module definitions. Never
// evaluated past elaboration — their runtime representation is only
// partially defined in the source this was distilled from.
func checkProduct(args []sexpr.SExpr) (Expr, error) {
	return checkModule(args, false)
}

func checkCoproduct(args []sexpr.SExpr) (Expr, error) {
	return checkModule(args, true)
}

func checkModule(args []sexpr.SExpr, coproduct bool) (Expr, error) {
	if len(args) != 3 || args[0].Kind != sexpr.Symbol ||
		args[1].Kind != sexpr.List || args[2].Kind != sexpr.List {
		return nil, diagnostics.New(diagnostics.ErrForm, "(product name (arg...) (attr expr)...)")
	}
	formals, err := checkArgs(args[1].Items)
	if err != nil {
		return nil, err
	}
	attrs, err := checkAttrs(args[2].Items)
	if err != nil {
		return nil, err
	}
	return &Module{
		Name:      args[0].Symbol().String(),
		Args:      formals,
		Attrs:     attrs,
		Coproduct: coproduct,
	}, nil
}
