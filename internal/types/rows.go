package types

// Extension destructures an application of the form ext(attr)(head)(tail)
// — one cell of an extensible row — mirroring original_source/type.cpp's
// extension::unpack.
type Extension struct {
	Attr string
	Head Mono
	Tail Mono
}

// UnpackExtension peels a row application into its attribute, head type,
// and tail row. Panics if app is not shaped like ext(attr)(head)(tail);
// callers must only call this on values already known to have row kind
// and App shape.
func UnpackExtension(app *App) Extension {
	tail := app.Arg
	ctorApp, ok := app.Ctor.(*App)
	if !ok {
		panic("types: malformed row extension (missing head application)")
	}
	head := ctorApp.Arg
	ctorCst, ok := ctorApp.Ctor.(*Cst)
	if !ok {
		panic("types: malformed row extension (constructor is not a Cst)")
	}
	// Ext(attr) constants are named "attr:"; strip the trailing colon.
	name := ctorCst.Name
	attr := name[:len(name)-1]
	return Extension{Attr: attr, Head: head, Tail: tail}
}

// IterRows walks a (fully substituted) row type from head to tail,
// calling fn on each attribute/type pair in order. Stops silently at the
// first non-application cell (the empty row, or an unresolved row
// variable) — mirrors original_source/type.cpp's iter_rows.
func IterRows(row Mono, fn func(attr string, t Mono)) {
	app, ok := row.(*App)
	if !ok {
		return
	}
	e := UnpackExtension(app)
	fn(e.Attr, e.Head)
	IterRows(e.Tail, fn)
}

// RowFields collects all attribute/type pairs in a row into a map, for
// callers that don't care about order (e.g. internal/infer's use-form
// destructuring).
func RowFields(row Mono) map[string]Mono {
	out := map[string]Mono{}
	IterRows(row, func(attr string, t Mono) { out[attr] = t })
	return out
}
