package typemono

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
)

// Run executes the data-type monomorphizer over prog once, returning a new
// Program whose type declarations are all arity-0 and whose TApp/TTuple/
// TQualified-to-a-generic occurrences have all been rewritten to references
// to freshly minted concrete declarations (spec §4.1/§4.2). prog itself is
// never mutated.
func Run(prog *ir.Program, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) (*ir.Program, error) {
	out, _, err := RunWithResolver(prog, cfg, bus, tracer)
	return out, err
}

// RunWithResolver is Run, but also returns the Resolver backing the run's
// builder, still live and memo-populated. The pipeline keeps this Resolver
// around so the function/global monomorphizer can ask it to finish
// monomorphizing any type a later substitution makes concrete, against the
// very same whole-program type map and memo table, before draining whatever
// additional declarations that produces.
func RunWithResolver(prog *ir.Program, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) (*ir.Program, *Resolver, error) {
	r := NewResolver(prog, cfg, bus, tracer)
	b := r.b
	out := &ir.Program{Files: make([]ir.File, len(prog.Files))}

	for fi, f := range prog.Files {
		outFile := ir.File{Name: f.Name}
		for _, d := range f.Decls {
			emitted, rewritten, err := b.driveDecl(d)
			if err != nil {
				return nil, nil, err
			}
			outFile.Decls = append(outFile.Decls, emitted...)
			if rewritten != nil {
				outFile.Decls = append(outFile.Decls, *rewritten)
			}
		}
		out.Files[fi] = outFile
	}

	for lid, pending := range b.pendingMonomorphizations {
		if len(pending) > 0 {
			return nil, nil, diag.Fatalf("unresolved deferred monomorphization(s) for %s: its declaration was never found in the whole-program type map", lid)
		}
	}

	return out, r, nil
}

// driveDecl processes one top-level declaration, returning any freshly
// emitted supporting type declarations (already flush-ordered) plus the
// rewritten form of d itself, if one should still appear verbatim in the
// output (case 3's generic host declarations do not: their specializations
// were already spliced into emitted).
func (b *builder) driveDecl(d ir.Decl) (emitted []ir.Decl, rewritten *ir.Decl, err error) {
	switch d.Kind {
	case ir.DType:
		return b.driveTypeDecl(d)
	case ir.DFunction, ir.DExternal, ir.DGlobal:
		return b.driveCallableDecl(d)
	default:
		return nil, &d, nil
	}
}

func (b *builder) driveTypeDecl(d ir.Decl) ([]ir.Decl, *ir.Decl, error) {
	b.trace(trace.FlagMonomorphization, "drive_type_decl", d.Lid.String())

	// Case: generic type definition. It contributes no declaration of its
	// own; only the instantiations already deferred against it (or deferred
	// by sibling declarations processed earlier in this same file) get
	// realized now that its shape is known.
	if d.Arity > 0 {
		b.hostProcessed[d.Lid] = true
		if err := b.flushPendingFor(d.Lid); err != nil {
			return nil, nil, err
		}
		return b.flush(), nil, nil
	}

	// Case: a zero-arity alias whose right-hand side is itself a
	// constructor application or tuple, not yet monomorphized, acts as a
	// name hint (spec §4.1 "name hint"): the alias's own lid becomes the
	// chosen name for the right-hand side's monomorphization, and no
	// separate Abbrev declaration is emitted — the alias *is* the
	// instantiation. Any other alias takes the ordinary path below.
	if d.Body.Kind == ir.BodyAbbrev {
		n, ok := nodeOf(d.Body.Alias)
		if _, seen := b.state[n.Key()]; ok && len(n.Args) > 0 && !seen {
			hint := &Hint{Node: n, Lid: d.Lid}
			if _, err := b.visitNode(false, n, hint); err != nil {
				return nil, nil, err
			}
			b.state[ir.Node{Lid: d.Lid}.Key()] = stateEntry{Color: Black, Chosen: d.Lid}
			b.hostProcessed[d.Lid] = true
			if err := b.flushPendingFor(d.Lid); err != nil {
				return nil, nil, err
			}
			return b.flush(), nil, nil
		}
	}

	// Mark this type Gray and hostProcessed *before* walking its own body,
	// so a self-reference encountered while visiting that body resolves via
	// the cycle (Gray) branch of visitNode — announcing itself with a
	// forward declaration — rather than deferring to a host that is, from
	// the traversal's point of view, already being processed.
	key := ir.Node{Lid: d.Lid}.Key()
	b.state[key] = stateEntry{Color: Gray, Chosen: d.Lid}
	b.hostProcessed[d.Lid] = true

	body, err := b.visitBody(d.Body)
	if err != nil {
		return nil, nil, err
	}
	out := d
	out.Body = body
	b.markBlack(key, d.Lid)
	if err := b.flushPendingFor(d.Lid); err != nil {
		return nil, nil, err
	}
	return b.flush(), &out, nil
}

func (b *builder) driveCallableDecl(d ir.Decl) ([]ir.Decl, *ir.Decl, error) {
	// Generic callables are untouched here: their binder/result types still
	// carry abstract TBound variables the function/global monomorphizer
	// resolves in a later pass.
	if d.TypeArity > 0 {
		return nil, &d, nil
	}

	b.trace(trace.FlagMonomorphization, "drive_callable_decl", d.Lid.String())

	out := d
	binders := make([]ir.Binder, len(d.Binders))
	for i, bd := range d.Binders {
		t, err := b.visitTyp(false, bd.Type)
		if err != nil {
			return nil, nil, err
		}
		binders[i] = ir.Binder{Name: bd.Name, Type: t}
	}
	out.Binders = binders

	if d.Kind != ir.DGlobal {
		result, err := b.visitTyp(false, d.Result)
		if err != nil {
			return nil, nil, err
		}
		out.Result = result
	}

	if d.Kind == ir.DGlobal {
		gt, err := b.visitTyp(false, d.GlobalType)
		if err != nil {
			return nil, nil, err
		}
		out.GlobalType = gt
	}

	if d.FuncBody != nil {
		body, err := b.visitExprTypes(d.FuncBody)
		if err != nil {
			return nil, nil, err
		}
		out.FuncBody = body
	}
	if d.GlobalBody != nil {
		body, err := b.visitExprTypes(d.GlobalBody)
		if err != nil {
			return nil, nil, err
		}
		out.GlobalBody = body
	}

	return b.flush(), &out, nil
}

// flushPendingFor realizes every argument vector deferred against lid,
// now that lid's own top-level declaration has been reached and lid is
// marked hostProcessed (so the realized definitions are emitted directly
// instead of deferred again).
func (b *builder) flushPendingFor(lid ir.Lid) error {
	pending := b.pendingMonomorphizations[lid]
	delete(b.pendingMonomorphizations, lid)
	for _, args := range pending {
		if _, err := b.visitNode(false, ir.Node{Lid: lid, Args: args}, nil); err != nil {
			return err
		}
	}
	return nil
}

// visitBody rewrites every Typ occurring in a type definition's body,
// without itself changing Kind or Arity.
func (b *builder) visitBody(body ir.TypeBody) (ir.TypeBody, error) {
	switch body.Kind {
	case ir.BodyFlat:
		fields, err := b.visitFields(false, body.Fields)
		if err != nil {
			return ir.TypeBody{}, err
		}
		return ir.FlatBody(fields), nil
	case ir.BodyVariant:
		branches := make([]ir.Branch, len(body.Branches))
		for i, br := range body.Branches {
			fields, err := b.visitFields(false, br.Fields)
			if err != nil {
				return ir.TypeBody{}, err
			}
			branches[i] = ir.Branch{Ctor: br.Ctor, Fields: fields}
		}
		return ir.VariantBody(branches), nil
	case ir.BodyAbbrev:
		t, err := b.visitTyp(false, body.Alias)
		if err != nil {
			return ir.TypeBody{}, err
		}
		return ir.AbbrevBody(t), nil
	default:
		return body, nil
	}
}

// visitExprTypes walks e rewriting every Typ/PolyTyp annotation in place via
// visitTyp. It does not touch ETApp/EPolyComp shape itself — that is the
// function/global monomorphizer's and equality generator's job respectively.
func (b *builder) visitExprTypes(e *ir.Expr) (*ir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	out := *e
	t, err := b.visitTyp(false, e.Typ)
	if err != nil {
		return nil, err
	}
	out.Typ = t

	switch e.Kind {
	case ir.ETApp:
		fn, err := b.visitExprTypes(e.Fn)
		if err != nil {
			return nil, err
		}
		out.Fn = fn
		args := make([]ir.Typ, len(e.TypeArgs))
		for i, a := range e.TypeArgs {
			rt, err := b.visitTyp(false, a)
			if err != nil {
				return nil, err
			}
			args[i] = rt
		}
		out.TypeArgs = args

	case ir.EApp:
		fn, err := b.visitExprTypes(e.Fn)
		if err != nil {
			return nil, err
		}
		out.Fn = fn
		out.Args, err = b.visitExprSlice(e.Args)
		if err != nil {
			return nil, err
		}

	case ir.EPolyComp:
		pt, err := b.visitTyp(false, e.PolyTyp)
		if err != nil {
			return nil, err
		}
		out.PolyTyp = pt
		args, err := b.visitExprSlice(e.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args

	case ir.EOp:
		args, err := b.visitExprSlice(e.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args

	case ir.ETuple:
		args, err := b.visitExprSlice(e.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args

	case ir.EFlat:
		fields := make([]ir.FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			v, err := b.visitExprTypes(&f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ir.FieldInit{Name: f.Name, Value: *v}
		}
		out.Fields = fields

	case ir.EField, ir.EAddrOf:
		fn, err := b.visitExprTypes(e.Fn)
		if err != nil {
			return nil, err
		}
		out.Fn = fn

	case ir.EMatch:
		scrut, err := b.visitExprTypes(e.Scrutinee)
		if err != nil {
			return nil, err
		}
		out.Scrutinee = scrut
		cases := make([]ir.MatchCase, len(e.Cases))
		for i, c := range e.Cases {
			body, err := b.visitExprTypes(c.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = ir.MatchCase{Ctor: c.Ctor, Binders: c.Binders, Body: body}
		}
		out.Cases = cases
	}

	return &out, nil
}

func (b *builder) visitExprSlice(exprs []ir.Expr) ([]ir.Expr, error) {
	if len(exprs) == 0 {
		return exprs, nil
	}
	out := make([]ir.Expr, len(exprs))
	for i := range exprs {
		v, err := b.visitExprTypes(&exprs[i])
		if err != nil {
			return nil, err
		}
		out[i] = *v
	}
	return out, nil
}

// nodeOf extracts the (lid, args) a Typ refers to, for the types that can
// plausibly serve as a name-hint target.
func nodeOf(t ir.Typ) (ir.Node, bool) {
	switch t.Kind {
	case ir.TQualified:
		return ir.Node{Lid: t.Lid}, true
	case ir.TApp:
		return ir.Node{Lid: t.Lid, Args: t.Args}, true
	case ir.TTuple:
		return ir.Node{Lid: ir.TupleLid, Args: t.Args}, true
	default:
		return ir.Node{}, false
	}
}
