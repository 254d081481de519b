package funcmono

import (
	"monocore/internal/diag"
	"monocore/internal/ir"
)

// specialize builds the monomorphic decl for one instantiation request:
// substitute def's type parameters by args throughout its signature and
// body, rename it to chosen, clear its remaining type arity, then rewrite
// any ETApp occurring in the specialized body so nested generic calls are
// instantiated too.
func (b *builder) specialize(def ir.Decl, chosen ir.Lid, args []ir.Typ) (ir.Decl, error) {
	out := def
	out.Lid = chosen
	out.TypeArity = 0
	out.Flags = out.Flags.With(ir.FlagAutoGenerated)

	binders := make([]ir.Binder, len(def.Binders))
	for i, bd := range def.Binders {
		t, err := b.resolveType(ir.SubstType(args, bd.Type))
		if err != nil {
			return ir.Decl{}, err
		}
		binders[i] = ir.Binder{Name: bd.Name, Type: t}
	}
	out.Binders = binders

	switch def.Kind {
	case ir.DGlobal:
		gt, err := b.resolveType(ir.SubstType(args, def.GlobalType))
		if err != nil {
			return ir.Decl{}, err
		}
		out.GlobalType = gt
		if def.GlobalBody != nil {
			body := ir.SubstExpr(args, def.GlobalBody)
			rewritten, err := b.rewriteExpr(body)
			if err != nil {
				return ir.Decl{}, err
			}
			out.GlobalBody = rewritten
		}
	default: // DFunction, DExternal
		res, err := b.resolveType(ir.SubstType(args, def.Result))
		if err != nil {
			return ir.Decl{}, err
		}
		out.Result = res
		if def.FuncBody != nil {
			body := ir.SubstExpr(args, def.FuncBody)
			rewritten, err := b.rewriteExpr(body)
			if err != nil {
				return ir.Decl{}, err
			}
			out.FuncBody = rewritten
		}
	}

	return out, nil
}

// rewriteExpr walks e, replacing every ETApp(EQualified(lid), args) with an
// EQualified reference to that instantiation's generated lid. An ETApp whose
// head is not a qualified reference, names no generic definition, or carries
// the wrong number of type arguments is reported on the warning bus and
// left in place.
func (b *builder) rewriteExpr(e *ir.Expr) (*ir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	out := *e

	typ, err := b.resolveType(e.Typ)
	if err != nil {
		return nil, err
	}
	out.Typ = typ

	if e.Kind == ir.EPolyComp {
		pt, err := b.resolveType(e.PolyTyp)
		if err != nil {
			return nil, err
		}
		out.PolyTyp = pt
	}

	switch e.Kind {
	case ir.ETApp:
		if e.Fn == nil || e.Fn.Kind != ir.EQualified {
			b.bus.Warn("", diag.KindUnrecognizedHead, "type application head is not a qualified reference")
			fn, err := b.rewriteExpr(e.Fn)
			if err != nil {
				return nil, err
			}
			out.Fn = fn
			return &out, nil
		}
		chosen := b.requestInstantiation(e.Fn.Lid, e.TypeArgs)
		if chosen == e.Fn.Lid {
			// requestInstantiation warned and declined the request (unknown
			// definition or arity mismatch): leave the application as-is
			// rather than rewrite to a reference that was never minted.
			return &out, nil
		}
		out.Kind = ir.EQualified
		out.Lid = chosen
		out.Fn = nil
		out.TypeArgs = nil

	case ir.EApp:
		fn, err := b.rewriteExpr(e.Fn)
		if err != nil {
			return nil, err
		}
		out.Fn = fn
		args, err := b.rewriteExprSlice(e.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args

	case ir.EOp:
		if e.PrimOp == ir.OpEq || e.PrimOp == ir.OpNeq {
			return nil, diag.Fatalf("unresolved structural comparison operator reached the function monomorphizer")
		}
		args, err := b.rewriteExprSlice(e.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args

	case ir.ETuple, ir.EPolyComp:
		args, err := b.rewriteExprSlice(e.Args)
		if err != nil {
			return nil, err
		}
		out.Args = args

	case ir.EFlat:
		fields := make([]ir.FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			v, err := b.rewriteExpr(&f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ir.FieldInit{Name: f.Name, Value: *v}
		}
		out.Fields = fields

	case ir.EField, ir.EAddrOf:
		fn, err := b.rewriteExpr(e.Fn)
		if err != nil {
			return nil, err
		}
		out.Fn = fn

	case ir.EMatch:
		scrut, err := b.rewriteExpr(e.Scrutinee)
		if err != nil {
			return nil, err
		}
		out.Scrutinee = scrut
		cases := make([]ir.MatchCase, len(e.Cases))
		for i, c := range e.Cases {
			body, err := b.rewriteExpr(c.Body)
			if err != nil {
				return nil, err
			}
			cases[i] = ir.MatchCase{Ctor: c.Ctor, Binders: c.Binders, Body: body}
		}
		out.Cases = cases
	}

	return &out, nil
}

func (b *builder) rewriteExprSlice(exprs []ir.Expr) ([]ir.Expr, error) {
	if len(exprs) == 0 {
		return exprs, nil
	}
	out := make([]ir.Expr, len(exprs))
	for i := range exprs {
		v, err := b.rewriteExpr(&exprs[i])
		if err != nil {
			return nil, err
		}
		out[i] = *v
	}
	return out, nil
}
