package eqgen

import "monocore/internal/ir"

// rewriteExpr walks e, resolving every EPolyComp node into either an
// applied comparison or, when referenced as a bare value (no operands
// attached), a direct reference to its synthesized comparator function
// (spec §4.4's eta-expansion case). No EPolyComp survives this pass.
func (b *builder) rewriteExpr(e *ir.Expr) (*ir.Expr, error) {
	if e == nil {
		return nil, nil
	}
	out := *e

	switch e.Kind {
	case ir.EPolyComp:
		if len(e.Args) == 0 {
			var lid ir.Lid
			var err error
			if e.PolyOp == ir.PEq {
				lid, err = b.comparatorValue(e.PolyTyp)
			} else {
				lid, err = b.neqComparatorValue(e.PolyTyp)
			}
			if err != nil {
				return nil, err
			}
			return &ir.Expr{Kind: ir.EQualified, Lid: lid, Typ: e.Typ}, nil
		}

		lhs, err := b.rewriteExpr(&e.Args[0])
		if err != nil {
			return nil, err
		}
		rhs, err := b.rewriteExpr(&e.Args[1])
		if err != nil {
			return nil, err
		}
		cmp, err := b.comparisonFor(e.PolyTyp, *lhs, *rhs)
		if err != nil {
			return nil, err
		}
		if e.PolyOp == ir.PNeq {
			cmp = ir.Expr{Kind: ir.EOp, PrimOp: ir.OpNeq, Typ: ir.MkBool(), Args: []ir.Expr{cmp, boolLit(true)}}
		}
		return &cmp, nil

	case ir.ETApp:
		fn, err := b.rewriteExpr(e.Fn)
		if err != nil {
			return nil, err
		}
		out.Fn = fn

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

	case ir.ETuple, ir.EOp:
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
