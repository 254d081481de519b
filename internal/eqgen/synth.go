package eqgen

import "monocore/internal/ir"

// comparisonFor builds an expression computing lhs == rhs for a value of
// type t: an inline primitive op for scalar shapes, a call to a
// synthesized structural predicate otherwise.
func (b *builder) comparisonFor(t ir.Typ, lhs, rhs ir.Expr) (ir.Expr, error) {
	switch t.Kind {
	case ir.TInt, ir.TBool, ir.TUnit, ir.TBuf:
		return ir.Expr{Kind: ir.EOp, PrimOp: ir.OpEq, Typ: ir.MkBool(), Args: []ir.Expr{lhs, rhs}}, nil

	case ir.TArrow:
		lid, err := b.ensureExternalEq(t)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.EApp, Fn: &ir.Expr{Kind: ir.EQualified, Lid: lid}, Args: []ir.Expr{lhs, rhs}, Typ: ir.MkBool()}, nil

	case ir.TQualified:
		lid, err := b.ensureEq(t)
		if err != nil {
			return ir.Expr{}, err
		}
		return ir.Expr{Kind: ir.EApp, Fn: &ir.Expr{Kind: ir.EQualified, Lid: lid}, Args: []ir.Expr{lhs, rhs}, Typ: ir.MkBool()}, nil

	default:
		// TApp/TTuple should never survive past typemono; this is the
		// conservative fallback if one does.
		return boolLit(false), nil
	}
}

// comparatorValue resolves t to the lid of a two-argument (t, t) -> bool
// function suitable for use as a first-class value — the eta-expansion
// spec §9 calls for when an equality operator is referenced without being
// immediately applied to two operands.
func (b *builder) comparatorValue(t ir.Typ) (ir.Lid, error) {
	switch t.Kind {
	case ir.TQualified:
		return b.ensureEq(t)
	case ir.TArrow:
		return b.ensureExternalEq(t)
	default:
		return b.ensurePrimEqWrapper(t)
	}
}

// neqComparatorValue is comparatorValue's != counterpart: since there is no
// generated "not-equal" function to reuse directly, a tiny wrapper negating
// the equality call is synthesized once per type and memoized like any
// other generated function.
func (b *builder) neqComparatorValue(t ir.Typ) (ir.Lid, error) {
	eqLid, err := b.comparatorValue(t)
	if err != nil {
		return ir.Lid{}, err
	}
	key := t.Key() + "#neq"
	if st, ok := b.state[key]; ok {
		return st.EqLid, nil
	}
	name := ir.Lid{Name: "__neq__" + ir.PrettyType(t, nil)}
	call := ir.Expr{Kind: ir.EApp, Fn: &ir.Expr{Kind: ir.EQualified, Lid: eqLid},
		Args: []ir.Expr{varExpr("a", t), varExpr("b", t)}, Typ: ir.MkBool()}
	body := ir.Expr{Kind: ir.EOp, PrimOp: ir.OpNeq, Typ: ir.MkBool(), Args: []ir.Expr{call, boolLit(true)}}
	b.generated = append(b.generated, ir.Decl{
		Kind: ir.DFunction, Lid: name, Flags: ir.FlagAutoGenerated, TypeArity: 0,
		Binders: []ir.Binder{{Name: "a", Type: t}, {Name: "b", Type: t}},
		Result:  ir.MkBool(), FuncBody: &body,
	})
	b.state[key] = stateEntry{Color: Black, EqLid: name}
	return name, nil
}

// ensurePrimEqWrapper synthesizes a named (t, t) -> bool function around a
// primitive EOp comparison, for the rare case a primitive type's equality
// is needed as a value rather than inlined at a use site.
func (b *builder) ensurePrimEqWrapper(t ir.Typ) (ir.Lid, error) {
	key := t.Key() + "#wrapper"
	if st, ok := b.state[key]; ok {
		return st.EqLid, nil
	}
	name := ir.Lid{Name: "__eq__" + ir.PrettyType(t, nil)}
	body := ir.Expr{Kind: ir.EOp, PrimOp: ir.OpEq, Typ: ir.MkBool(), Args: []ir.Expr{varExpr("a", t), varExpr("b", t)}}
	b.generated = append(b.generated, ir.Decl{
		Kind: ir.DFunction, Lid: name, Flags: ir.FlagAutoGenerated, TypeArity: 0,
		Binders: []ir.Binder{{Name: "a", Type: t}, {Name: "b", Type: t}},
		Result:  ir.MkBool(), FuncBody: &body,
	})
	b.state[key] = stateEntry{Color: Black, EqLid: name}
	return name, nil
}

// ensureExternalEq declares (but does not define) an equality function for
// a type shape this pass cannot synthesize a structural body for — chiefly
// function-typed fields (spec §4.4, "external __eq__T fallback
// declarations").
func (b *builder) ensureExternalEq(t ir.Typ) (ir.Lid, error) {
	key := t.Key()
	if st, ok := b.state[key]; ok {
		return st.EqLid, nil
	}
	name := ir.Lid{Name: "__eq__" + ir.PrettyType(t, nil)}
	b.generated = append(b.generated, ir.Decl{
		Kind: ir.DExternal, Lid: name, TypeArity: 0,
		Binders: []ir.Binder{{Name: "a", Type: t}, {Name: "b", Type: t}},
		Result:  ir.MkBool(),
	})
	b.state[key] = stateEntry{Color: Black, EqLid: name}
	return name, nil
}

// ensureEq is the on-demand, memoized entry point for a TQualified
// aggregate's structural equality predicate (spec §4.4's dispatch table).
func (b *builder) ensureEq(t ir.Typ) (ir.Lid, error) {
	key := t.Key()
	if st, ok := b.state[key]; ok {
		if st.Color == Gray {
			// key is still being processed higher up the call stack: every
			// type on the stack from key to the current call closes this
			// cycle, not just key itself. Types generated alongside them
			// that are not on that stretch of the stack are not marked.
			for i := len(b.stack) - 1; i >= 0; i-- {
				b.cyclic[b.stack[i]] = true
				if b.stack[i] == key {
					break
				}
			}
		}
		return st.EqLid, nil
	}

	name := ir.Lid{Module: t.Lid.Module, Name: "__eq__" + ir.BaseName(t.Lid)}
	b.state[key] = stateEntry{Color: Gray, EqLid: name}
	b.trace("ensure_eq", t.Lid.String())

	b.stack = append(b.stack, key)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	def, ok := b.typeMap[t.Lid]
	if !ok {
		delete(b.state, key)
		return b.ensureExternalEq(t)
	}

	var body *ir.Expr
	var err error
	switch def.Body.Kind {
	case ir.BodyFlat:
		body, err = b.buildFlatEq(def.Body.Fields)
	case ir.BodyVariant:
		body, err = b.buildVariantEq(def.Body.Branches)
	case ir.BodyAbbrev:
		var c ir.Expr
		c, err = b.comparisonFor(def.Body.Alias, varExpr("a", t), varExpr("b", t))
		body = &c
	default:
		delete(b.state, key)
		return b.ensureExternalEq(t)
	}
	if err != nil {
		return ir.Lid{}, err
	}

	flags := ir.FlagAutoGenerated
	if def.Flags.Has(ir.FlagPrivate) && !b.cyclic[key] {
		flags |= ir.FlagPrivate
	}

	b.generated = append(b.generated, ir.Decl{
		Kind: ir.DFunction, Lid: name, Flags: flags, TypeArity: 0,
		Binders: []ir.Binder{{Name: "a", Type: t}, {Name: "b", Type: t}},
		Result:  ir.MkBool(), FuncBody: body,
	})
	b.state[key] = stateEntry{Color: Black, EqLid: name}
	return name, nil
}

// buildFlatEq conjoins a field-wise comparison per field (spec §4.4:
// structural equality on a Flat record is the AND of its fields' equality).
func (b *builder) buildFlatEq(fields []ir.Field) (*ir.Expr, error) {
	var cond *ir.Expr
	for _, f := range fields {
		lhs := ir.Expr{Kind: ir.EField, Fn: ptr(varExpr("a", ir.Typ{})), FieldName: f.Name, Typ: f.Type}
		rhs := ir.Expr{Kind: ir.EField, Fn: ptr(varExpr("b", ir.Typ{})), FieldName: f.Name, Typ: f.Type}
		c, err := b.comparisonFor(f.Type, lhs, rhs)
		if err != nil {
			return nil, err
		}
		cond = conjoin(cond, c)
	}
	if cond == nil {
		t := boolLit(true)
		return &t, nil
	}
	return cond, nil
}

// buildVariantEq dispatches a Variant type's predicate by matching the
// first operand's constructor, then the second operand's, comparing
// fields conjunctively only when both sides share the same constructor
// and returning false for any constructor mismatch (spec §4.4).
func (b *builder) buildVariantEq(branches []ir.Branch) (*ir.Expr, error) {
	outerCases := make([]ir.MatchCase, 0, len(branches))
	for _, br := range branches {
		aBinders := make([]string, len(br.Fields))
		bBinders := make([]string, len(br.Fields))
		for i, f := range br.Fields {
			aBinders[i] = "a_" + f.Name
			bBinders[i] = "b_" + f.Name
		}

		var cond *ir.Expr
		for i, f := range br.Fields {
			lhs := varExpr(aBinders[i], f.Type)
			rhs := varExpr(bBinders[i], f.Type)
			c, err := b.comparisonFor(f.Type, lhs, rhs)
			if err != nil {
				return nil, err
			}
			cond = conjoin(cond, c)
		}
		if cond == nil {
			t := boolLit(true)
			cond = &t
		}

		falseCase := boolLit(false)
		innerMatch := ir.Expr{
			Kind: ir.EMatch, Typ: ir.MkBool(),
			Scrutinee: ptr(varExpr("b", ir.Typ{})),
			Cases: []ir.MatchCase{
				{Ctor: br.Ctor, Binders: bBinders, Body: cond},
				{Ctor: "", Body: &falseCase},
			},
		}
		outerCases = append(outerCases, ir.MatchCase{Ctor: br.Ctor, Binders: aBinders, Body: &innerMatch})
	}

	return &ir.Expr{
		Kind: ir.EMatch, Typ: ir.MkBool(),
		Scrutinee: ptr(varExpr("a", ir.Typ{})),
		Cases:     outerCases,
	}, nil
}

func conjoin(acc *ir.Expr, next ir.Expr) *ir.Expr {
	if acc == nil {
		return &next
	}
	return &ir.Expr{Kind: ir.EOp, PrimOp: ir.OpAnd, Typ: ir.MkBool(), Args: []ir.Expr{*acc, next}}
}

func ptr(e ir.Expr) *ir.Expr { return &e }
