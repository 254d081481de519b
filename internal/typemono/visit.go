package typemono

import (
	"monocore/internal/ir"
	"monocore/internal/trace"
)

// visitNode is the spec §4.1 algorithm: visit_node(under_ref, n) → chosen_lid.
func (b *builder) visitNode(underRef bool, n ir.Node, hint *Hint) (ir.Lid, error) {
	key := n.Key()
	b.trace(trace.FlagDataTypesTraversal, "visit_node", n.Lid.String()+" under_ref="+boolStr(underRef))

	if st, ok := b.state[key]; ok {
		switch st.Color {
		case Black:
			return st.Chosen, nil
		case Gray:
			// Closing a cycle: announce the name now via a forward
			// declaration, the definition itself follows later.
			if err := b.emitForwardOnce(n.Lid, st.Chosen, b.hostFlags(n.Lid)); err != nil {
				return ir.Lid{}, err
			}
			return st.Chosen, nil
		}
	}

	chosen, nameFlag := b.lidOf(n, hint)
	b.state[key] = stateEntry{Color: Gray, Chosen: chosen}

	if n.Lid.IsTuple() {
		for _, a := range n.Args {
			if _, err := b.visitTyp(underRef, a); err != nil {
				return ir.Lid{}, err
			}
		}
		b.emit(ir.Decl{
			Kind:  ir.DType,
			Lid:   chosen,
			Flags: ir.FlagPrivate | ir.FlagAutoGenerated,
			Arity: 0,
			Body:  ir.FlatBody(tupleFields(n.Args)),
		})
		b.markBlack(key, chosen)
		return chosen, nil
	}

	def, ok := b.typeMap[n.Lid]
	if !ok {
		// External type: no definition in the whole-program map.
		b.markBlack(key, chosen)
		return chosen, nil
	}

	if (def.Body.Kind == ir.BodyVariant || def.Body.Kind == ir.BodyFlat) && underRef && !b.hostProcessed[n.Lid] {
		if err := b.emitForwardOnce(n.Lid, chosen, def.Flags); err != nil {
			return ir.Lid{}, err
		}
		b.pendingMonomorphizations[n.Lid] = append(b.pendingMonomorphizations[n.Lid], n.Args)
		delete(b.state, key)
		return chosen, nil
	}

	switch def.Body.Kind {
	case ir.BodyVariant:
		branches := ir.SubstBranches(n.Args, def.Body.Branches)
		for i, br := range branches {
			fields, err := b.visitFields(underRef, br.Fields)
			if err != nil {
				return ir.Lid{}, err
			}
			branches[i].Fields = fields
		}
		b.emit(ir.Decl{Kind: ir.DType, Lid: chosen, Flags: def.Flags | nameFlag, Arity: 0, Body: ir.VariantBody(branches)})
		b.markBlack(key, chosen)

	case ir.BodyFlat:
		substituted := ir.SubstFields(n.Args, def.Body.Fields)
		fields, err := b.visitFields(underRef, substituted)
		if err != nil {
			return ir.Lid{}, err
		}
		b.emit(ir.Decl{Kind: ir.DType, Lid: chosen, Flags: def.Flags | nameFlag, Arity: 0, Body: ir.FlatBody(fields)})
		b.markBlack(key, chosen)

	case ir.BodyAbbrev:
		substituted := ir.SubstType(n.Args, def.Body.Alias)
		rewritten, err := b.visitTyp(underRef, substituted)
		if err != nil {
			return ir.Lid{}, err
		}
		b.emit(ir.Decl{Kind: ir.DType, Lid: chosen, Flags: def.Flags | nameFlag, Arity: 0, Body: ir.AbbrevBody(rewritten)})
		b.markBlack(key, chosen)

	default:
		// Forward/Enum/Union bodies stored in the map: mark Black, no
		// emission (the definition, if any, lives elsewhere already).
		b.markBlack(key, chosen)
	}

	return chosen, nil
}

// visitFields substitutes n.Args is already done by the caller in the Flat
// case; here we just recurse into field types to trigger nested
// monomorphizations and rewrite them to TQualified references.
func (b *builder) visitFields(underRef bool, fields []ir.Field) ([]ir.Field, error) {
	out := make([]ir.Field, len(fields))
	for i, f := range fields {
		t, err := b.visitTyp(underRef, f.Type)
		if err != nil {
			return nil, err
		}
		f.Type = t
		out[i] = f
	}
	return out, nil
}

// hostFlags returns the flags a not-yet-processed host type's eventual
// Forward declaration should carry, falling back to no flags for tuples or
// externals that have no map entry.
func (b *builder) hostFlags(lid ir.Lid) ir.Flags {
	if def, ok := b.typeMap[lid]; ok {
		return def.Flags
	}
	return 0
}

// visitTyp is the expression-independent half of spec §4.2: the rewrites
// coupled to the data-type pass at the level of a bare Typ.
func (b *builder) visitTyp(underRef bool, t ir.Typ) (ir.Typ, error) {
	switch t.Kind {
	case ir.TTuple:
		n := ir.Node{Lid: ir.TupleLid, Args: t.Args}
		chosen, err := b.visitNode(underRef, n, nil)
		if err != nil {
			return ir.Typ{}, err
		}
		return ir.MkQualified(chosen), nil

	case ir.TQualified:
		n := ir.Node{Lid: t.Lid}
		chosen, err := b.visitNode(underRef, n, nil)
		if err != nil {
			return ir.Typ{}, err
		}
		return ir.MkQualified(chosen), nil

	case ir.TApp:
		n := ir.Node{Lid: t.Lid, Args: t.Args}
		chosen, err := b.visitNode(underRef, n, nil)
		if err != nil {
			return ir.Typ{}, err
		}
		return ir.MkQualified(chosen), nil

	case ir.TBuf:
		var elem ir.Typ
		if t.Elem != nil {
			e, err := b.visitTyp(true, *t.Elem)
			if err != nil {
				return ir.Typ{}, err
			}
			elem = e
		}
		return ir.MkBuf(elem, t.Const), nil

	case ir.TArrow:
		var dom, cod ir.Typ
		if t.Elem != nil {
			d, err := b.visitTyp(underRef, *t.Elem)
			if err != nil {
				return ir.Typ{}, err
			}
			dom = d
		}
		if t.Cod != nil {
			c, err := b.visitTyp(underRef, *t.Cod)
			if err != nil {
				return ir.Typ{}, err
			}
			cod = c
		}
		return ir.MkArrow(dom, cod), nil

	default:
		return t, nil
	}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
