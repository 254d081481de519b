package ir

// SubstType is subst_tn: capture-free De Bruijn substitution of the N
// outermost type variables (TBound 0..N-1) by ts[0..N-1] (spec §4.3). The
// system has no type-level binders below the top-level declaration (an
// arrow or tuple never introduces a fresh TBound scope of its own), so a
// literal top-down replacement is already capture-free — there is no
// deeper scope whose TBound 0 could be mistaken for the substitution's.
func SubstType(ts []Typ, t Typ) Typ {
	if len(ts) == 0 {
		return t
	}
	switch t.Kind {
	case TBound:
		if t.Index >= 0 && t.Index < len(ts) {
			return ts[t.Index]
		}
		return t
	case TApp:
		t.Args = substTypeSlice(ts, t.Args)
		return t
	case TTuple:
		t.Args = substTypeSlice(ts, t.Args)
		return t
	case TBuf:
		if t.Elem != nil {
			e := SubstType(ts, *t.Elem)
			t.Elem = &e
		}
		return t
	case TArrow:
		if t.Elem != nil {
			e := SubstType(ts, *t.Elem)
			t.Elem = &e
		}
		if t.Cod != nil {
			c := SubstType(ts, *t.Cod)
			t.Cod = &c
		}
		return t
	default:
		return t
	}
}

func substTypeSlice(ts []Typ, args []Typ) []Typ {
	if len(args) == 0 {
		return args
	}
	out := make([]Typ, len(args))
	for i, a := range args {
		out[i] = SubstType(ts, a)
	}
	return out
}

// SubstFields substitutes every field's type in place, returning a new
// slice (fields themselves are value types so the input is untouched).
func SubstFields(ts []Typ, fields []Field) []Field {
	if len(fields) == 0 {
		return fields
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Type = SubstType(ts, f.Type)
		out[i] = f
	}
	return out
}

// SubstBranches substitutes every branch's field types.
func SubstBranches(ts []Typ, branches []Branch) []Branch {
	if len(branches) == 0 {
		return branches
	}
	out := make([]Branch, len(branches))
	for i, br := range branches {
		br.Fields = SubstFields(ts, br.Fields)
		out[i] = br
	}
	return out
}

// SubstBody substitutes a whole type-definition body.
func SubstBody(ts []Typ, body TypeBody) TypeBody {
	switch body.Kind {
	case BodyFlat:
		body.Fields = SubstFields(ts, body.Fields)
	case BodyVariant:
		body.Branches = SubstBranches(ts, body.Branches)
	case BodyAbbrev:
		body.Alias = SubstType(ts, body.Alias)
	}
	return body
}

// SubstExpr is subst_ten: substitutes ts through every typ annotation and
// nested type-argument list in e's tree, used when the function/global
// monomorphizer specializes a body (spec §4.3).
func SubstExpr(ts []Typ, e *Expr) *Expr {
	if e == nil || len(ts) == 0 {
		return e
	}
	out := *e
	out.Typ = SubstType(ts, e.Typ)
	switch e.Kind {
	case ETApp:
		out.Fn = SubstExpr(ts, e.Fn)
		out.TypeArgs = substTypeSlice(ts, e.TypeArgs)
	case EApp:
		out.Fn = SubstExpr(ts, e.Fn)
		out.Args = substExprValueSlice(ts, e.Args)
	case EPolyComp:
		out.PolyTyp = SubstType(ts, e.PolyTyp)
		out.Args = substExprValueSlice(ts, e.Args)
	case EOp:
		out.Args = substExprValueSlice(ts, e.Args)
	case ETuple:
		out.Args = substExprValueSlice(ts, e.Args)
	case EFlat:
		fields := make([]FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			v := SubstExpr(ts, &f.Value)
			fields[i] = FieldInit{Name: f.Name, Value: *v}
		}
		out.Fields = fields
	case EField, EAddrOf:
		out.Fn = SubstExpr(ts, e.Fn)
	case EMatch:
		out.Scrutinee = SubstExpr(ts, e.Scrutinee)
		cases := make([]MatchCase, len(e.Cases))
		for i, c := range e.Cases {
			c.Body = SubstExpr(ts, c.Body)
			cases[i] = c
		}
		out.Cases = cases
	}
	return &out
}

func substExprValueSlice(ts []Typ, exprs []Expr) []Expr {
	if len(exprs) == 0 {
		return exprs
	}
	out := make([]Expr, len(exprs))
	for i := range exprs {
		v := SubstExpr(ts, &exprs[i])
		out[i] = *v
	}
	return out
}
