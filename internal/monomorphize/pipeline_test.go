package monomorphize

import (
	"testing"

	"monocore/internal/config"
	"monocore/internal/ir"
)

func lid(name string) ir.Lid { return ir.Lid{Module: "m", Name: name} }

// End-to-end: a generic Box<T> instantiated at int32, whose equality is
// then compared, should come out the other end with no generic types, no
// residual type applications, and no residual structural comparisons.
func TestRun_FullPipeline(t *testing.T) {
	boxLid := lid("Box")
	prog := &ir.Program{Files: []ir.File{{
		Name: "pipeline",
		Decls: []ir.Decl{
			{
				Kind: ir.DType, Lid: boxLid, Arity: 1,
				Body: ir.FlatBody([]ir.Field{{Name: "value", Type: ir.MkBound(0)}}),
			},
			{
				Kind: ir.DFunction, Lid: lid("make_box"), TypeArity: 1,
				Binders: []ir.Binder{{Name: "v", Type: ir.MkBound(0)}},
				Result:  ir.MkApp(boxLid, []ir.Typ{ir.MkBound(0)}),
				FuncBody: &ir.Expr{
					Kind: ir.EFlat, Typ: ir.MkApp(boxLid, []ir.Typ{ir.MkBound(0)}),
					Fields: []ir.FieldInit{{Name: "value", Value: ir.Expr{Kind: ir.EVar, VarName: "v", Typ: ir.MkBound(0)}}},
				},
			},
			{
				Kind: ir.DFunction, Lid: lid("boxes_equal"), TypeArity: 0,
				Binders: []ir.Binder{
					{Name: "a", Type: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)})},
					{Name: "b", Type: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)})},
				},
				Result: ir.MkBool(),
				FuncBody: &ir.Expr{
					Kind: ir.EPolyComp, PolyOp: ir.PEq, PolyTyp: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)}), Typ: ir.MkBool(),
					Args: []ir.Expr{
						{Kind: ir.EVar, VarName: "a", Typ: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)})},
						{Kind: ir.EVar, VarName: "b", Typ: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)})},
					},
				},
			},
			{
				Kind: ir.DFunction, Lid: lid("use_make_box"), TypeArity: 0,
				Binders: []ir.Binder{{Name: "v", Type: ir.MkInt(32)}},
				Result:  ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)}),
				FuncBody: &ir.Expr{
					Kind: ir.EApp,
					Fn: &ir.Expr{
						Kind: ir.ETApp,
						Fn:   &ir.Expr{Kind: ir.EQualified, Lid: lid("make_box")},
						TypeArgs: []ir.Typ{ir.MkInt(32)},
					},
					Args: []ir.Expr{{Kind: ir.EVar, VarName: "v", Typ: ir.MkInt(32)}},
				},
			},
		},
	}}}

	res, err := Run(prog, config.Default(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, f := range res.Program.Files {
		for _, d := range f.Decls {
			if d.Kind == ir.DType && d.Arity > 0 {
				t.Fatalf("found residual generic type declaration %s", d.Lid)
			}
			if (d.Kind == ir.DFunction || d.Kind == ir.DGlobal) && d.TypeArity > 0 {
				t.Fatalf("found residual generic callable declaration %s", d.Lid)
			}
			walkNoResidualApp(t, d.FuncBody)
			walkNoResidualApp(t, d.GlobalBody)
		}
	}
}

func walkNoResidualApp(t *testing.T, e *ir.Expr) {
	t.Helper()
	if e == nil {
		return
	}
	if e.Kind == ir.ETApp {
		t.Fatalf("found residual ETApp node")
	}
	if e.Kind == ir.EPolyComp {
		t.Fatalf("found residual EPolyComp node")
	}
	walkNoResidualApp(t, e.Fn)
	for i := range e.Args {
		walkNoResidualApp(t, &e.Args[i])
	}
	for _, f := range e.Fields {
		fv := f.Value
		walkNoResidualApp(t, &fv)
	}
	walkNoResidualApp(t, e.Scrutinee)
	for _, c := range e.Cases {
		walkNoResidualApp(t, c.Body)
	}
}
