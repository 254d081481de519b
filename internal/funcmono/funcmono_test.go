package funcmono

import (
	"testing"

	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
)

func lid(name string) ir.Lid { return ir.Lid{Module: "m", Name: name} }

// S4: a single polymorphic identity function called at int32 produces one
// monomorphic specialization, the generic definition itself is erased, and
// the call site is rewritten to reference the specialization directly with
// no ETApp left.
func TestRun_PolymorphicIdentity(t *testing.T) {
	idLid := lid("identity")
	prog := &ir.Program{Files: []ir.File{{
		Name: "s4",
		Decls: []ir.Decl{
			{
				Kind: ir.DFunction, Lid: idLid, TypeArity: 1,
				Binders: []ir.Binder{{Name: "x", Type: ir.MkBound(0)}},
				Result:  ir.MkBound(0),
				FuncBody: &ir.Expr{
					Kind: ir.EBound, Typ: ir.MkBound(0), Index: 0,
				},
			},
			{
				Kind: ir.DFunction, Lid: lid("use_both"), TypeArity: 0,
				Binders: nil,
				Result:  ir.MkUnit(),
				FuncBody: &ir.Expr{
					Kind: ir.EApp,
					Fn: &ir.Expr{
						Kind: ir.ETApp,
						Fn:   &ir.Expr{Kind: ir.EQualified, Lid: idLid},
						TypeArgs: []ir.Typ{ir.MkInt(32)},
					},
					Args: []ir.Expr{{Kind: ir.EBool, Bool: true}},
				},
			},
		},
	}}}

	out, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(out.Files) != 2 {
		t.Fatalf("want original file plus a generated file, got %d", len(out.Files))
	}
	genFile := out.Files[1]
	if len(genFile.Decls) != 1 {
		t.Fatalf("want exactly 1 specialization of identity, got %d: %+v", len(genFile.Decls), genFile.Decls)
	}
	spec := genFile.Decls[0]
	if spec.TypeArity != 0 {
		t.Fatalf("specialized identity must have type arity 0, got %d", spec.TypeArity)
	}
	if !ir.Equal(spec.Result, ir.MkInt(32)) {
		t.Fatalf("want specialized identity's result substituted to int32, got %+v", spec.Result)
	}

	callerBody := out.Files[0].Decls[0].FuncBody
	if callerBody.Fn.Kind != ir.EQualified || callerBody.Fn.Lid != spec.Lid {
		t.Fatalf("want call site rewritten to reference %s directly, got %+v", spec.Lid, callerBody.Fn)
	}
}

// Two call sites requesting the same instantiation share one specialization.
func TestRun_SharesIdenticalInstantiation(t *testing.T) {
	idLid := lid("identity")
	mkCall := func(name string) ir.Decl {
		return ir.Decl{
			Kind: ir.DFunction, Lid: lid(name), TypeArity: 0,
			Result: ir.MkUnit(),
			FuncBody: &ir.Expr{
				Kind: ir.ETApp,
				Fn:   &ir.Expr{Kind: ir.EQualified, Lid: idLid},
				TypeArgs: []ir.Typ{ir.MkBool()},
			},
		}
	}
	prog := &ir.Program{Files: []ir.File{{
		Name: "s4b",
		Decls: []ir.Decl{
			{
				Kind: ir.DFunction, Lid: idLid, TypeArity: 1,
				Binders:  []ir.Binder{{Name: "x", Type: ir.MkBound(0)}},
				Result:   ir.MkBound(0),
				FuncBody: &ir.Expr{Kind: ir.EBound, Typ: ir.MkBound(0), Index: 0},
			},
			mkCall("caller_a"),
			mkCall("caller_b"),
		},
	}}}

	out, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var specCount int
	for _, f := range out.Files {
		for _, d := range f.Decls {
			if d.Lid.Name != idLid.Name && d.Kind == ir.DFunction && d.Flags.Has(ir.FlagAutoGenerated) {
				specCount++
			}
		}
	}
	if specCount != 1 {
		t.Fatalf("want exactly 1 shared specialization for two identical call sites, got %d", specCount)
	}
}

// An arity mismatch on a type application warns and leaves the expression
// untouched: no specialization is minted, enqueued, or substituted in.
func TestRun_ArityMismatchLeavesExpressionUnchanged(t *testing.T) {
	idLid := lid("identity")
	callExpr := &ir.Expr{
		Kind: ir.ETApp,
		Fn:   &ir.Expr{Kind: ir.EQualified, Lid: idLid},
		TypeArgs: []ir.Typ{ir.MkInt(32), ir.MkBool()},
	}
	prog := &ir.Program{Files: []ir.File{{
		Name: "arity",
		Decls: []ir.Decl{
			{
				Kind: ir.DFunction, Lid: idLid, TypeArity: 1,
				Binders:  []ir.Binder{{Name: "x", Type: ir.MkBound(0)}},
				Result:   ir.MkBound(0),
				FuncBody: &ir.Expr{Kind: ir.EBound, Typ: ir.MkBound(0), Index: 0},
			},
			{
				Kind: ir.DFunction, Lid: lid("caller"), TypeArity: 0,
				Result:   ir.MkUnit(),
				FuncBody: callExpr,
			},
		},
	}}}

	bus := diag.NewBus()
	out, err := Run(prog, config.Default(), bus, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if bus.Len() != 1 || bus.Items()[0].Kind != diag.KindNotFullyApplied {
		t.Fatalf("want exactly one not-fully-applied warning, got %+v", bus.Items())
	}

	callerBody := out.Files[0].Decls[0].FuncBody
	if callerBody.Kind != ir.ETApp || len(callerBody.TypeArgs) != 2 {
		t.Fatalf("want the mismatched ETApp left unchanged, got %+v", callerBody)
	}
	for _, f := range out.Files {
		for _, d := range f.Decls {
			if d.Lid.Name != idLid.Name && d.Flags.Has(ir.FlagAutoGenerated) {
				t.Fatalf("want no specialization minted for the mismatched call, got %+v", d)
			}
		}
	}
}

// A specialization targeting an excluded file is dropped and reported via
// KindDroppedDeclaration instead of being emitted.
func TestRun_ExcludedFileDropsSpecialization(t *testing.T) {
	idLid := lid("identity")
	prog := &ir.Program{Files: []ir.File{{
		Name: "excluded.core",
		Decls: []ir.Decl{
			{
				Kind: ir.DFunction, Lid: idLid, TypeArity: 1,
				Binders:  []ir.Binder{{Name: "x", Type: ir.MkBound(0)}},
				Result:   ir.MkBound(0),
				FuncBody: &ir.Expr{Kind: ir.EBound, Typ: ir.MkBound(0), Index: 0},
			},
			{
				Kind: ir.DFunction, Lid: lid("caller"), TypeArity: 0,
				Result: ir.MkUnit(),
				FuncBody: &ir.Expr{
					Kind: ir.ETApp,
					Fn:   &ir.Expr{Kind: ir.EQualified, Lid: idLid},
					TypeArgs: []ir.Typ{ir.MkInt(32)},
				},
			},
		},
	}}}

	cfg := config.Default()
	cfg.Build.ExcludedFiles = []string{"excluded.core"}
	bus := diag.NewBus()
	out, err := Run(prog, cfg, bus, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var sawWarning bool
	for _, d := range bus.Items() {
		if d.Kind == diag.KindDroppedDeclaration {
			sawWarning = true
		}
	}
	if !sawWarning {
		t.Fatalf("want a dropped-declaration warning, got %+v", bus.Items())
	}
	for _, f := range out.Files {
		for _, d := range f.Decls {
			if d.Lid.Name != idLid.Name && d.Flags.Has(ir.FlagAutoGenerated) {
				t.Fatalf("want the excluded specialization dropped, got %+v", d)
			}
		}
	}
}

// An EOp(Eq|Neq,_) reaching the function monomorphizer is an invariant
// violation: structural comparisons arrive here as EPolyComp, and only the
// equality generator, which runs after this pass, lowers them to primitive
// Eq/Neq operators.
func TestRun_ResidualEqualityOpIsFatal(t *testing.T) {
	prog := &ir.Program{Files: []ir.File{{
		Name: "bad",
		Decls: []ir.Decl{
			{
				Kind: ir.DFunction, Lid: lid("bad"), TypeArity: 0,
				Result: ir.MkBool(),
				FuncBody: &ir.Expr{
					Kind: ir.EOp, PrimOp: ir.OpEq, Typ: ir.MkBool(),
					Args: []ir.Expr{
						{Kind: ir.EBool, Bool: true},
						{Kind: ir.EBool, Bool: false},
					},
				},
			},
		},
	}}}

	_, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err == nil {
		t.Fatalf("want a fatal error for a residual EOp(Eq,_), got none")
	}
	if _, ok := err.(*diag.FatalError); !ok {
		t.Fatalf("want a *diag.FatalError, got %T: %v", err, err)
	}
}
