package typemono

import (
	"testing"

	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
)

func lid(name string) ir.Lid { return ir.Lid{Module: "m", Name: name} }

// S1: a function parameter typed as an anonymous tuple (int32, bool) gets
// canonicalized into a freshly synthesized Flat record with fst/snd fields.
func TestRun_TupleCanonicalization(t *testing.T) {
	prog := &ir.Program{Files: []ir.File{{
		Name: "s1",
		Decls: []ir.Decl{
			{
				Kind:      ir.DFunction,
				Lid:       lid("pair_sum"),
				TypeArity: 0,
				Binders:   []ir.Binder{{Name: "p", Type: ir.MkTuple([]ir.Typ{ir.MkInt(32), ir.MkBool()})}},
				Result:    ir.MkInt(32),
			},
		},
	}}}

	out, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	decls := out.Files[0].Decls
	if len(decls) != 2 {
		t.Fatalf("want 2 decls (synthesized tuple record + function), got %d", len(decls))
	}
	tupleDecl := decls[0]
	if tupleDecl.Kind != ir.DType || tupleDecl.Body.Kind != ir.BodyFlat {
		t.Fatalf("want a Flat type decl first, got %+v", tupleDecl)
	}
	if len(tupleDecl.Body.Fields) != 2 || tupleDecl.Body.Fields[0].Name != "fst" || tupleDecl.Body.Fields[1].Name != "snd" {
		t.Fatalf("want fst/snd fields, got %+v", tupleDecl.Body.Fields)
	}
	if !tupleDecl.Flags.Has(ir.FlagPrivate | ir.FlagAutoGenerated) {
		t.Fatalf("synthesized tuple record must be Private|AutoGenerated, got flags %v", tupleDecl.Flags)
	}

	fn := decls[1]
	if fn.Kind != ir.DFunction || fn.Binders[0].Type.Kind != ir.TQualified || fn.Binders[0].Type.Lid != tupleDecl.Lid {
		t.Fatalf("want function's parameter rewritten to reference %s, got %+v", tupleDecl.Lid, fn.Binders)
	}
}

// S2: a self-referential list node (List = Cons(Int, Buf<List>) | Nil) must
// be emitted with its own forward declaration handled correctly: a bare
// reference with no type arguments resolves to itself without ever deferring.
func TestRun_SelfRecursiveType(t *testing.T) {
	listLid := lid("List")
	prog := &ir.Program{Files: []ir.File{{
		Name: "s2",
		Decls: []ir.Decl{
			{
				Kind:  ir.DType,
				Lid:   listLid,
				Arity: 0,
				Body: ir.VariantBody([]ir.Branch{
					{Ctor: "Cons", Fields: []ir.Field{
						{Name: "head", Type: ir.MkInt(32)},
						{Name: "tail", Type: ir.MkBuf(ir.MkQualified(listLid), false)},
					}},
					{Ctor: "Nil"},
				}),
			},
		},
	}}}

	out, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	decls := out.Files[0].Decls
	if len(decls) != 2 {
		t.Fatalf("want a forward declaration plus List's own Variant decl, got %d decls: %+v", len(decls), decls)
	}
	if decls[0].Lid != listLid || decls[0].Body.Kind != ir.BodyForward {
		t.Fatalf("want List's forward declaration first, got %+v", decls[0])
	}
	got := decls[1]
	if got.Lid != listLid || got.Body.Kind != ir.BodyVariant {
		t.Fatalf("want List's own Variant decl unchanged in shape, got %+v", got)
	}
	tailType := got.Body.Branches[0].Fields[1].Type
	if tailType.Kind != ir.TBuf || tailType.Elem == nil || tailType.Elem.Lid != listLid {
		t.Fatalf("want tail field's Buf element to still reference List, got %+v", tailType)
	}
}

// S3: two mutually recursive types reached through indirection: B, first
// reached from A's body before its own declaration, is deferred via a
// forward declaration, then both get fully realized once their own
// top-level declarations are driven.
func TestRun_MutualRecursionThroughIndirection(t *testing.T) {
	aLid, bLid := lid("A"), lid("B")
	prog := &ir.Program{Files: []ir.File{{
		Name: "s3",
		Decls: []ir.Decl{
			{
				Kind: ir.DType, Lid: aLid, Arity: 0,
				Body: ir.FlatBody([]ir.Field{{Name: "next", Type: ir.MkBuf(ir.MkQualified(bLid), false)}}),
			},
			{
				Kind: ir.DType, Lid: bLid, Arity: 0,
				Body: ir.FlatBody([]ir.Field{{Name: "next", Type: ir.MkBuf(ir.MkQualified(aLid), false)}}),
			},
		},
	}}}

	out, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	decls := out.Files[0].Decls
	var sawForwardForB, sawRealA, sawRealB bool
	for _, d := range decls {
		switch {
		case d.Lid == bLid && d.Body.Kind == ir.BodyForward:
			sawForwardForB = true
		case d.Lid == aLid && d.Body.Kind == ir.BodyFlat:
			sawRealA = true
		case d.Lid == bLid && d.Body.Kind == ir.BodyFlat:
			sawRealB = true
		}
	}
	if !sawForwardForB {
		t.Fatalf("want a forward declaration for B emitted while processing A, got %+v", decls)
	}
	if !sawRealA || !sawRealB {
		t.Fatalf("want both A and B's real definitions present, got %+v", decls)
	}
}

// A generic record type Box<T> instantiated at two different argument vectors
// produces two distinct, independently named concrete declarations; a second
// use at int32 shares the existing one.
func TestRun_GenericInstantiationSharing(t *testing.T) {
	boxLid := lid("Box")
	prog := &ir.Program{Files: []ir.File{{
		Name: "s4",
		Decls: []ir.Decl{
			{
				Kind: ir.DType, Lid: boxLid, Arity: 1,
				Body: ir.FlatBody([]ir.Field{{Name: "value", Type: ir.MkBound(0)}}),
			},
			{
				Kind: ir.DFunction, Lid: lid("use_int_box"), TypeArity: 0,
				Binders: []ir.Binder{{Name: "b", Type: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)})}},
				Result:  ir.MkUnit(),
			},
			{
				Kind: ir.DFunction, Lid: lid("use_bool_box"), TypeArity: 0,
				Binders: []ir.Binder{{Name: "b", Type: ir.MkApp(boxLid, []ir.Typ{ir.MkBool()})}},
				Result:  ir.MkUnit(),
			},
			{
				Kind: ir.DFunction, Lid: lid("use_int_box_again"), TypeArity: 0,
				Binders: []ir.Binder{{Name: "b", Type: ir.MkApp(boxLid, []ir.Typ{ir.MkInt(32)})}},
				Result:  ir.MkUnit(),
			},
		},
	}}}

	out, err := Run(prog, config.Default(), diag.NewBus(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var boxDecls []ir.Decl
	for _, d := range out.Files[0].Decls {
		if d.Kind == ir.DType {
			boxDecls = append(boxDecls, d)
		}
	}
	if len(boxDecls) != 2 {
		t.Fatalf("want exactly 2 distinct Box instantiations (int32, bool), got %d: %+v", len(boxDecls), boxDecls)
	}
}
