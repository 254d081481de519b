package eqgen

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
)

// builder carries the pass-scoped mutable state for one Run.
type builder struct {
	typeMap ir.TypeMap
	cfg     config.Config
	bus     *diag.Bus
	tracer  trace.Tracer

	state map[string]stateEntry

	// stack holds the keys of ensureEq calls currently in progress, in call
	// order, so a Gray re-entry can mark every type on the cycle it closes
	// — not just the one whose state was re-entered.
	stack []string

	// cyclic marks a type key as participating in a structural cycle
	// discovered during its own equality synthesis (a Gray state entry
	// observed mid-traversal marks every key between it and the top of
	// the in-progress stack, not just the re-entered one). Every equality
	// function generated for a type in the cycle loses its own
	// FlagPrivate: a structural cycle means some caller outside any one
	// type's own definition must still be able to invoke it (spec §9,
	// "cycle-based visibility relaxation").
	cyclic map[string]bool

	generated []ir.Decl
}

func newBuilder(typeMap ir.TypeMap, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) *builder {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &builder{
		typeMap: typeMap,
		cfg:     cfg,
		bus:     bus,
		tracer:  tracer,
		state:   make(map[string]stateEntry),
		cyclic:  make(map[string]bool),
	}
}

func (b *builder) trace(name, detail string) {
	if b.tracer == nil || !b.tracer.Enabled(trace.FlagMonomorphization) {
		return
	}
	b.tracer.Emit(trace.Event{Flag: trace.FlagMonomorphization, Name: name, Detail: detail})
}

func varExpr(name string, t ir.Typ) ir.Expr {
	return ir.Expr{Kind: ir.EVar, VarName: name, Typ: t}
}

func boolLit(v bool) ir.Expr {
	return ir.Expr{Kind: ir.EBool, Bool: v, Typ: ir.MkBool()}
}
