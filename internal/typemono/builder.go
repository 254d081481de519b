package typemono

import (
	"fmt"

	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
)

// builder carries all pass-scoped mutable state for one Run (spec §5:
// "generated_lids/pending_defs... are pass-scoped mutable state"; the
// data-type pass's analogue is the state map plus the pending buffers
// below). A fresh builder exists for exactly one call to Run.
type builder struct {
	typeMap ir.TypeMap
	cfg     config.Config
	bus     *diag.Bus
	tracer  trace.Tracer

	state map[string]stateEntry

	// pendingMonomorphizations[lid] records argument vectors deferred
	// because lid's own top-level declaration hadn't been reached yet
	// (spec §4.1 "defer" case). Cleared as each vector is flushed.
	pendingMonomorphizations map[ir.Lid][][]ir.Typ

	// hostProcessed marks a type lid as having had its own top-level
	// declaration's case (1-4) handled, so later indirect references no
	// longer need to defer through a forward declaration.
	hostProcessed map[ir.Lid]bool

	// emittedForwards dedupes forward declarations per (lid, chosenLid)
	// pair (spec §9 open question: "at most once").
	emittedForwards map[string]bool

	// pending is the current top-level declaration's pending buffer, in
	// append order, which is already topological order (see flush).
	pending []ir.Decl
}

func newBuilder(typeMap ir.TypeMap, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) *builder {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &builder{
		typeMap:                  typeMap,
		cfg:                      cfg,
		bus:                      bus,
		tracer:                   tracer,
		state:                    make(map[string]stateEntry),
		pendingMonomorphizations: make(map[ir.Lid][][]ir.Typ),
		hostProcessed:            make(map[ir.Lid]bool),
		emittedForwards:          make(map[string]bool),
	}
}

func (b *builder) trace(flag trace.Flag, name, detail string) {
	if b.tracer == nil || !b.tracer.Enabled(flag) {
		return
	}
	b.tracer.Emit(trace.Event{Flag: flag, Name: name, Detail: detail})
}

func (b *builder) markBlack(key string, chosen ir.Lid) {
	b.state[key] = stateEntry{Color: Black, Chosen: chosen}
}

func (b *builder) emit(d ir.Decl) {
	b.pending = append(b.pending, d)
}

// emitForwardOnce emits a Forward declaration for (lid, chosen), asserting
// the at-most-once invariant spec §9 calls out instead of trusting a
// downstream deduplication pass.
func (b *builder) emitForwardOnce(lid ir.Lid, chosen ir.Lid, flags ir.Flags) error {
	key := lid.String() + "->" + chosen.String()
	if b.emittedForwards[key] {
		return diag.Fatalf("forward declaration for %s (as %s) emitted more than once", lid, chosen)
	}
	b.emittedForwards[key] = true
	b.emit(ir.Decl{Kind: ir.DType, Lid: chosen, Flags: flags, Arity: 0, Body: ir.ForwardBody()})
	return nil
}

// flush returns the pending buffer and clears it for the next top-level
// item. visitNode always emits a node's dependencies before the node itself
// (visit.go emits the current node only after recursing into its fields/
// aliased type), so append order already is topological order: a forward
// declaration precedes the definition that closes it, and a referent
// precedes its referrer.
func (b *builder) flush() []ir.Decl {
	out := b.pending
	b.pending = nil
	return out
}

func tupleFields(args []ir.Typ) []ir.Field {
	names := []string{"fst", "snd", "thd"}
	fields := make([]ir.Field, len(args))
	for i, a := range args {
		var name string
		if i < len(names) {
			name = names[i]
		} else {
			name = fmt.Sprintf("f%d", i)
		}
		fields[i] = ir.Field{Name: name, Type: a}
	}
	return fields
}
