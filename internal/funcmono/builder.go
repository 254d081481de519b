package funcmono

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
	"monocore/internal/typemono"
)

// builder carries the pass-scoped mutable state for one Run (spec §5:
// "generated_lids" and "pending_defs" are the pass's own mutable state,
// discarded once Run returns).
type builder struct {
	defMap ir.DefMap
	cfg    config.Config
	bus    *diag.Bus
	tracer trace.Tracer

	// types resolves a type produced by substitution (e.g. Box<T> becoming
	// Box<int32> once T is fixed) against the data-type pass's own
	// whole-program memo table, so a concrete instantiation the data-type
	// pass's own walk never had reason to visit still gets a definition
	// emitted for it. Nil in a standalone Run (unit tests exercising
	// already-monomorphic inputs have nothing fresh to resolve).
	types *typemono.Resolver

	// generatedLids memoizes the chosen lid for each instantiation request
	// already seen, so a second call site asking for the same (lid, args)
	// shares the earlier specialization instead of emitting a duplicate.
	generatedLids map[instKey]ir.Lid

	// pendingDefs holds instantiation requests whose specialized definition
	// has not yet been built. Draining this queue to empty (each drain can
	// enqueue more, since a freshly specialized body may itself reference
	// other generics) is what guarantees every reachable instantiation gets
	// emitted exactly once.
	pendingDefs []pendingInst

	generated []ir.Decl
}

func newBuilder(defMap ir.DefMap, cfg config.Config, bus *diag.Bus, tracer trace.Tracer, types *typemono.Resolver) *builder {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &builder{
		defMap:        defMap,
		cfg:           cfg,
		bus:           bus,
		tracer:        tracer,
		types:         types,
		generatedLids: make(map[instKey]ir.Lid),
	}
}

// resolveType finishes monomorphizing a type that substitution may have
// just made concrete. With no resolver attached, t is returned unchanged.
func (b *builder) resolveType(t ir.Typ) (ir.Typ, error) {
	if b.types == nil {
		return t, nil
	}
	return b.types.Resolve(t)
}

func (b *builder) trace(name, detail string) {
	if b.tracer == nil || !b.tracer.Enabled(trace.FlagMonomorphization) {
		return
	}
	b.tracer.Emit(trace.Event{Flag: trace.FlagMonomorphization, Name: name, Detail: detail})
}

// requestInstantiation resolves (lid, args) to the lid its specialization
// will be emitted under, enqueuing the work if this is the first request
// for that pair.
func (b *builder) requestInstantiation(lid ir.Lid, args []ir.Typ) ir.Lid {
	k := keyOf(lid, args)
	if chosen, ok := b.generatedLids[k]; ok {
		return chosen
	}

	def, ok := b.defMap[lid]
	if !ok {
		b.bus.Warn("", diag.KindUnrecognizedHead, "type application targets unknown generic definition %s", lid)
		return lid
	}
	if len(args) != def.Decl.TypeArity {
		b.bus.Warn("", diag.KindNotFullyApplied, "%s expects %d type argument(s), got %d", lid, def.Decl.TypeArity, len(args))
		return lid
	}

	suffix := ir.PrettyTypeArgs(args, nil)
	chosen := ir.Lid{Module: lid.Module, Name: ir.BaseName(lid) + b.cfg.Names.Separator + suffix}
	b.generatedLids[k] = chosen
	b.pendingDefs = append(b.pendingDefs, pendingInst{Lid: lid, Args: args, Chosen: chosen})
	b.trace("request_instantiation", lid.String()+" -> "+chosen.String())
	return chosen
}

// drain realizes every queued instantiation request, appending the
// specialized decl it produces to b.generated, until the queue is empty.
func (b *builder) drain() error {
	for len(b.pendingDefs) > 0 {
		req := b.pendingDefs[0]
		b.pendingDefs = b.pendingDefs[1:]

		def, ok := b.defMap[req.Lid]
		if !ok {
			continue
		}
		if b.cfg.IsExcluded(def.File) {
			b.bus.Warn(def.File, diag.KindDroppedDeclaration, "specialization %s of %s dropped: %s is excluded from the build", req.Chosen, req.Lid, def.File)
			continue
		}
		decl, err := b.specialize(def.Decl, req.Chosen, req.Args)
		if err != nil {
			return err
		}
		b.generated = append(b.generated, decl)
	}
	return nil
}
