// Package monomorphize wires the three sub-passes — the data-type
// monomorphizer, the function/global monomorphizer, and the equality
// generator — into the single whole-program pipeline described by the
// core's external interface (spec §6): one Run call in, one fully
// monomorphic Program out, plus whatever the warning bus collected along
// the way. This mirrors the teacher's own MonomorphizeProgram/
// MonomorphizeModule split, adapted from a single generics-erasure pass
// into three coupled passes run in a fixed order.
package monomorphize

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/eqgen"
	"monocore/internal/funcmono"
	"monocore/internal/ir"
	"monocore/internal/trace"
	"monocore/internal/typemono"
)

// Result is the pipeline's output: the fully monomorphic program plus the
// warning-bus diagnostics accumulated across all three sub-passes.
type Result struct {
	Program *ir.Program
	Bus     *diag.Bus
}

// Run executes the data-type monomorphizer, then the function/global
// monomorphizer, then the equality generator, over prog, in that fixed
// order (spec §5: the passes are single-threaded and run to completion
// with no interleaving). A single warning bus is shared across all three
// so a caller sees one ordered diagnostic stream regardless of which pass
// produced each entry; a fatal error from any pass aborts the pipeline
// immediately (spec §6's two-channel error model).
func Run(prog *ir.Program, cfg config.Config, tracer trace.Tracer) (*Result, error) {
	bus := diag.NewBus()

	afterTypes, resolver, err := typemono.RunWithResolver(prog, cfg, bus, tracer)
	if err != nil {
		return nil, err
	}

	afterFuncs, err := funcmono.RunWithResolver(afterTypes, cfg, bus, tracer, resolver)
	if err != nil {
		return nil, err
	}

	// A generic function specialized against a concrete type argument can
	// make a type instantiation concrete that the data-type pass's own walk
	// never had reason to produce (e.g. Box<T> only ever appearing inside a
	// generic function body, never in a monomorphic signature). resolver
	// shares its memo table with that walk, so anything it had to mint to
	// satisfy those substitutions is still waiting to be collected.
	if generated := resolver.Drain(); len(generated) > 0 {
		afterFuncs.Files = append(afterFuncs.Files, ir.File{Name: "<generated-types>", Decls: generated})
	}

	afterEq, err := eqgen.Run(afterFuncs, cfg, bus, tracer)
	if err != nil {
		return nil, err
	}

	return &Result{Program: afterEq, Bus: bus}, nil
}
