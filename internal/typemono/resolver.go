package typemono

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
)

// Resolver keeps the data-type monomorphizer's builder alive past a single
// Run call, so the function/global monomorphizer — when it substitutes a
// generic callable's type parameters with concrete arguments — can ask for
// the freshly concrete types that substitution produces to be
// monomorphized too, against the very same whole-program type map and memo
// table Run itself used. Without this, a type instantiation Run's own walk
// never happened to need (because nothing non-generic referenced it
// directly) but a later substitution does need would have no definition
// anywhere in the output program.
type Resolver struct {
	b *builder
}

// NewResolver builds a Resolver over prog's whole-program type map. It
// does not rewrite prog; pair it with Run for that.
func NewResolver(prog *ir.Program, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) *Resolver {
	return &Resolver{b: newBuilder(ir.BuildTypeMap(prog), cfg, bus, tracer)}
}

// Resolve monomorphizes t against the Resolver's shared memo table,
// returning the rewritten type. Declarations this requires are recorded
// for a later Drain.
func (r *Resolver) Resolve(t ir.Typ) (ir.Typ, error) {
	return r.b.visitTyp(false, t)
}

// Drain returns every type declaration emitted since the builder's buffer
// was last flushed, in emission order, and clears the buffer. RunWithResolver
// flushes after each top-level declaration, so after it returns Drain yields
// only what later Resolve calls produced.
func (r *Resolver) Drain() []ir.Decl {
	return r.b.flush()
}
