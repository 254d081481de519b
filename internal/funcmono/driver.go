package funcmono

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
	"monocore/internal/typemono"
)

// generatedFileName is where every specialized definition this pass
// produces is collected. Unlike data-type declarations, callable
// definitions carry no structural-embedding ordering constraint in the
// target IR (a call to a not-yet-emitted function is an ordinary forward
// reference, not an incomplete-type error), so there is no need to splice
// each specialization back into its requesting file in dependency order.
const generatedFileName = "<generated>"

// Run executes the function/global monomorphizer over prog, which must
// already have had its types fully monomorphized (typemono.Run's output).
// Every monomorphic callable's body is rewritten in place; every reachable
// generic instantiation is realized exactly once and appended to a
// trailing synthetic file. Types that substitution makes concrete are left
// as-is; use RunWithResolver when the pipeline needs those resolved too.
func Run(prog *ir.Program, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) (*ir.Program, error) {
	return RunWithResolver(prog, cfg, bus, tracer, nil)
}

// RunWithResolver is Run, but every type substitution produces is also run
// back through types (the data-type pass's own Resolver, sharing its
// whole-program type map and memo table) so a specialization's signature or
// body can reference a type instantiation the data-type pass's own walk
// never had reason to produce. Pass nil for types to get Run's behavior.
func RunWithResolver(prog *ir.Program, cfg config.Config, bus *diag.Bus, tracer trace.Tracer, types *typemono.Resolver) (*ir.Program, error) {
	b := newBuilder(ir.BuildDefMap(prog), cfg, bus, tracer, types)
	out := &ir.Program{Files: make([]ir.File, 0, len(prog.Files)+1)}

	for _, f := range prog.Files {
		outFile := ir.File{Name: f.Name}
		for _, d := range f.Decls {
			switch d.Kind {
			case ir.DFunction, ir.DExternal, ir.DGlobal:
				if d.TypeArity > 0 {
					// Generic definitions are erased: only their realized
					// instantiations survive into the output program.
					continue
				}
				rewritten, err := b.rewriteDecl(d)
				if err != nil {
					return nil, err
				}
				outFile.Decls = append(outFile.Decls, rewritten)
			default:
				outFile.Decls = append(outFile.Decls, d)
			}
		}
		out.Files = append(out.Files, outFile)
	}

	if err := b.drain(); err != nil {
		return nil, err
	}
	if len(b.generated) > 0 {
		out.Files = append(out.Files, ir.File{Name: generatedFileName, Decls: b.generated})
	}

	return out, nil
}

func (b *builder) rewriteDecl(d ir.Decl) (ir.Decl, error) {
	out := d
	switch d.Kind {
	case ir.DGlobal:
		if d.GlobalBody != nil {
			body, err := b.rewriteExpr(d.GlobalBody)
			if err != nil {
				return ir.Decl{}, err
			}
			out.GlobalBody = body
		}
	default:
		if d.FuncBody != nil {
			body, err := b.rewriteExpr(d.FuncBody)
			if err != nil {
				return ir.Decl{}, err
			}
			out.FuncBody = body
		}
	}
	return out, nil
}
