package eqgen

import (
	"monocore/internal/config"
	"monocore/internal/diag"
	"monocore/internal/ir"
	"monocore/internal/trace"
)

// generatedFileName is where every synthesized equality function and
// external fallback declaration this pass produces is collected.
const generatedFileName = "<equality>"

// Run executes the equality generator over prog, which must already have
// had its types and calls fully monomorphized (typemono.Run then
// funcmono.Run's output). Every EPolyComp node in every callable body is
// resolved; freshly synthesized predicates are appended to a trailing
// synthetic file.
func Run(prog *ir.Program, cfg config.Config, bus *diag.Bus, tracer trace.Tracer) (*ir.Program, error) {
	b := newBuilder(ir.BuildTypeMap(prog), cfg, bus, tracer)
	out := &ir.Program{Files: make([]ir.File, 0, len(prog.Files)+1)}

	for _, f := range prog.Files {
		outFile := ir.File{Name: f.Name}
		for _, d := range f.Decls {
			rewritten, err := b.rewriteDecl(d)
			if err != nil {
				return nil, err
			}
			outFile.Decls = append(outFile.Decls, rewritten)
		}
		out.Files = append(out.Files, outFile)
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
	case ir.DFunction:
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
