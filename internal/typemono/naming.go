package typemono

import "monocore/internal/ir"

// lidOf chooses the name a node will be emitted under (spec §4.1
// "Name selection (lid_of)"). It does not itself mark any state; callers
// combine the returned flag with whatever flags the definition already
// carries.
func (b *builder) lidOf(n ir.Node, hint *Hint) (ir.Lid, ir.Flags) {
	if len(n.Args) == 0 {
		return n.Lid, 0
	}
	if hint != nil && hint.Node.Key() == n.Key() {
		return hint.Lid, 0
	}
	suffix := ir.PrettyTypeArgs(n.Args, b.resolver())
	name := ir.BaseName(n.Lid) + b.cfg.Names.Separator + suffix
	return ir.Lid{Module: n.Lid.Module, Name: name}, ir.FlagAutoGenerated
}

// resolver exposes the already-Black portion of the state map to the
// pretty-printer, so a nested already-monomorphized TApp gets printed as
// its chosen name rather than re-derived from scratch (spec §4.1).
func (b *builder) resolver() ir.Resolver {
	return func(n ir.Node) (ir.Lid, bool) {
		st, ok := b.state[n.Key()]
		if !ok || st.Color != Black {
			return ir.Lid{}, false
		}
		return st.Chosen, true
	}
}
