// Package funcmono implements the function/global monomorphizer (spec
// §4.3): given a program whose types are already fully monomorphic (the
// output of typemono), it resolves every remaining ETApp against the
// whole-program generic-definition map, instantiates each distinct
// (lid, type-args) pair on demand exactly once, and rewrites call sites to
// reference the generated, now-monomorphic definition directly.
package funcmono

import "monocore/internal/ir"

// instKey identifies one (generic lid, argument vector) instantiation
// request, mirroring the data-type pass's Node but for callables.
type instKey struct {
	Lid     ir.Lid
	ArgsKey string
}

func keyOf(lid ir.Lid, args []ir.Typ) instKey {
	return instKey{Lid: lid, ArgsKey: ir.ArgsKey(args)}
}

// pendingInst is one not-yet-realized instantiation request sitting in the
// builder's worklist.
type pendingInst struct {
	Lid    ir.Lid
	Args   []ir.Typ
	Chosen ir.Lid
}
