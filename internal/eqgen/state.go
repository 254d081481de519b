// Package eqgen implements the equality generator (spec §4.4): it resolves
// every remaining EPolyComp node — a structural == or != whose concrete
// operand type is only known after monomorphization — into either an
// inline primitive comparison or a call to a freshly synthesized
// __eq__<Type> function, built by recursively comparing a Flat type's
// fields conjunctively or dispatching a Variant type's branches by
// constructor tag. It runs last, after typemono and funcmono have made
// every type and every call site fully concrete.
package eqgen

import "monocore/internal/ir"

// Color tracks one type's equality-synthesis progress, mirroring the
// data-type pass's tri-color state but without any forward-declaration
// concern: functions may reference each other regardless of emission
// order, so a Gray (in-progress) entry is just as usable as a Black one.
type Color uint8

const (
	Gray Color = iota + 1
	Black
)

// stateEntry is what the state map associates with a type already being or
// already having been given an equality function: its progress and the
// lid that function is emitted under.
type stateEntry struct {
	Color Color
	EqLid ir.Lid
}
