// Package ir holds the shared intermediate representation the three
// monomorphization sub-passes operate on: qualified identifiers, the typ
// tree, declarations, expressions, and the whole-program definition map.
// None of it is interned — per spec, types are immutable values and
// equality/hashing are structural, so a Typ is a plain recursive struct and
// identity is a canonical string key, not a table index.
package ir

import "strings"

// Lid is a qualified identifier: a (module-path, simple-name) pair.
// Equality and hashing are structural, which in Go falls out for free as
// long as every field stays comparable — a Lid can be used directly as a
// map key.
type Lid struct {
	Module string
	Name   string
}

// String renders lid as "module.Name", or bare "Name" when Module is empty
// (the common case for locally-declared, unqualified identifiers).
func (l Lid) String() string {
	if l.Module == "" {
		return l.Name
	}
	return l.Module + "." + l.Name
}

// IsZero reports whether l is the zero Lid (no module, no name).
func (l Lid) IsZero() bool {
	return l.Module == "" && l.Name == ""
}

// TupleLid is the distinguished lid standing for "the anonymous tuple
// constructor" (spec §3). It never appears in source; it is synthesized by
// the tuple/TTuple rewrite rules.
var TupleLid = Lid{Module: "", Name: "*tuple*"}

// IsTuple reports whether l is TupleLid.
func (l Lid) IsTuple() bool {
	return l == TupleLid
}

// BaseName strips a module qualifier, returning just the simple name.
func BaseName(l Lid) string {
	if idx := strings.LastIndex(l.Name, "."); idx >= 0 {
		return l.Name[idx+1:]
	}
	return l.Name
}
