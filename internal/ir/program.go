package ir

// File is a name plus an ordered list of declarations (spec §3).
type File struct {
	Name  string
	Decls []Decl
}

// Program is an ordered list of files (spec §3).
type Program struct {
	Files []File
}

// TypeDef is the (flags, body) pair the data-type monomorphizer's
// whole-program map associates with a type lid.
type TypeDef struct {
	Arity int
	Flags Flags
	Body  TypeBody
}

// TypeMap is the whole-program map from qualified type identifiers to their
// definitions (spec §4.1, "input contract").
type TypeMap map[Lid]TypeDef

// BuildTypeMap walks every file's DType declarations once and returns the
// whole-program map the data-type monomorphizer consults. Built once per
// pass entry, per spec §3's ownership/lifecycle note.
func BuildTypeMap(p *Program) TypeMap {
	m := make(TypeMap)
	if p == nil {
		return m
	}
	for _, f := range p.Files {
		for _, d := range f.Decls {
			if d.Kind != DType {
				continue
			}
			m[d.Lid] = TypeDef{Arity: d.Arity, Flags: d.Flags, Body: d.Body}
		}
	}
	return m
}

// DefEntry is a generic-callable's full definition, as the function/global
// monomorphizer's whole-program map stores it (spec §4.3). File is the
// origin file's name, carried through so a specialization can be checked
// against the build configuration's excluded-file list (spec §6).
type DefEntry struct {
	Decl Decl
	File string
}

// DefMap is the whole-program map from a polymorphic function/global's lid
// to its full definition.
type DefMap map[Lid]DefEntry

// BuildDefMap collects every DFunction/DGlobal with type-arity > 0;
// monomorphic definitions are deliberately not entered (spec §4.3).
func BuildDefMap(p *Program) DefMap {
	m := make(DefMap)
	if p == nil {
		return m
	}
	for _, f := range p.Files {
		for _, d := range f.Decls {
			switch d.Kind {
			case DFunction, DGlobal:
				if d.TypeArity > 0 {
					m[d.Lid] = DefEntry{Decl: d, File: f.Name}
				}
			}
		}
	}
	return m
}
