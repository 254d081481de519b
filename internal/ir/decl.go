package ir

// Flags is a bitmask of declaration flags the core reads and writes.
type Flags uint16

const (
	// FlagPrivate marks a declaration as not externally visible.
	FlagPrivate Flags = 1 << iota
	// FlagAutoGenerated marks a declaration synthesized by a pass rather
	// than present in the source program.
	FlagAutoGenerated
	// FlagGcType marks a type whose allocations are GC-managed.
	FlagGcType
)

// Has reports whether f contains every bit in mask.
func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// With returns f with mask's bits set.
func (f Flags) With(mask Flags) Flags { return f | mask }

// Without returns f with mask's bits cleared.
func (f Flags) Without(mask Flags) Flags { return f &^ mask }

// Field is a (optional-name, (typ, mutable?)) triple. Name == "" means no
// name (a positional tuple field keeps its synthesized fst/snd/... name
// once it is turned into a Flat record, so in practice only synthesized
// tuple fields pass through here unnamed before that rewrite completes).
type Field struct {
	Name    string
	Type    Typ
	Mutable bool
}

// Branch is a variant constructor: a name plus its fields.
type Branch struct {
	Ctor   string
	Fields []Field
}

// BodyKind tags which shape a TypeBody holds.
type BodyKind uint8

const (
	BodyInvalid BodyKind = iota
	BodyFlat
	BodyVariant
	BodyAbbrev
	BodyForward
	BodyEnum
	BodyUnion
)

// TypeBody is a type definition's body: one of Flat(fields), Variant
// (branches), Abbrev(typ), Forward, Enum, Union.
type TypeBody struct {
	Kind     BodyKind
	Fields   []Field  // BodyFlat
	Branches []Branch // BodyVariant
	Alias    Typ      // BodyAbbrev
}

func FlatBody(fields []Field) TypeBody     { return TypeBody{Kind: BodyFlat, Fields: fields} }
func VariantBody(branches []Branch) TypeBody { return TypeBody{Kind: BodyVariant, Branches: branches} }
func AbbrevBody(t Typ) TypeBody            { return TypeBody{Kind: BodyAbbrev, Alias: t} }
func ForwardBody() TypeBody                { return TypeBody{Kind: BodyForward} }

// DeclKind tags which shape a Decl holds.
type DeclKind uint8

const (
	DInvalid DeclKind = iota
	DType
	DFunction
	DGlobal
	DExternal
)

// Binder is a function parameter: a name plus its typ.
type Binder struct {
	Name string
	Type Typ
}

// Decl is a top-level declaration: one of DType, DFunction, DGlobal,
// DExternal (spec §3). Rather than four Go types behind an interface, a
// single tagged struct holds every shape's fields — unused fields for a
// given Kind stay zero. This keeps the traversal and rewrite code (which
// touches many shapes generically, e.g. "visit the body, then flush") as
// plain functions instead of a type-switch-laden visitor hierarchy.
type Decl struct {
	Kind  DeclKind
	Lid   Lid
	Flags Flags

	// DType
	Arity int // number of type parameters still abstract
	Body  TypeBody

	// DFunction / DExternal
	CC         string
	TypeArity  int
	Result     Typ
	Binders    []Binder
	FuncBody   *Expr
	ParamNames []string // DExternal only

	// DGlobal
	GlobalType Typ
	GlobalBody *Expr
}

// IsGeneric reports whether d still has abstract type parameters.
func (d Decl) IsGeneric() bool {
	switch d.Kind {
	case DType:
		return d.Arity > 0
	case DFunction, DGlobal, DExternal:
		return d.TypeArity > 0
	default:
		return false
	}
}
