package ir

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Resolver looks up the chosen lid for an already-monomorphized node, if
// the data-type monomorphizer has decided one yet. It returns false when
// nothing is chosen (or resolve is nil), in which case the pretty-printer
// falls back to printing the node's own shape literally.
type Resolver func(n Node) (Lid, bool)

// PrettyType renders t for embedding inside a generated identifier. It is
// the "shallow rewrite" spec §4.1 describes: TApp occurrences already
// monomorphized are replaced by their chosen name, but everything else
// (primitive types, tuples not yet resolved, arrows) is printed literally.
// This keeps generated names both readable and convergent: two requests
// for the same node end up being named from the same already-chosen
// sub-names instead of re-deriving a name from scratch each time.
func PrettyType(t Typ, resolve Resolver) string {
	switch t.Kind {
	case TQualified:
		if resolve != nil {
			if chosen, ok := resolve(Node{Lid: t.Lid}); ok {
				return sanitizeIdent(BaseName(chosen))
			}
		}
		return sanitizeIdent(BaseName(t.Lid))
	case TApp:
		if resolve != nil {
			if chosen, ok := resolve(Node{Lid: t.Lid, Args: t.Args}); ok {
				return sanitizeIdent(BaseName(chosen))
			}
		}
		return sanitizeIdent(BaseName(t.Lid)) + "_" + PrettyTypeArgs(t.Args, resolve)
	case TTuple:
		return PrettyTypeArgs(t.Args, resolve)
	case TInt:
		return "int" + widthLabel(t.Width)
	case TBool:
		return "bool"
	case TUnit:
		return "unit"
	case TBuf:
		prefix := "buf"
		if t.Const {
			prefix = "cbuf"
		}
		if t.Elem != nil {
			return prefix + "_" + PrettyType(*t.Elem, resolve)
		}
		return prefix
	case TArrow:
		dom, cod := "_", "_"
		if t.Elem != nil {
			dom = PrettyType(*t.Elem, resolve)
		}
		if t.Cod != nil {
			cod = PrettyType(*t.Cod, resolve)
		}
		return dom + "_to_" + cod
	case TBound:
		return "tv" + strconv.Itoa(t.Index)
	default:
		return "unknown"
	}
}

// PrettyTypeArgs renders an argument vector as the underscore-joined
// suffix used in generated names (e.g. the "int32_bool" in
// __eq__Either__int32_bool).
func PrettyTypeArgs(args []Typ, resolve Resolver) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrettyType(a, resolve)
	}
	return strings.Join(parts, "_")
}

// widthLabel narrows an integer width to the fixed-width range a generated
// identifier segment can actually hold, the same defensive safe-cast the
// teacher applies to any internal count before it crosses into a narrower
// representation. A width a legitimate TInt would never carry falls back to
// the literal decimal rendering rather than failing name synthesis outright.
func widthLabel(width int) string {
	w, err := safecast.Conv[uint8](width)
	if err != nil {
		return strconv.Itoa(width)
	}
	return strconv.Itoa(int(w))
}

// sanitizeIdent folds the base name through Unicode NFC normalization
// before it is spliced into a generated identifier, so a hint or source
// name carrying combining-character sequences can't produce two distinct
// generated names for what a reader would see as the same label.
func sanitizeIdent(s string) string {
	return norm.NFC.String(s)
}
