package diag

import "fmt"

// Bus collects warning-bus diagnostics for one pass run. It is append-only
// and, unlike a full diagnostic bag, carries no spans, notes or fixes: the
// core's warnings are coarse-grained process signals, not editor squiggles.
type Bus struct {
	items []Diagnostic
}

// NewBus returns an empty warning bus.
func NewBus() *Bus {
	return &Bus{}
}

// Warn appends a warning-bus entry.
func (b *Bus) Warn(file string, kind Kind, format string, args ...any) {
	if b == nil {
		return
	}
	b.items = append(b.items, Diagnostic{File: file, Kind: kind, Message: sprintfOrEmpty(format, args)})
}

func sprintfOrEmpty(format string, args []any) string {
	if format == "" {
		return ""
	}
	return fmt.Sprintf(format, args...)
}

// Items returns the accumulated diagnostics in emission order. Callers must
// not mutate the returned slice.
func (b *Bus) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Len reports how many diagnostics have been recorded.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}
