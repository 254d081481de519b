package diag

import "fmt"

// Diagnostic is a single warning-bus entry: (file-name, warning-kind) plus a
// human-readable message for whoever renders the bus.
type Diagnostic struct {
	File    string
	Kind    Kind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.File, d.Kind, d.Message)
}

// FatalError is returned (never just logged) on an internal-invariant
// violation; callers must abort the pass and discard partial output.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return "mono: fatal: " + e.Message
}

// Fatalf constructs a *FatalError the way fmt.Errorf constructs an error.
func Fatalf(format string, args ...any) error {
	return &FatalError{Message: fmt.Sprintf(format, args...)}
}
