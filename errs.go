package barline

import "fmt"

// InvariantError marks a programmer error: a state the core considers
// impossible to reach through the public API (slot bookkeeping gone
// wrong, a bar removed from a Multi it never belonged to, a style built
// from too few tick strings or glyphs of mismatched width). Callers that
// hit one have a bug, not a transient condition; the core panics with
// this type rather than trying to recover.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "barline: invariant violation: " + e.Msg }

func invariant(format string, args ...any) {
	panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
}
