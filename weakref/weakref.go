// Package weakref wraps the runtime's weak pointers in the narrow shape
// the steady ticker needs: the ticker goroutine holds one of these
// rather than a strong *Bar, so a bar nothing else references is
// collected normally and the ticker notices the failed upgrade and
// exits instead of keeping the bar alive forever.
package weakref

import "weak"

// Ref is a weak handle to a value: Get upgrades it to a strong pointer,
// failing once the referent has been garbage collected.
type Ref[T any] struct {
	p weak.Pointer[T]
}

// New wraps v in a weak Ref.
func New[T any](v *T) Ref[T] {
	return Ref[T]{p: weak.Make(v)}
}

// Get returns the referent and true, or nil and false once the referent
// has been collected.
func (r Ref[T]) Get() (*T, bool) {
	v := r.p.Value()
	return v, v != nil
}
