package validated

// Validated is a two-variant result: either an accepted value or a non-empty
// ordered list of failures. A Validated is immutable once produced and is
// never both accepted and carrying failures.
type Validated[T any] struct {
	value    T
	failures Failures
	valid    bool
}

// Valid constructs an accepted result carrying v.
func Valid[T any](v T) Validated[T] {
	return Validated[T]{value: v, valid: true}
}

// Invalid constructs a rejected result from one or more failures. Calling it
// with no failures is a caller bug; a single internal-error entry is
// substituted so the invariant of a non-empty failure list holds.
func Invalid[T any](failures ...Failure) Validated[T] {
	if len(failures) == 0 {
		failures = Failures{{
			Code:    CodeInternal,
			Cause:   CauseInternal,
			Message: "rejected result constructed without failures",
		}}
	}
	fs := make(Failures, len(failures))
	copy(fs, failures)
	return Validated[T]{failures: fs}
}

// IsValid reports whether the result is accepted.
func (v Validated[T]) IsValid() bool { return v.valid }

// Failures returns a copy of the failure list, empty when accepted.
func (v Validated[T]) Failures() Failures {
	if len(v.failures) == 0 {
		return nil
	}
	out := make(Failures, len(v.failures))
	copy(out, v.failures)
	return out
}

// ValueOr returns the accepted value, or fallback when the result is
// rejected. It never panics.
func (v Validated[T]) ValueOr(fallback T) T {
	if v.valid {
		return v.value
	}
	return fallback
}

// Map transforms an accepted value through fn. Rejected results pass through
// untouched and fn is never invoked for them.
func Map[T, U any](v Validated[T], fn func(T) U) Validated[U] {
	if !v.valid {
		return Validated[U]{failures: v.Failures()}
	}
	return Valid(fn(v.value))
}

// Combine accumulates results applicative-style: the outcome is accepted only
// when every input is accepted, in which case combine is applied to the
// accepted values in input order. Otherwise the outcome is rejected with the
// concatenation, in input order, of every input's failures. It never
// short-circuits on the first rejection.
func Combine[T, R any](combine func(values []T) R, results ...Validated[T]) Validated[R] {
	var fs Failures
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.valid {
			values = append(values, r.value)
			continue
		}
		fs = append(fs, r.failures...)
	}
	if len(fs) > 0 {
		return Invalid[R](fs...)
	}
	return Valid(combine(values))
}
