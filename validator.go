package validated

import "context"

// ValueValidator validates a single value. The path locates the value within
// the enclosing object graph. against carries a comparison value and is
// non-nil only for cross-member or cross-object comparison rules. Honoring
// ctx cancellation is opt-in per rule body; the engine forwards it but never
// polls it between steps.
//
// A ValueValidator must be pure with respect to shared state: once built it
// is safe for unlimited concurrent invocation.
type ValueValidator[T any] func(ctx context.Context, value T, path string, against any) Validated[T]

// EntityValidator validates a whole object. opts threads the recursion and
// depth settings explicitly through the call graph; no shared mutable state
// is involved.
type EntityValidator[T any] func(ctx context.Context, entity T, path string, opts Options) Validated[T]

// AndAlso sequentially composes two validators over the same input: the
// receiver runs first, then next runs against the original input regardless
// of the receiver's outcome, and failures from both are concatenated in
// order. This is what lets two independent rules on one field report both
// problems in one pass.
func (v ValueValidator[T]) AndAlso(next ValueValidator[T]) ValueValidator[T] {
	return func(ctx context.Context, value T, path string, against any) Validated[T] {
		first := v(ctx, value, path, against)
		second := next(ctx, value, path, against)
		if first.IsValid() && second.IsValid() {
			return Valid(value)
		}
		fs := first.Failures()
		fs = append(fs, second.Failures()...)
		return Invalid[T](fs...)
	}
}

// AndAlso composes two entity validators the same way as the value variant.
func (v EntityValidator[T]) AndAlso(next EntityValidator[T]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) Validated[T] {
		first := v(ctx, entity, path, opts)
		second := next(ctx, entity, path, opts)
		if first.IsValid() && second.IsValid() {
			return Valid(entity)
		}
		fs := first.Failures()
		fs = append(fs, second.Failures()...)
		return Invalid[T](fs...)
	}
}

// Accept returns a validator that accepts every value. The resolver hands it
// out when no configuration rows match a member; an absent rule is not a
// failure.
func Accept[T any]() ValueValidator[T] {
	return func(_ context.Context, value T, _ string, _ any) Validated[T] {
		return Valid(value)
	}
}

// AcceptEntity returns an entity validator that accepts every object.
func AcceptEntity[T any]() EntityValidator[T] {
	return func(_ context.Context, entity T, _ string, _ Options) Validated[T] {
		return Valid(entity)
	}
}

// Typed bridges an untyped validator, such as one composed by the rule
// resolver, onto a concrete member type. Failures pass through unchanged;
// acceptance re-wraps the typed value.
func Typed[T any](v ValueValidator[any]) ValueValidator[T] {
	return func(ctx context.Context, value T, path string, against any) Validated[T] {
		res := v(ctx, value, path, against)
		if res.IsValid() {
			return Valid(value)
		}
		return Invalid[T](res.Failures()...)
	}
}
