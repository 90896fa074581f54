package validated

import (
	"context"

	"github.com/code-dispenser/validated/i18n"
)

// ForNestedEntity delegates to a whole-object validator for a nested object,
// prefixing its path with the member name. An absent nested reference is a
// single required rejection.
func ForNestedEntity[T, N any](member, display string, get func(T) N, check EntityValidator[N]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		nested := get(entity)
		if IsAbsent(nested) {
			return Invalid[T](newFailure(full, member, display, CodeRequired, CauseRule, nil))
		}
		res := check(ctx, nested, full, opts)
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](res.Failures()...)
	}
}

// ForOptionalNestedEntity skips validation entirely when the nested reference
// is absent.
func ForOptionalNestedEntity[T, N any](member, display string, get func(T) N, check EntityValidator[N]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		nested := get(entity)
		if IsAbsent(nested) {
			return Valid(entity)
		}
		res := check(ctx, nested, full, opts)
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](res.Failures()...)
	}
}

// ForRecursiveEntity follows a self-reference with an explicit depth counter
// instead of unbounded call-stack recursion. next extracts the
// self-referential member; an absent reference terminates the traversal.
// check is resolved lazily so the finalized validator for T, which itself
// contains this adapter, can be referenced.
//
// When the depth limit is exceeded exactly one max-depth failure is produced
// for the step past the limit; failures accumulated from nodes visited up to
// the limit are preserved by the enclosing composition, never replaced. A
// single node's rejection does not stop the traversal.
func ForRecursiveEntity[T any](member, display string, next func(T) T, check func() EntityValidator[T]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		child := next(entity)
		if IsAbsent(child) {
			return Valid(entity)
		}
		down := opts.descend()
		if down.exceeded() {
			return Invalid[T](Failure{
				Path:    full,
				Member:  member,
				Display: display,
				Code:    CodeMaxDepth,
				Cause:   CauseRule,
				Message: i18n.T("", CodeMaxDepth, map[string]any{"max": down.normalized().MaxDepth}),
			})
		}
		node := check()
		if node == nil {
			return Valid(entity)
		}
		res := node(ctx, child, full, down)
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](res.Failures()...)
	}
}
