// Package dsl provides the static and dynamic validator composers. The
// static Builder accumulates explicitly supplied entity validators; the
// dynamic builder mirrors its surface but obtains each member's validator
// from a rule resolver.
package dsl

import (
	"context"
	"fmt"

	validated "github.com/code-dispenser/validated"
)

// Builder accumulates an ordered list of whole-object validators. Each Add
// call appends its validators in order; duplicate attachments for the same
// member are not deduplicated, that is the caller's responsibility.
//
// A Builder is not safe for concurrent configuration; the validator it
// produces is immutable and safe for unlimited concurrent use.
type Builder[T any] struct {
	validators []validated.EntityValidator[T]
	scopes     []func(T) bool
	failFast   bool
	errs       []error
}

// New creates an empty static composer for T.
func New[T any]() *Builder[T] { return &Builder[T]{} }

// Add appends validators, wrapping each with the conditional scopes open at
// the time of the call. Scoped validators evaluate their predicates
// outer-then-inner against the object and are skipped, treated as accepted,
// when any predicate is false.
func (b *Builder[T]) Add(vs ...validated.EntityValidator[T]) *Builder[T] {
	for _, v := range vs {
		if v == nil {
			continue
		}
		b.validators = append(b.validators, b.scoped(v))
	}
	return b
}

func (b *Builder[T]) scoped(v validated.EntityValidator[T]) validated.EntityValidator[T] {
	if len(b.scopes) == 0 {
		return v
	}
	preds := make([]func(T) bool, len(b.scopes))
	copy(preds, b.scopes)
	return func(ctx context.Context, entity T, path string, opts validated.Options) (out validated.Validated[T]) {
		// A predicate inspecting an absent object may panic; that must
		// surface as a failure entry, never escape the finalized validator.
		defer func() {
			if r := recover(); r != nil {
				out = validated.Invalid[T](validated.Failure{
					Path:    path,
					Code:    validated.CodeInternal,
					Cause:   validated.CauseInternal,
					Message: "an unexpected error occurred during validation",
				})
			}
		}()
		for _, pred := range preds {
			if !pred(entity) {
				return validated.Valid(entity)
			}
		}
		return v(ctx, entity, path, opts)
	}
}

// When opens a conditional scope. Every validator added while the scope is
// open only runs when pred holds for the object under validation. Scopes may
// nest.
func (b *Builder[T]) When(pred func(T) bool) *Builder[T] {
	if pred == nil {
		pred = func(T) bool { return true }
	}
	b.scopes = append(b.scopes, pred)
	return b
}

// EndWhen closes the innermost conditional scope.
func (b *Builder[T]) EndWhen() *Builder[T] {
	if len(b.scopes) == 0 {
		b.errs = append(b.errs, fmt.Errorf("dsl: EndWhen without a matching When"))
		return b
	}
	b.scopes = b.scopes[:len(b.scopes)-1]
	return b
}

// FailFast requests fail-fast finalization: when the top-level object itself
// is absent the composed validator returns immediately with exactly one
// internal-error failure and invokes none of the configured validators. In
// the normal mode every configured validator runs against the absent object
// and each reports its own internal error, so failures accumulate one per
// configured validator.
func (b *Builder[T]) FailFast() *Builder[T] {
	b.failFast = true
	return b
}

// Build finalizes the composer. Finalizing while conditional scopes remain
// open is a configuration-time failure reporting how many closures are
// missing. Finalizing with zero configured validators yields a validator
// that always accepts.
func (b *Builder[T]) Build() (validated.EntityValidator[T], error) {
	if n := len(b.scopes); n > 0 {
		return nil, fmt.Errorf("dsl: builder finalized with %d unclosed conditional scope(s)", n)
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if len(b.validators) == 0 {
		return validated.AcceptEntity[T](), nil
	}
	vs := make([]validated.EntityValidator[T], len(b.validators))
	copy(vs, b.validators)
	return compose(vs, b.failFast), nil
}

// MustBuild is like Build but panics on error.
func (b *Builder[T]) MustBuild() validated.EntityValidator[T] {
	v, err := b.Build()
	if err != nil {
		panic(err)
	}
	return v
}

func compose[T any](vs []validated.EntityValidator[T], failFast bool) validated.EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts validated.Options) validated.Validated[T] {
		if failFast && validated.IsAbsent(entity) {
			return validated.Invalid[T](validated.Failure{
				Path:    path,
				Code:    validated.CodeInternal,
				Cause:   validated.CauseInternal,
				Message: "no object to validate",
			})
		}
		results := make([]validated.Validated[T], len(vs))
		for i, v := range vs {
			results[i] = v(ctx, entity, path, opts)
		}
		return validated.Combine(func([]T) T { return entity }, results...)
	}
}
