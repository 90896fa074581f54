package dsl

import (
	"context"

	validated "github.com/code-dispenser/validated"
	"github.com/code-dispenser/validated/rules"
)

// DynamicBuilder mirrors the static Builder's surface but obtains each
// member's validator from a rule resolver instead of being given one
// explicitly. Unlike the static composer it deduplicates: repeated
// attachment calls for the same member and attachment kind are explicit
// no-ops after the first.
//
// Attachment points are package functions rather than methods because they
// introduce a member type parameter, for example dsl.Member or dsl.EachItem.
type DynamicBuilder[T any] struct {
	b        *Builder[T]
	res      *rules.Resolver
	ctx      context.Context
	typeName string
	tenant   string
	culture  string
	seen     map[string]struct{}
}

// Dynamic creates a resolver-driven composer for the owning type identified
// by typeName, resolving rule rows under the given tenant and culture. ctx
// is used for configuration-snapshot calls made while composing.
func Dynamic[T any](ctx context.Context, res *rules.Resolver, typeName, tenant, culture string) *DynamicBuilder[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &DynamicBuilder[T]{
		b:        New[T](),
		res:      res,
		ctx:      ctx,
		typeName: typeName,
		tenant:   tenant,
		culture:  culture,
		seen:     make(map[string]struct{}),
	}
}

// mark records an attachment and reports whether it was already present.
func (db *DynamicBuilder[T]) mark(key string) bool {
	if _, dup := db.seen[key]; dup {
		return true
	}
	db.seen[key] = struct{}{}
	return false
}

func (db *DynamicBuilder[T]) resolve(member, target string) validated.ValueValidator[any] {
	return db.res.Resolve(db.ctx, db.typeName, member, db.tenant, db.culture, target)
}

// When opens a conditional scope, exactly as on the static Builder.
func (db *DynamicBuilder[T]) When(pred func(T) bool) *DynamicBuilder[T] {
	db.b.When(pred)
	return db
}

// EndWhen closes the innermost conditional scope.
func (db *DynamicBuilder[T]) EndWhen() *DynamicBuilder[T] {
	db.b.EndWhen()
	return db
}

// FailFast requests fail-fast finalization for an absent top-level object.
func (db *DynamicBuilder[T]) FailFast() *DynamicBuilder[T] {
	db.b.FailFast()
	return db
}

// Build finalizes exactly as the static composer does.
func (db *DynamicBuilder[T]) Build() (validated.EntityValidator[T], error) { return db.b.Build() }

// MustBuild is like Build but panics on error.
func (db *DynamicBuilder[T]) MustBuild() validated.EntityValidator[T] { return db.b.MustBuild() }

// Member attaches the resolver-composed rules for a required member.
func Member[T, M any](db *DynamicBuilder[T], member, display string, get func(T) M) *DynamicBuilder[T] {
	if db.mark("member:" + member) {
		return db
	}
	check := validated.Typed[M](db.resolve(member, rules.TargetItem))
	db.b.Add(validated.ForMember(member, display, get, check))
	return db
}

// OptionalMember attaches rules that are skipped when the member is absent.
func OptionalMember[T, M any](db *DynamicBuilder[T], member, display string, get func(T) M) *DynamicBuilder[T] {
	if db.mark("optional:" + member) {
		return db
	}
	check := validated.Typed[M](db.resolve(member, rules.TargetItem))
	db.b.Add(validated.ForOptionalMember(member, display, get, check))
	return db
}

// Nested attaches a whole-object validator for a required nested member; the
// nested validator is typically built by its own composer.
func Nested[T, N any](db *DynamicBuilder[T], member, display string, get func(T) N, child validated.EntityValidator[N]) *DynamicBuilder[T] {
	if db.mark("nested:" + member) {
		return db
	}
	db.b.Add(validated.ForNestedEntity(member, display, get, child))
	return db
}

// OptionalNested skips the nested validator when the reference is absent.
func OptionalNested[T, N any](db *DynamicBuilder[T], member, display string, get func(T) N, child validated.EntityValidator[N]) *DynamicBuilder[T] {
	if db.mark("optional-nested:" + member) {
		return db
	}
	db.b.Add(validated.ForOptionalNestedEntity(member, display, get, child))
	return db
}

// EachItem attaches the member's item-granularity rules to every element of
// a collection member.
func EachItem[T, E any](db *DynamicBuilder[T], member, display string, get func(T) []E) *DynamicBuilder[T] {
	if db.mark("each:" + member) {
		return db
	}
	check := validated.Typed[E](db.resolve(member, rules.TargetItem))
	db.b.Add(validated.ForEachItem(member, display, get, check))
	return db
}

// Collection attaches the member's whole-collection rules, an independent
// attachment point from EachItem even on the same member.
func Collection[T, E any](db *DynamicBuilder[T], member, display string, get func(T) []E) *DynamicBuilder[T] {
	if db.mark("collection:" + member) {
		return db
	}
	check := validated.Typed[[]E](db.resolve(member, rules.TargetCollection))
	db.b.Add(validated.ForCollection(member, display, get, check))
	return db
}

// Comparison attaches the member's comparison rules; against extracts the
// comparison value from the object under validation, covering cross-member
// and cross-object comparison.
func Comparison[T, M any](db *DynamicBuilder[T], member, display string, get func(T) M, against func(T) any) *DynamicBuilder[T] {
	if db.mark("comparison:" + member) {
		return db
	}
	check := validated.Typed[M](db.resolve(member, rules.TargetItem))
	db.b.Add(validated.ForComparison(member, display, get, against, check))
	return db
}

// Recursive attaches bounded traversal of a self-referential member. self is
// resolved lazily so it can return the finalized validator for T.
func Recursive[T any](db *DynamicBuilder[T], member, display string, next func(T) T, self func() validated.EntityValidator[T]) *DynamicBuilder[T] {
	if db.mark("recursive:" + member) {
		return db
	}
	db.b.Add(validated.ForRecursiveEntity(member, display, next, self))
	return db
}
