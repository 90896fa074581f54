package validated

import (
	"context"
	"reflect"
	"strings"

	"github.com/code-dispenser/validated/i18n"
)

// IsAbsent reports whether v is nil or a nil pointer, interface, map, slice,
// function or channel. Value kinds are never absent.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// ForMember lifts a single-value validator bound to a member accessor into a
// whole-object validator. The full path is the parent path plus the member
// name; failures from check are reconstructed with that path, the member
// identifier and the display name. An absent member value short-circuits to a
// single required rejection without invoking check. A panicking accessor,
// including a nil top-level entity, is caught and reported as one
// internal-error failure.
func ForMember[T, M any](member, display string, get func(T) M, check ValueValidator[M]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		value := get(entity)
		if IsAbsent(value) {
			return Invalid[T](newFailure(full, member, display, CodeRequired, CauseRule, nil))
		}
		res := check(ctx, value, full, nil)
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](rebase(res.Failures(), full, member, display)...)
	}
}

// ForOptionalMember behaves like ForMember except that an absent member value
// short-circuits to acceptance, skipping check entirely.
func ForOptionalMember[T, M any](member, display string, get func(T) M, check ValueValidator[M]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		value := get(entity)
		if IsAbsent(value) {
			return Valid(entity)
		}
		res := check(ctx, value, full, nil)
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](rebase(res.Failures(), full, member, display)...)
	}
}

// ForComparison lifts a comparison rule bound to a member. against extracts
// the comparison value from the root entity, which covers both cross-member
// comparison (another member of the same object) and cross-object comparison
// (any value reachable from the object graph). The extracted value is passed
// to check through its against parameter.
func ForComparison[T, M any](member, display string, get func(T) M, against func(T) any, check ValueValidator[M]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		value := get(entity)
		if IsAbsent(value) {
			return Invalid[T](newFailure(full, member, display, CodeRequired, CauseRule, nil))
		}
		res := check(ctx, value, full, against(entity))
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](rebase(res.Failures(), full, member, display)...)
	}
}

// newFailure builds a failure entry with a translated message.
func newFailure(path, member, display, code, cause string, params map[string]any) Failure {
	return Failure{
		Path:    path,
		Member:  member,
		Display: display,
		Code:    code,
		Cause:   cause,
		Message: i18n.T("", code, params),
	}
}

// rebase reconstructs child failures under the computed member path. Entries
// are rebuilt, never mutated in place. A child path that already extends the
// computed path (collection items, nested members) is kept as is.
func rebase(fs Failures, path, member, display string) Failures {
	out := make(Failures, 0, len(fs))
	for _, f := range fs {
		nf := Failure{
			Path:    path,
			Member:  member,
			Display: display,
			Code:    f.Code,
			Message: f.Message,
			Cause:   f.Cause,
		}
		if f.Path != "" && strings.HasPrefix(f.Path, path) {
			nf.Path = f.Path
		}
		if nf.Cause == "" {
			nf.Cause = CauseRule
		}
		if nf.Display == "" {
			nf.Display = member
		}
		out = append(out, nf)
	}
	return out
}

// recoverInto converts a panic at an adapter boundary into a single
// internal-error rejection. Panic detail never reaches the failure message.
func recoverInto[T any](out *Validated[T], path, member, display string) {
	if r := recover(); r != nil {
		*out = Invalid[T](newFailure(path, member, display, CodeInternal, CauseInternal, nil))
	}
}
