package validated

import "context"

// ForEachItem validates every element of a collection member, regardless of
// earlier element outcomes, and concatenates element failures in index order.
// Each element's path carries a zero-based index suffix, for example
// "Parent.Entries[1]". An absent or empty collection is accepted; attach a
// whole-collection rule when emptiness itself must be rejected.
func ForEachItem[T, E any](member, display string, get func(T) []E, check ValueValidator[E]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		base := JoinPath(path, member)
		defer recoverInto(&out, base, member, display)
		var fs Failures
		for i, item := range get(entity) {
			at := IndexedPath(base, i)
			res := check(ctx, item, at, nil)
			if !res.IsValid() {
				fs = append(fs, rebase(res.Failures(), at, member, display)...)
			}
		}
		if len(fs) > 0 {
			return Invalid[T](fs...)
		}
		return Valid(entity)
	}
}

// ForCollection validates properties of a collection member as a single unit,
// length for example. It is a distinct attachment point from ForEachItem:
// both may be attached to the same member and their failures accumulate
// additively without interfering.
func ForCollection[T, E any](member, display string, get func(T) []E, check ValueValidator[[]E]) EntityValidator[T] {
	return func(ctx context.Context, entity T, path string, opts Options) (out Validated[T]) {
		full := JoinPath(path, member)
		defer recoverInto(&out, full, member, display)
		res := check(ctx, get(entity), full, nil)
		if res.IsValid() {
			return Valid(entity)
		}
		return Invalid[T](rebase(res.Failures(), full, member, display)...)
	}
}
