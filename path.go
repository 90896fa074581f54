package validated

import "strconv"

// JoinPath appends a member name to a parent path using dot notation. At the
// root the member name stands alone.
func JoinPath(parent, member string) string {
	if parent == "" {
		return member
	}
	if member == "" {
		return parent
	}
	return parent + "." + member
}

// IndexedPath appends a zero-based element index to a collection path, for
// example "Order.Entries" and 1 yield "Order.Entries[1]".
func IndexedPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
