package validated

import (
	"fmt"
	"strings"
)

// Cause tags classify why a failure was produced.
const (
	CauseRule     = "rule_failure"      // an ordinary rule rejection
	CauseConfig   = "bad_configuration" // a rule row is unusable for the value
	CauseInternal = "internal_error"    // unexpected error caught at a boundary
)

// Failure codes (exported consts for IDE completion and type safety by convention).
const (
	CodeRequired      = "required"
	CodePattern       = "pattern"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeInvalidFormat = "invalid_format"
	CodeComparison    = "comparison"
	CodeMaxDepth      = "max_depth_exceeded"
	CodeBadConfig     = "bad_configuration"
	CodeInternal      = "internal_error"
)

// Failure represents a single validation failure entry. Entries are
// constructed fresh at failure time; the enclosing adapter fills in Path,
// Member and Display when it lifts a value validator onto an object member.
type Failure struct {
	Path    string // Dotted/indexed location (for example: Order.Entries[1]).
	Member  string // Member identifier within the owning type.
	Display string // Human-facing member name.
	Code    string // One of the codes listed above.
	Message string
	Cause   string // One of the cause tags listed above.
}

// Failures is an ordered collection of failure entries. It implements error
// for interop at API boundaries; the engine itself never returns it as an
// error.
type Failures []Failure

// Error summarizes the first few failures.
func (fs Failures) Error() string {
	if len(fs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(fs)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", fs[i].Code, fs[i].Path)
	}
	if len(fs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(fs))
	}
	return b.String()
}

// At returns the failures located at the given path.
func (fs Failures) At(path string) Failures {
	var out Failures
	for _, f := range fs {
		if f.Path == path {
			out = append(out, f)
		}
	}
	return out
}

// Messages returns the failure messages in order.
func (fs Failures) Messages() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Message
	}
	return out
}
