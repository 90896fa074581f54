package rules

import (
	"context"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	validated "github.com/code-dispenser/validated"
	"github.com/code-dispenser/validated/i18n"
)

// ruleFailure builds an ordinary rule rejection for a row, honoring a
// per-row message override in Extra["message"].
func ruleFailure(rc RuleConfig, path, code string, params map[string]any) validated.Failure {
	msg := rc.Extra["message"]
	if msg == "" {
		msg = i18n.T(rc.Culture, code, params)
	}
	return validated.Failure{
		Path:    path,
		Member:  rc.Member,
		Display: rc.DisplayName(),
		Code:    code,
		Cause:   validated.CauseRule,
		Message: msg,
	}
}

// configFailure builds a bad-configuration rejection: the row is structurally
// unusable for the value it was asked to validate.
func configFailure(rc RuleConfig, path string) validated.Failure {
	return validated.Failure{
		Path:    path,
		Member:  rc.Member,
		Display: rc.DisplayName(),
		Code:    validated.CodeBadConfig,
		Cause:   validated.CauseConfig,
		Message: i18n.T(rc.Culture, validated.CodeBadConfig, nil),
	}
}

// badConfigValidator rejects every value with a bad-configuration failure.
// Builders return it when a row cannot be compiled at all.
func badConfigValidator(rc RuleConfig) validated.ValueValidator[any] {
	return func(_ context.Context, _ any, path string, _ any) validated.Validated[any] {
		return validated.Invalid[any](configFailure(rc, path))
	}
}

func buildPattern(rc RuleConfig) validated.ValueValidator[any] {
	re, err := regexp.Compile(rc.Pattern)
	if err != nil || rc.Pattern == "" {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		s, ok := v.(string)
		if !ok {
			return validated.Invalid[any](configFailure(rc, path))
		}
		if re.MatchString(s) {
			return validated.Valid(v)
		}
		return validated.Invalid[any](ruleFailure(rc, path, validated.CodePattern, map[string]any{"pattern": rc.Pattern}))
	}
}

func buildStringLength(rc RuleConfig) validated.ValueValidator[any] {
	min, max, err := intBounds(rc)
	if err != nil {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		s, ok := v.(string)
		if !ok {
			return validated.Invalid[any](configFailure(rc, path))
		}
		n := utf8.RuneCountInString(s)
		var fs validated.Failures
		if min != nil && n < *min {
			fs = append(fs, ruleFailure(rc, path, validated.CodeTooShort, map[string]any{"min": *min, "got": n}))
		}
		if max != nil && n > *max {
			fs = append(fs, ruleFailure(rc, path, validated.CodeTooLong, map[string]any{"max": *max, "got": n}))
		}
		if len(fs) > 0 {
			return validated.Invalid[any](fs...)
		}
		return validated.Valid(v)
	}
}

func buildNumberRange(rc RuleConfig) validated.ValueValidator[any] {
	min, max, err := decimalBounds(rc)
	if err != nil {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		n, ok := toFloat(v)
		if !ok {
			return validated.Invalid[any](configFailure(rc, path))
		}
		var fs validated.Failures
		if min != nil && n < *min {
			fs = append(fs, ruleFailure(rc, path, validated.CodeTooSmall, map[string]any{"min": *min, "got": n}))
		}
		if max != nil && n > *max {
			fs = append(fs, ruleFailure(rc, path, validated.CodeTooBig, map[string]any{"max": *max, "got": n}))
		}
		if len(fs) > 0 {
			return validated.Invalid[any](fs...)
		}
		return validated.Valid(v)
	}
}

func buildCollectionLength(rc RuleConfig) validated.ValueValidator[any] {
	min, max, err := intBounds(rc)
	if err != nil {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		n, ok := collectionLen(v)
		if !ok {
			return validated.Invalid[any](configFailure(rc, path))
		}
		var fs validated.Failures
		if min != nil && n < *min {
			fs = append(fs, ruleFailure(rc, path, validated.CodeTooSmall, map[string]any{"min": *min, "got": n}))
		}
		if max != nil && n > *max {
			fs = append(fs, ruleFailure(rc, path, validated.CodeTooBig, map[string]any{"max": *max, "got": n}))
		}
		if len(fs) > 0 {
			return validated.Invalid[any](fs...)
		}
		return validated.Valid(v)
	}
}

// buildDateWindow validates a time.Time against a window whose bounds are
// either relative day offsets from now ("-30", "+7") or culture-formatted
// absolute dates.
func buildDateWindow(rc RuleConfig) validated.ValueValidator[any] {
	lower, err := windowBound(rc.Min, rc)
	if err != nil {
		return badConfigValidator(rc)
	}
	upper, err := windowBound(rc.Max, rc)
	if err != nil {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		t, ok := v.(time.Time)
		if !ok {
			return validated.Invalid[any](configFailure(rc, path))
		}
		var fs validated.Failures
		if lower != nil {
			if lo := lower(); t.Before(lo) {
				fs = append(fs, ruleFailure(rc, path, validated.CodeTooSmall, map[string]any{"min": lo.Format("2006-01-02")}))
			}
		}
		if upper != nil {
			if hi := upper(); t.After(hi) {
				fs = append(fs, ruleFailure(rc, path, validated.CodeTooBig, map[string]any{"max": hi.Format("2006-01-02")}))
			}
		}
		if len(fs) > 0 {
			return validated.Invalid[any](fs...)
		}
		return validated.Valid(v)
	}
}

func buildDecimalPrecision(rc RuleConfig) validated.ValueValidator[any] {
	precision, errP := strconv.Atoi(rc.Extra["precision"])
	scale, errS := strconv.Atoi(rc.Extra["scale"])
	if errP != nil || errS != nil || precision <= 0 || scale < 0 || scale > precision {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		var s string
		switch t := v.(type) {
		case string:
			s = t
		default:
			n, ok := toFloat(v)
			if !ok {
				return validated.Invalid[any](configFailure(rc, path))
			}
			s = strconv.FormatFloat(n, 'f', -1, 64)
		}
		digits, frac, ok := digitCounts(s, rc.Culture)
		if !ok {
			return validated.Invalid[any](ruleFailure(rc, path, validated.CodeInvalidFormat, nil))
		}
		if digits > precision || frac > scale {
			return validated.Invalid[any](ruleFailure(rc, path, validated.CodeInvalidFormat,
				map[string]any{"precision": precision, "scale": scale}))
		}
		return validated.Valid(v)
	}
}

func buildURL(rc RuleConfig) validated.ValueValidator[any] {
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		s, ok := v.(string)
		if !ok {
			return validated.Invalid[any](configFailure(rc, path))
		}
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return validated.Invalid[any](ruleFailure(rc, path, validated.CodeInvalidFormat, nil))
		}
		return validated.Valid(v)
	}
}

// buildCompareValue compares the input against a value parsed from the row
// itself; no comparison value is supplied at validation time.
func buildCompareValue(rc RuleConfig) validated.ValueValidator[any] {
	want, err := parseComparand(rc.CompareValue, rc)
	if err != nil || !validCompareKind(rc.CompareKind) {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, _ any) validated.Validated[any] {
		ok, comparable := compareAny(v, want, rc.CompareKind)
		if !comparable {
			return validated.Invalid[any](configFailure(rc, path))
		}
		if ok {
			return validated.Valid(v)
		}
		return validated.Invalid[any](ruleFailure(rc, path, validated.CodeComparison,
			map[string]any{"kind": rc.CompareKind, "want": want}))
	}
}

// buildCompareAgainst serves both cross-member and cross-object comparison:
// the comparison value arrives through the validator's against parameter,
// populated by the comparison adapter.
func buildCompareAgainst(rc RuleConfig) validated.ValueValidator[any] {
	if !validCompareKind(rc.CompareKind) {
		return badConfigValidator(rc)
	}
	return func(_ context.Context, v any, path string, against any) validated.Validated[any] {
		if against == nil {
			return validated.Invalid[any](configFailure(rc, path))
		}
		ok, comparable := compareAny(v, against, rc.CompareKind)
		if !comparable {
			return validated.Invalid[any](configFailure(rc, path))
		}
		if ok {
			return validated.Valid(v)
		}
		return validated.Invalid[any](ruleFailure(rc, path, validated.CodeComparison,
			map[string]any{"kind": rc.CompareKind, "member": rc.CompareMember}))
	}
}

// ---- shared helpers ----

func intBounds(rc RuleConfig) (min, max *int, err error) {
	if rc.Min != "" {
		n, e := strconv.Atoi(strings.TrimSpace(rc.Min))
		if e != nil {
			return nil, nil, e
		}
		min = &n
	}
	if rc.Max != "" {
		n, e := strconv.Atoi(strings.TrimSpace(rc.Max))
		if e != nil {
			return nil, nil, e
		}
		max = &n
	}
	return min, max, nil
}

func decimalBounds(rc RuleConfig) (min, max *float64, err error) {
	if rc.Min != "" {
		n, e := parseDecimal(rc.Min, rc.Culture)
		if e != nil {
			return nil, nil, e
		}
		min = &n
	}
	if rc.Max != "" {
		n, e := parseDecimal(rc.Max, rc.Culture)
		if e != nil {
			return nil, nil, e
		}
		max = &n
	}
	return min, max, nil
}

// windowBound compiles one date-window bound into a function of the current
// time, or nil when the bound is empty.
func windowBound(s string, rc RuleConfig) (func() time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if days, ok := parseDayOffset(s); ok {
		return func() time.Time { return time.Now().AddDate(0, 0, days) }, nil
	}
	t, err := parseDate(s, rc.Culture)
	if err != nil {
		return nil, err
	}
	return func() time.Time { return t }, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func collectionLen(v any) (int, bool) {
	if v == nil {
		return 0, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// digitCounts counts total and fractional digits of a culture-formatted
// decimal string.
func digitCounts(s, culture string) (digits, frac int, ok bool) {
	ci := cultureFor(culture)
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	s = strings.ReplaceAll(s, ci.groupSep, "")
	if ci.decimalSep != "." {
		s = strings.ReplaceAll(s, ci.decimalSep, ".")
	}
	if s == "" {
		return 0, 0, false
	}
	whole, fraction, _ := strings.Cut(s, ".")
	for _, part := range []string{whole, fraction} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return 0, 0, false
			}
		}
	}
	whole = strings.TrimLeft(whole, "0")
	return len(whole) + len(fraction), len(fraction), true
}

func validCompareKind(kind string) bool {
	switch kind {
	case CompareEq, CompareNe, CompareGt, CompareGe, CompareLt, CompareLe:
		return true
	}
	return false
}

// compareAny compares two values under a comparison kind. The second return
// reports whether the pair was comparable at all: equality works for any
// pair, ordering needs numerics, strings or times on both sides.
func compareAny(a, b any, kind string) (holds, comparable bool) {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return ordered(compareFloat(af, bf), kind), true
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return ordered(strings.Compare(as, bs), kind), true
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return ordered(at.Compare(bt), kind), true
		}
	}
	switch kind {
	case CompareEq:
		return reflect.DeepEqual(a, b), true
	case CompareNe:
		return !reflect.DeepEqual(a, b), true
	}
	return false, false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ordered(cmp int, kind string) bool {
	switch kind {
	case CompareEq:
		return cmp == 0
	case CompareNe:
		return cmp != 0
	case CompareGt:
		return cmp > 0
	case CompareGe:
		return cmp >= 0
	case CompareLt:
		return cmp < 0
	case CompareLe:
		return cmp <= 0
	}
	return false
}
