package rules

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// cultureInfo captures the locale-sensitive pieces needed to parse
// config-supplied comparison values: decimal/group separators and date
// layouts.
type cultureInfo struct {
	decimalSep     string
	groupSep       string
	dateLayout     string
	dateTimeLayout string
}

var supportedTags = []language.Tag{
	language.MustParse("en-GB"),
	language.MustParse("en-US"),
	language.MustParse("de-DE"),
	language.MustParse("fr-FR"),
}

var cultureTable = map[string]cultureInfo{
	"en-GB": {".", ",", "02/01/2006", "02/01/2006 15:04:05"},
	"en-US": {".", ",", "01/02/2006", "01/02/2006 15:04:05"},
	"de-DE": {",", ".", "02.01.2006", "02.01.2006 15:04:05"},
	"fr-FR": {",", " ", "02/01/2006", "02/01/2006 15:04:05"},
}

var cultureMatcher = language.NewMatcher(supportedTags)

// cultureFor canonicalizes a culture identifier and matches it against the
// supported set, falling back to the default culture. "en-gb" and "en-GB"
// resolve identically.
func cultureFor(culture string) cultureInfo {
	tag, err := language.Parse(culture)
	if err != nil {
		return cultureTable[DefaultCulture]
	}
	_, idx, conf := cultureMatcher.Match(tag)
	if conf == language.No {
		return cultureTable[DefaultCulture]
	}
	return cultureTable[supportedTags[idx].String()]
}

// equalCulture compares two culture identifiers after canonicalization.
func equalCulture(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return ta == tb
}

// parseDecimal parses a culture-formatted decimal, so "1,5" is 1.5 under
// de-DE and "1.5" under en-GB.
func parseDecimal(s, culture string) (float64, error) {
	ci := cultureFor(culture)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ci.groupSep, "")
	if ci.decimalSep != "." {
		s = strings.ReplaceAll(s, ci.decimalSep, ".")
	}
	return strconv.ParseFloat(s, 64)
}

// parseDate parses a culture-formatted date or datetime, accepting RFC 3339
// as a culture-neutral form.
func parseDate(s, culture string) (time.Time, error) {
	ci := cultureFor(culture)
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(ci.dateTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(ci.dateLayout, s)
}

// parseDayOffset parses a relative day offset such as "-30", "+7" or "30d".
func parseDayOffset(s string) (int, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "d"))
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "+"))
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseComparand parses a config-supplied value according to the row's
// value-type hint and culture.
func parseComparand(s string, rc RuleConfig) (any, error) {
	switch rc.ValueKind {
	case ValueInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case ValueDecimal:
		return parseDecimal(s, rc.Culture)
	case ValueDate, ValueDateTime:
		return parseDate(s, rc.Culture)
	default:
		return s, nil
	}
}
