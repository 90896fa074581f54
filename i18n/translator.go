package i18n

import (
	"fmt"
	"strings"
)

// DefaultCulture is used when no culture is supplied or the requested culture
// has no dictionary entry.
const DefaultCulture = "en-GB"

// Translator retrieves localized messages for failure codes. params provides
// optional values to embed in the message, for example "min" or "max".
type Translator interface {
	Message(culture, code string, params map[string]any) string
}

// dictTranslator is the built-in dictionary-based Translator. Only the
// default culture ships built in; register a custom Translator for others.
type dictTranslator struct{}

var enGB = map[string]string{
	"required":           "a value is required",
	"pattern":            "value does not match the required pattern",
	"too_short":          "must be at least {min} characters",
	"too_long":           "must be no more than {max} characters",
	"too_small":          "must be at least {min}",
	"too_big":            "must be no more than {max}",
	"invalid_format":     "value is not in a valid format",
	"comparison":         "value fails the {kind} comparison",
	"max_depth_exceeded": "maximum recursion depth exceeded",
	"bad_configuration":  "the rule configuration could not be applied",
	"internal_error":     "an unexpected error occurred during validation",
}

func (dictTranslator) Message(_, code string, params map[string]any) string {
	msg, ok := enGB[code]
	if !ok {
		return code
	}
	return interpolate(msg, params)
}

// interpolate substitutes {key} placeholders from params.
func interpolate(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return msg
}

var currentTranslator Translator = dictTranslator{}

// T translates a failure code for the given culture using the current
// Translator. An empty culture means DefaultCulture.
func T(culture, code string, params map[string]any) string {
	if culture == "" {
		culture = DefaultCulture
	}
	return currentTranslator.Message(culture, code, params)
}

// SetTranslator replaces the Translator implementation. Passing nil restores
// the built-in dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{}
		return
	}
	currentTranslator = tr
}
