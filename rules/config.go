// Package rules implements the configuration-driven side of the validation
// engine: the declarative rule row model, the string-keyed registry of
// rule-builder capabilities and the resolver that matches rows to a member by
// tenant, culture and version and composes them into one validator.
package rules

import "time"

// Rule kind identifiers. These are data, not code: a row names its kind and
// the registry maps the name to a builder capability, so new kinds can be
// introduced by configuration plus a registered capability without
// recompiling the resolution engine.
const (
	KindPattern          = "pattern"
	KindStringLength     = "string_length"
	KindNumberRange      = "number_range"
	KindCollectionLength = "collection_length"
	KindDateWindow       = "date_window"
	KindDecimalPrecision = "decimal_precision"
	KindURL              = "url"
	KindCompareMember    = "compare_member"
	KindCompareValue     = "compare_value"
	KindCompareObject    = "compare_object"
)

// Target granularity: whether a rule applies to each element of a collection
// or to the collection as a whole. The two feed distinct, non-interfering
// attachment points.
const (
	TargetItem       = "item"
	TargetCollection = "collection"
)

// Comparison kinds for the compare_* rules.
const (
	CompareEq = "eq"
	CompareNe = "ne"
	CompareGt = "gt"
	CompareGe = "ge"
	CompareLt = "lt"
	CompareLe = "le"
)

// Value-type hints for parsing config-supplied comparison values.
const (
	ValueString   = "string"
	ValueInteger  = "integer"
	ValueDecimal  = "decimal"
	ValueDate     = "date"
	ValueDateTime = "datetime"
)

// Resolution defaults.
const (
	DefaultTenant  = "ALL"
	DefaultCulture = "en-GB"
)

// Version is an optional rule version triple. When any row in a member's
// group carries a version, the single latest version becomes the sole
// selection key for the group and tenant/culture fallback is disabled.
type Version struct {
	Major int       `json:"major" yaml:"major" toml:"major"`
	Minor int       `json:"minor" yaml:"minor" toml:"minor"`
	Patch int       `json:"patch" yaml:"patch" toml:"patch"`
	Stamp time.Time `json:"stamp,omitempty" yaml:"stamp,omitempty" toml:"stamp,omitempty"`
}

// Compare orders versions by major, then minor, then patch. Stamp is never
// compared.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return diff(v.Major, o.Major)
	case v.Minor != o.Minor:
		return diff(v.Minor, o.Minor)
	default:
		return diff(v.Patch, o.Patch)
	}
}

func diff(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// RuleConfig is one declarative rule row. Rows are immutable: the engine
// takes a snapshot collection per resolution call and never mutates or
// merges rows field by field.
type RuleConfig struct {
	TypeName      string            `json:"type_name" yaml:"type_name" toml:"type_name"`
	Member        string            `json:"member" yaml:"member" toml:"member"`
	Display       string            `json:"display,omitempty" yaml:"display,omitempty" toml:"display,omitempty"`
	RuleKind      string            `json:"rule_kind" yaml:"rule_kind" toml:"rule_kind"`
	ValueKind     string            `json:"value_kind,omitempty" yaml:"value_kind,omitempty" toml:"value_kind,omitempty"`
	Pattern       string            `json:"pattern,omitempty" yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Min           string            `json:"min,omitempty" yaml:"min,omitempty" toml:"min,omitempty"`
	Max           string            `json:"max,omitempty" yaml:"max,omitempty" toml:"max,omitempty"`
	CompareValue  string            `json:"compare_value,omitempty" yaml:"compare_value,omitempty" toml:"compare_value,omitempty"`
	CompareMember string            `json:"compare_member,omitempty" yaml:"compare_member,omitempty" toml:"compare_member,omitempty"`
	CompareKind   string            `json:"compare_kind,omitempty" yaml:"compare_kind,omitempty" toml:"compare_kind,omitempty"`
	Target        string            `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	Tenant        string            `json:"tenant,omitempty" yaml:"tenant,omitempty" toml:"tenant,omitempty"`
	Culture       string            `json:"culture,omitempty" yaml:"culture,omitempty" toml:"culture,omitempty"`
	Extra         map[string]string `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
	Version       *Version          `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
}

// normalized returns a copy with resolution defaults applied. The supplied
// snapshot is never touched.
func (rc RuleConfig) normalized() RuleConfig {
	if rc.Tenant == "" {
		rc.Tenant = DefaultTenant
	}
	if rc.Culture == "" {
		rc.Culture = DefaultCulture
	}
	if rc.Target == "" {
		rc.Target = TargetItem
	}
	if rc.ValueKind == "" {
		rc.ValueKind = ValueString
	}
	return rc
}

// DisplayName returns the display name, falling back to the member
// identifier.
func (rc RuleConfig) DisplayName() string {
	if rc.Display != "" {
		return rc.Display
	}
	return rc.Member
}
