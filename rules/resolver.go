package rules

import (
	"context"

	validated "github.com/code-dispenser/validated"
	"github.com/code-dispenser/validated/i18n"
	"go.uber.org/zap"
)

// Source supplies the immutable rule-row collection, for example from a
// cache refreshed on its own schedule. The resolver takes a snapshot per
// resolution call and performs no caching of resolution decisions; every
// call re-filters from the supplied collection.
type Source interface {
	Snapshot(ctx context.Context) ([]RuleConfig, error)
}

// Resolver matches configuration rows to a member by tenant, culture and
// version, builds a validator per row through the registry and composes the
// winning group into one validator that runs every rule and reports every
// failure.
type Resolver struct {
	reg *Registry
	src Source
	log *zap.Logger
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithRegistry swaps the rule-kind registry, DefaultRegistry otherwise.
func WithRegistry(reg *Registry) ResolverOption {
	return func(r *Resolver) {
		if reg != nil {
			r.reg = reg
		}
	}
}

// WithLogger attaches the logging collaborator. Without one the resolver
// proceeds silently.
func WithLogger(log *zap.Logger) ResolverOption {
	return func(r *Resolver) { r.log = log }
}

// NewResolver builds a Resolver over a rule-row source.
func NewResolver(src Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{reg: DefaultRegistry(), src: src}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry exposes the resolver's registry for runtime extension.
func (r *Resolver) Registry() *Registry { return r.reg }

// Resolve composes the applicable rules for (owning type, member) under the
// requested tenant, culture and target granularity:
//
//  1. Rows are filtered to the (type, member, target) group.
//  2. If any row carries a version, only rows sharing the single latest
//     version survive and their tenant and culture must equal the request
//     exactly; no fallback happens, even when nothing survives.
//  3. Otherwise tiers are tried in order, first non-empty wins, never
//     merged: (tenant, culture), (ALL, culture), (ALL, en-GB).
//  4. Unknown rule kinds become per-row bad-configuration rejections.
//  5. The group's validators compose sequentially so every rule runs.
//
// No matching rows is not a failure: an advisory is logged and an
// always-accept validator is returned.
func (r *Resolver) Resolve(ctx context.Context, typeName, member, tenant, culture, target string) validated.ValueValidator[any] {
	if tenant == "" {
		tenant = DefaultTenant
	}
	if culture == "" {
		culture = DefaultCulture
	}
	if target == "" {
		target = TargetItem
	}

	rows, err := r.snapshot(ctx, typeName, member, target)
	if err != nil {
		r.logError("rule snapshot unavailable", typeName, member, err)
		return badConfigValidator(RuleConfig{TypeName: typeName, Member: member}.normalized())
	}
	if len(rows) == 0 {
		r.logAdvisory(typeName, member)
		return validated.Accept[any]()
	}

	group, pinned := r.selectGroup(rows, tenant, culture)
	if len(group) == 0 {
		if pinned {
			r.logPinnedOut(typeName, member, tenant, culture)
		} else {
			r.logAdvisory(typeName, member)
		}
		return validated.Accept[any]()
	}

	var out validated.ValueValidator[any]
	for _, rc := range group {
		v := r.buildRow(rc, typeName, member)
		if out == nil {
			out = v
			continue
		}
		out = out.AndAlso(v)
	}
	return out
}

func (r *Resolver) snapshot(ctx context.Context, typeName, member, target string) ([]RuleConfig, error) {
	all, err := r.src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var rows []RuleConfig
	for _, rc := range all {
		rc = rc.normalized()
		if rc.TypeName == typeName && rc.Member == member && rc.Target == target {
			rows = append(rows, rc)
		}
	}
	return rows, nil
}

// selectGroup applies version pinning or tenant/culture tier fallback to a
// member's row group. Tiers are never merged. pinned reports whether version
// pinning was in effect, so an empty pinned group can be told apart from an
// unconfigured member.
func (r *Resolver) selectGroup(rows []RuleConfig, tenant, culture string) (group []RuleConfig, pinned bool) {
	versioned := false
	var latest Version
	for _, rc := range rows {
		if rc.Version == nil {
			continue
		}
		if !versioned || rc.Version.Compare(latest) > 0 {
			latest = *rc.Version
		}
		versioned = true
	}
	if versioned {
		for _, rc := range rows {
			if rc.Version == nil || rc.Version.Compare(latest) != 0 {
				continue
			}
			if rc.Tenant != tenant || !equalCulture(rc.Culture, culture) {
				continue
			}
			group = append(group, rc)
		}
		return group, true
	}

	tiers := [][2]string{
		{tenant, culture},
		{DefaultTenant, culture},
		{DefaultTenant, DefaultCulture},
	}
	for _, tier := range tiers {
		var tierGroup []RuleConfig
		for _, rc := range rows {
			if rc.Tenant == tier[0] && equalCulture(rc.Culture, tier[1]) {
				tierGroup = append(tierGroup, rc)
			}
		}
		if len(tierGroup) > 0 {
			return tierGroup, false
		}
	}
	return nil, false
}

// buildRow turns one row into a guarded validator. An unknown rule kind
// yields a bad-configuration rejection for that row instead of an error.
func (r *Resolver) buildRow(rc RuleConfig, typeName, member string) validated.ValueValidator[any] {
	builder, ok := r.reg.Lookup(rc.RuleKind)
	if !ok {
		if r.log != nil {
			r.log.Warn("unknown rule kind",
				zap.String("rule_kind", rc.RuleKind),
				zap.String("type", typeName),
				zap.String("member", member))
		}
		return badConfigValidator(rc)
	}
	return r.guard(rc, builder(rc))
}

// guard is the failure-isolation boundary around one rule's validator: a
// panic inside the rule body is logged with full detail and converted into a
// single internal-error rejection carrying only a generic safe message.
func (r *Resolver) guard(rc RuleConfig, v validated.ValueValidator[any]) validated.ValueValidator[any] {
	return func(ctx context.Context, value any, path string, against any) (out validated.Validated[any]) {
		defer func() {
			if p := recover(); p != nil {
				if r.log != nil {
					r.log.Error("rule execution panicked",
						zap.String("rule_kind", rc.RuleKind),
						zap.String("type", rc.TypeName),
						zap.String("member", rc.Member),
						zap.Any("panic", p))
				}
				out = validated.Invalid[any](validated.Failure{
					Path:    path,
					Member:  rc.Member,
					Display: rc.DisplayName(),
					Code:    validated.CodeInternal,
					Cause:   validated.CauseInternal,
					Message: i18n.T(rc.Culture, validated.CodeInternal, nil),
				})
			}
		}()
		return v(ctx, value, path, against)
	}
}

func (r *Resolver) logAdvisory(typeName, member string) {
	if r.log == nil {
		return
	}
	r.log.Info("no rules found for member",
		zap.String("type", typeName),
		zap.String("member", member))
}

func (r *Resolver) logPinnedOut(typeName, member, tenant, culture string) {
	if r.log == nil {
		return
	}
	r.log.Info("version pinning excluded every rule for member",
		zap.String("type", typeName),
		zap.String("member", member),
		zap.String("tenant", tenant),
		zap.String("culture", culture))
}

func (r *Resolver) logError(msg, typeName, member string, err error) {
	if r.log == nil {
		return
	}
	r.log.Error(msg,
		zap.String("type", typeName),
		zap.String("member", member),
		zap.Error(err))
}
