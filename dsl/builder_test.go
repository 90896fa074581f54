package dsl_test

import (
	"context"
	"strings"
	"testing"

	validated "github.com/code-dispenser/validated"
	"github.com/code-dispenser/validated/dsl"
)

type account struct {
	Kind    string
	Name    string
	Email   string
	Company string
}

func nonEmpty() validated.ValueValidator[string] {
	return func(_ context.Context, v string, _ string, _ any) validated.Validated[string] {
		if v != "" {
			return validated.Valid(v)
		}
		return validated.Invalid[string](validated.Failure{Code: validated.CodeRequired, Message: "empty"})
	}
}

func nameCheck() validated.EntityValidator[*account] {
	return validated.ForMember("Name", "Name", func(a *account) string { return a.Name }, nonEmpty())
}

func TestBuilder_ZeroValidatorsAlwaysAccepts(t *testing.T) {
	check, err := dsl.New[*account]().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res := check(context.Background(), &account{}, "Account", validated.DefaultOptions()); !res.IsValid() {
		t.Fatalf("empty composer must always accept, got %v", res.Failures())
	}
}

func TestBuilder_NoDeduplication(t *testing.T) {
	check := dsl.New[*account]().
		Add(nameCheck()).
		Add(nameCheck()).
		MustBuild()

	fs := check(context.Background(), &account{}, "Account", validated.DefaultOptions()).Failures()
	if len(fs) != 2 {
		t.Fatalf("static composer must not deduplicate, got %d failures", len(fs))
	}
}

func TestBuilder_UnclosedScopeFailsAtBuildWithCount(t *testing.T) {
	_, err := dsl.New[*account]().
		When(func(a *account) bool { return a.Kind == "business" }).
		When(func(a *account) bool { return a.Company != "" }).
		Add(nameCheck()).
		Build()
	if err == nil || !strings.Contains(err.Error(), "2 unclosed") {
		t.Fatalf("expected unclosed-scope error naming 2 scopes, got %v", err)
	}
}

func TestBuilder_EndWhenWithoutWhenFailsAtBuild(t *testing.T) {
	_, err := dsl.New[*account]().EndWhen().Build()
	if err == nil {
		t.Fatalf("expected configuration error for stray EndWhen")
	}
}

func TestBuilder_ConditionalScopeSkipsWhenPredicateFalse(t *testing.T) {
	check := dsl.New[*account]().
		When(func(a *account) bool { return a.Kind == "business" }).
		Add(validated.ForMember("Company", "Company", func(a *account) string { return a.Company }, nonEmpty())).
		EndWhen().
		Add(nameCheck()).
		MustBuild()

	personal := check(context.Background(), &account{Kind: "personal", Name: "n"}, "Account", validated.DefaultOptions())
	if !personal.IsValid() {
		t.Fatalf("scoped validator must be skipped for personal accounts, got %v", personal.Failures())
	}

	business := check(context.Background(), &account{Kind: "business", Name: "n"}, "Account", validated.DefaultOptions())
	fs := business.Failures()
	if len(fs) != 1 || fs[0].Path != "Account.Company" {
		t.Fatalf("scoped validator must run for business accounts, got %v", fs)
	}
}

func TestBuilder_NestedScopesRequireBothPredicates(t *testing.T) {
	ran := 0
	probe := validated.EntityValidator[*account](func(_ context.Context, a *account, _ string, _ validated.Options) validated.Validated[*account] {
		ran++
		return validated.Valid(a)
	})

	check := dsl.New[*account]().
		When(func(a *account) bool { return a.Kind == "business" }).
		When(func(a *account) bool { return a.Company != "" }).
		Add(probe).
		EndWhen().
		EndWhen().
		MustBuild()

	ctx := context.Background()
	check(ctx, &account{Kind: "personal", Company: "x"}, "Account", validated.DefaultOptions())
	check(ctx, &account{Kind: "business"}, "Account", validated.DefaultOptions())
	if ran != 0 {
		t.Fatalf("inner validator ran with an unsatisfied predicate")
	}
	check(ctx, &account{Kind: "business", Company: "x"}, "Account", validated.DefaultOptions())
	if ran != 1 {
		t.Fatalf("inner validator must run when both predicates hold, ran=%d", ran)
	}
}

func TestBuilder_FailFastAbsentObject(t *testing.T) {
	build := func(failFast bool) validated.EntityValidator[*account] {
		b := dsl.New[*account]().
			Add(nameCheck()).
			Add(validated.ForMember("Email", "Email", func(a *account) string { return a.Email }, nonEmpty())).
			Add(validated.ForMember("Company", "Company", func(a *account) string { return a.Company }, nonEmpty()))
		if failFast {
			b.FailFast()
		}
		return b.MustBuild()
	}

	fast := build(true)(context.Background(), nil, "Account", validated.DefaultOptions())
	fs := fast.Failures()
	if len(fs) != 1 || fs[0].Cause != validated.CauseInternal {
		t.Fatalf("fail-fast mode must report exactly one internal failure, got %v", fs)
	}

	slow := build(false)(context.Background(), nil, "Account", validated.DefaultOptions())
	fs = slow.Failures()
	if len(fs) != 3 {
		t.Fatalf("normal mode must accumulate one internal failure per configured validator, got %v", fs)
	}
	for _, f := range fs {
		if f.Cause != validated.CauseInternal {
			t.Fatalf("expected internal cause for every failure, got %+v", f)
		}
	}
}

func TestBuilder_ScopedValidatorOnAbsentObjectReportsInternalFailure(t *testing.T) {
	check := dsl.New[*account]().
		When(func(a *account) bool { return a.Kind == "business" }).
		Add(validated.ForMember("Company", "Company", func(a *account) string { return a.Company }, nonEmpty())).
		EndWhen().
		Add(nameCheck()).
		MustBuild()

	res := check(context.Background(), nil, "Account", validated.DefaultOptions())
	fs := res.Failures()
	if len(fs) != 2 {
		t.Fatalf("absent object must yield one internal failure per configured validator, got %v", fs)
	}
	for _, f := range fs {
		if f.Cause != validated.CauseInternal {
			t.Fatalf("expected internal cause, got %+v", f)
		}
	}
}

func TestBuilder_FailureOrderFollowsConfigurationOrder(t *testing.T) {
	check := dsl.New[*account]().
		Add(validated.ForMember("Name", "Name", func(a *account) string { return a.Name }, nonEmpty())).
		Add(validated.ForMember("Email", "Email", func(a *account) string { return a.Email }, nonEmpty())).
		MustBuild()

	fs := check(context.Background(), &account{}, "Account", validated.DefaultOptions()).Failures()
	if len(fs) != 2 || fs[0].Path != "Account.Name" || fs[1].Path != "Account.Email" {
		t.Fatalf("failures must follow configuration order, got %v", fs)
	}
}
