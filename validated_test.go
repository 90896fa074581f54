package validated_test

import (
	"context"
	"strings"
	"testing"

	validated "github.com/code-dispenser/validated"
)

func fail(code, msg string) validated.Failure {
	return validated.Failure{Code: code, Message: msg, Cause: validated.CauseRule}
}

func TestValidated_Basics(t *testing.T) {
	ok := validated.Valid(42)
	if !ok.IsValid() || ok.ValueOr(0) != 42 {
		t.Fatalf("expected accepted 42, got %v", ok)
	}
	if fs := ok.Failures(); fs != nil {
		t.Fatalf("accepted result must carry no failures, got %v", fs)
	}

	bad := validated.Invalid[int](fail("too_small", "nope"))
	if bad.IsValid() {
		t.Fatalf("expected rejected result")
	}
	if got := bad.ValueOr(7); got != 7 {
		t.Fatalf("ValueOr fallback expected 7, got %d", got)
	}
	if fs := bad.Failures(); len(fs) != 1 || fs[0].Code != "too_small" {
		t.Fatalf("unexpected failures %v", fs)
	}
}

func TestInvalid_EmptyFailuresGuard(t *testing.T) {
	v := validated.Invalid[string]()
	fs := v.Failures()
	if v.IsValid() || len(fs) != 1 || fs[0].Cause != validated.CauseInternal {
		t.Fatalf("empty Invalid must substitute one internal failure, got %v", fs)
	}
}

func TestMap(t *testing.T) {
	doubled := validated.Map(validated.Valid(21), func(n int) int { return n * 2 })
	if doubled.ValueOr(0) != 42 {
		t.Fatalf("map over accepted expected 42, got %v", doubled.ValueOr(0))
	}

	called := false
	passed := validated.Map(validated.Invalid[int](fail("x", "x")), func(n int) int {
		called = true
		return n
	})
	if called {
		t.Fatalf("map must never invoke fn on a rejected result")
	}
	if passed.IsValid() || len(passed.Failures()) != 1 {
		t.Fatalf("rejected result must pass through untouched, got %v", passed.Failures())
	}
}

func TestCombine_AccumulatesAllFailuresInOrder(t *testing.T) {
	r := validated.Combine(
		func(vs []int) int { return len(vs) },
		validated.Invalid[int](fail("a", "a")),
		validated.Valid(1),
		validated.Invalid[int](fail("b", "b"), fail("c", "c")),
	)
	fs := r.Failures()
	if r.IsValid() || len(fs) != 3 {
		t.Fatalf("expected 3 accumulated failures, got %v", fs)
	}
	for i, want := range []string{"a", "b", "c"} {
		if fs[i].Code != want {
			t.Fatalf("failure %d: want code %s, got %s", i, want, fs[i].Code)
		}
	}

	all := validated.Combine(func(vs []int) int { return vs[0] + vs[1] }, validated.Valid(40), validated.Valid(2))
	if !all.IsValid() || all.ValueOr(0) != 42 {
		t.Fatalf("all-accepted combine expected 42, got %v", all.ValueOr(0))
	}
}

func TestAndAlso_RunsSecondAgainstOriginalInput(t *testing.T) {
	var secondSaw string
	first := func(_ context.Context, v string, _ string, _ any) validated.Validated[string] {
		return validated.Invalid[string](fail("shape", "bad shape"))
	}
	second := func(_ context.Context, v string, _ string, _ any) validated.Validated[string] {
		secondSaw = v
		return validated.Invalid[string](fail("length", "bad length"))
	}
	both := validated.ValueValidator[string](first).AndAlso(second)

	res := both(context.Background(), "input", "Field", nil)
	if secondSaw != "input" {
		t.Fatalf("second rule must run against the original input even after a rejection, saw %q", secondSaw)
	}
	fs := res.Failures()
	if len(fs) != 2 || fs[0].Code != "shape" || fs[1].Code != "length" {
		t.Fatalf("expected ordered [shape length], got %v", fs)
	}
}

func TestAccept(t *testing.T) {
	res := validated.Accept[string]()(context.Background(), "anything", "X", nil)
	if !res.IsValid() {
		t.Fatalf("Accept must accept, got %v", res.Failures())
	}
}

func TestFailures_ErrorSummary(t *testing.T) {
	fs := validated.Failures{
		{Code: "a", Path: "X"}, {Code: "b", Path: "Y"},
		{Code: "c", Path: "Z"}, {Code: "d", Path: "W"},
	}
	msg := fs.Error()
	if !strings.Contains(msg, "a at X") || !strings.Contains(msg, "total 4") {
		t.Fatalf("unexpected summary %q", msg)
	}
}
