package expr

import (
	"testing"

	"github.com/goliatone/go-nodeconfig/pkg/visibility"
)

func mustEval(t *testing.T, rule string, values map[string]any) bool {
	t.Helper()

	ok, err := New().Eval("field", rule, visibility.Context{Values: values})
	if err != nil {
		t.Fatalf("Eval(%q) returned error: %v", rule, err)
	}
	return ok
}

func TestEvaluatorBooleanComparison(t *testing.T) {
	t.Parallel()

	if !mustEval(t, "enabled == true", map[string]any{"enabled": true}) {
		t.Fatalf("expected true")
	}
	if !mustEval(t, "enabled == true", map[string]any{"enabled": "true"}) {
		t.Fatalf("expected true for string true")
	}
	if !mustEval(t, "enabled == false", map[string]any{}) {
		t.Fatalf("expected missing value to compare as false")
	}
}

func TestEvaluatorTruthyAndNot(t *testing.T) {
	t.Parallel()

	if !mustEval(t, "enabled", map[string]any{"enabled": true}) {
		t.Fatalf("expected true")
	}
	if !mustEval(t, "!enabled", map[string]any{"enabled": false}) {
		t.Fatalf("expected true for !false")
	}
	if !mustEval(t, "not enabled", map[string]any{}) {
		t.Fatalf("expected true for not <missing>")
	}
	if mustEval(t, "tags", map[string]any{"tags": []any{}}) {
		t.Fatalf("expected empty list to be falsy")
	}
}

func TestEvaluatorStringEquality(t *testing.T) {
	t.Parallel()

	values := map[string]any{"mode": "a"}
	if !mustEval(t, `mode == "a"`, values) {
		t.Fatalf("expected double-quoted literal to match")
	}
	if !mustEval(t, `mode == 'a'`, values) {
		t.Fatalf("expected single-quoted literal to match")
	}
	if !mustEval(t, `mode == a`, values) {
		t.Fatalf("expected bare literal to be read as a string")
	}
	if !mustEval(t, `mode != "b"`, values) {
		t.Fatalf("expected inequality to hold")
	}
	if !mustEval(t, `missing == ""`, values) {
		t.Fatalf("expected absent value to equal the empty string")
	}
	if !mustEval(t, `quote == 'it\'s'`, map[string]any{"quote": "it's"}) {
		t.Fatalf("expected escaped quote in single-quoted literal")
	}
}

func TestEvaluatorNumberComparison(t *testing.T) {
	t.Parallel()

	if !mustEval(t, "retries == 3", map[string]any{"retries": 3}) {
		t.Fatalf("expected int to match number literal")
	}
	if !mustEval(t, "retries == 3", map[string]any{"retries": "3"}) {
		t.Fatalf("expected numeric string to match number literal")
	}
	if mustEval(t, "retries == 0", map[string]any{}) {
		t.Fatalf("expected absent value not to equal zero")
	}
	if !mustEval(t, "retries != 0", map[string]any{}) {
		t.Fatalf("expected absent value to differ from zero")
	}
}

func TestEvaluatorMembership(t *testing.T) {
	t.Parallel()

	if !mustEval(t, `method in ["POST", "PUT"]`, map[string]any{"method": "PUT"}) {
		t.Fatalf("expected PUT to be in the set")
	}
	if mustEval(t, `method in ["POST", "PUT"]`, map[string]any{"method": "GET"}) {
		t.Fatalf("expected GET not to be in the set")
	}
	if !mustEval(t, `method not in ["POST", "PUT"]`, map[string]any{"method": "GET"}) {
		t.Fatalf("expected not in to hold for GET")
	}
	if !mustEval(t, `method not in [POST]`, map[string]any{}) {
		t.Fatalf("expected absent value not to be in the set")
	}
	if !mustEval(t, `level in [1, 2]`, map[string]any{"level": 2.0}) {
		t.Fatalf("expected numeric membership")
	}
	if !mustEval(t, `channels in ["sms"]`, map[string]any{"channels": []any{"email", "sms"}}) {
		t.Fatalf("expected list value to intersect the set")
	}
	if mustEval(t, `mode in []`, map[string]any{"mode": "a"}) {
		t.Fatalf("expected empty set to never match")
	}
	if !mustEval(t, `mode in [null, "a"]`, map[string]any{}) {
		t.Fatalf("expected null member to match absence")
	}
}

func TestEvaluatorDotLookup(t *testing.T) {
	t.Parallel()

	if !mustEval(t, `auth.type != ""`, map[string]any{"auth.type": "basic"}) {
		t.Fatalf("expected true for flattened dotted key")
	}
	if !mustEval(t, `auth.type == "basic"`, map[string]any{
		"auth": map[string]any{"type": "basic"},
	}) {
		t.Fatalf("expected true for nested map lookup")
	}
}

func TestEvaluatorExtras(t *testing.T) {
	t.Parallel()

	ok, err := New().Eval("field", `extras.role == "admin"`, visibility.Context{
		Extras: map[string]any{"role": "admin"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected extras lookup to match")
	}
}

func TestEvaluatorNullLiteral(t *testing.T) {
	t.Parallel()

	if !mustEval(t, "missing == null", map[string]any{}) {
		t.Fatalf("expected true for missing == null")
	}
	if !mustEval(t, "enabled != null", map[string]any{"enabled": false}) {
		t.Fatalf("expected true for present != null")
	}
	if !mustEval(t, "cleared == nil", map[string]any{"cleared": nil}) {
		t.Fatalf("expected explicit nil to match null")
	}
}

func TestEvaluatorBooleanComposition(t *testing.T) {
	t.Parallel()

	values := map[string]any{"enabled": true, "role": "user"}
	if mustEval(t, `enabled == true && role == "admin"`, values) {
		t.Fatalf("expected false for conjunction mismatch")
	}
	if !mustEval(t, `enabled == true || role == "admin"`, values) {
		t.Fatalf("expected true for disjunction")
	}
	if !mustEval(t, `enabled and (role == "admin" or role == "user")`, values) {
		t.Fatalf("expected word operators and grouping to work")
	}
	if mustEval(t, `!(enabled && role == "user")`, values) {
		t.Fatalf("expected negated group to be false")
	}
}

func TestCompileEmptyRuleAlwaysVisible(t *testing.T) {
	t.Parallel()

	program, err := Compile("   ")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if !program.Eval(visibility.Context{}) {
		t.Fatalf("expected empty rule to evaluate true")
	}

	var nilProgram *Program
	if !nilProgram.Eval(visibility.Context{}) {
		t.Fatalf("expected nil program to evaluate true")
	}
}

func TestCompileRejectsMalformedRules(t *testing.T) {
	t.Parallel()

	rules := []string{
		"mode = 'a'",
		"a & b",
		"a | b",
		`mode == "open`,
		"(a",
		"a ==",
		"mode in a",
		"mode in [a, [b]]",
		"mode in [a, b",
		"a b",
		"== a",
		"count == -",
	}
	for _, rule := range rules {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("expected Compile(%q) to fail", rule)
		}
	}
}

func TestProgramIsReusable(t *testing.T) {
	t.Parallel()

	program := MustCompile(`mode == "b"`)
	if program.Source() != `mode == "b"` {
		t.Fatalf("unexpected source %q", program.Source())
	}
	for i := 0; i < 3; i++ {
		if program.Eval(visibility.Context{Values: map[string]any{"mode": "a"}}) {
			t.Fatalf("expected false on iteration %d", i)
		}
		if !program.Eval(visibility.Context{Values: map[string]any{"mode": "b"}}) {
			t.Fatalf("expected true on iteration %d", i)
		}
	}
}
