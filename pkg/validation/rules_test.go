package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-nodeconfig/pkg/schema"
	"github.com/goliatone/go-nodeconfig/pkg/value"
)

func message(issue *Issue) string {
	if issue == nil {
		return ""
	}
	return issue.Message()
}

func TestCheckRequired(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key:      "url",
		Label:    "URL",
		Required: true,
		Validation: &schema.Validation{
			MinLength: schema.IntPtr(10),
			Pattern:   "^https://",
		},
	})

	for _, in := range []value.Value{{}, value.Of(nil), value.Of("")} {
		issue := rules.Check(in)
		if issue == nil || issue.Kind != RequiredMissing {
			t.Fatalf("expected required issue for %s, got %+v", in.Kind(), issue)
		}
		if got := issue.Message(); got != "URL is required" {
			t.Fatalf("unexpected message %q", got)
		}
	}
}

func TestCheckRequiredFallsBackToKey(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{Key: "token", Required: true})
	if got := message(rules.CheckAny(nil)); got != "token is required" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCheckOptionalEmptyPasses(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "note",
		Validation: &schema.Validation{
			MinLength: schema.IntPtr(3),
			Pattern:   "^x+$",
			ValidJSON: true,
		},
	})

	for _, in := range []any{nil, ""} {
		if issue := rules.CheckAny(in); issue != nil {
			t.Fatalf("expected optional empty value %#v to pass, got %+v", in, issue)
		}
	}
	if issue := rules.Check(value.Value{}); issue != nil {
		t.Fatalf("expected absent value to pass, got %+v", issue)
	}
}

func TestCheckStringBranch(t *testing.T) {
	t.Parallel()

	def := schema.FieldDefinition{
		Key: "name",
		Validation: &schema.Validation{
			MinLength:      schema.IntPtr(2),
			MaxLength:      schema.IntPtr(5),
			Pattern:        `^\p{Ll}+$`,
			PatternMessage: "Lowercase letters only",
		},
	}
	rules := MustCompile(def)

	cases := map[string]string{
		"a":      "Minimum 2 characters",
		"abcdef": "Maximum 5 characters",
		"AB":     "Lowercase letters only",
		"abc":    "",
		"ñañ":    "",
	}
	for in, want := range cases {
		if got := message(rules.CheckAny(in)); got != want {
			t.Fatalf("Check(%q) = %q, want %q", in, got, want)
		}
	}

	def.Validation.PatternMessage = ""
	if got := message(MustCompile(def).CheckAny("AB")); got != "Invalid format" {
		t.Fatalf("expected default pattern message, got %q", got)
	}
}

func TestCheckFirstFailureWins(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "code",
		Validation: &schema.Validation{
			MinLength: schema.IntPtr(4),
			Pattern:   "^[0-9]+$",
		},
	})
	issue := rules.CheckAny("ab")
	if issue == nil || issue.Kind != StringTooShort {
		t.Fatalf("expected length issue to win over pattern, got %+v", issue)
	}
}

func TestCheckNumberBranch(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "count",
		Validation: &schema.Validation{
			Min: schema.FloatPtr(1),
			Max: schema.FloatPtr(10.5),
		},
	})

	cases := []struct {
		in   any
		want string
	}{
		{0, "Minimum value is 1"},
		{11, "Maximum value is 10.5"},
		{1, ""},
		{10.5, ""},
		{int64(5), ""},
	}
	for _, tc := range cases {
		if got := message(rules.CheckAny(tc.in)); got != tc.want {
			t.Fatalf("Check(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCheckListBranch(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "recipients",
		Validation: &schema.Validation{
			MinItems: schema.IntPtr(1),
			MaxItems: schema.IntPtr(2),
		},
	})

	if got := message(rules.CheckAny([]any{})); got != "At least 1 items required" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := message(rules.CheckAny([]string{"a", "b", "c"})); got != "Maximum 2 items" {
		t.Fatalf("unexpected message %q", got)
	}
	if issue := rules.CheckAny([]any{"a"}); issue != nil {
		t.Fatalf("expected single item to pass, got %+v", issue)
	}
}

func TestCheckIgnoresMismatchedBranches(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "mixed",
		Validation: &schema.Validation{
			MinLength: schema.IntPtr(5),
			Min:       schema.FloatPtr(100),
			MinItems:  schema.IntPtr(3),
		},
	})

	cases := []struct {
		in   any
		want IssueKind
	}{
		{"abc", StringTooShort},
		{5, NumberTooSmall},
		{[]any{1}, TooFewItems},
	}
	for _, tc := range cases {
		issue := rules.CheckAny(tc.in)
		if issue == nil || issue.Kind != tc.want {
			t.Fatalf("Check(%#v) = %+v, want kind %s", tc.in, issue, tc.want)
		}
	}

	if issue := rules.CheckAny(true); issue != nil {
		t.Fatalf("expected boolean to skip every branch, got %+v", issue)
	}
	if issue := rules.CheckAny(map[string]any{"a": 1}); issue != nil {
		t.Fatalf("expected object to skip every branch, got %+v", issue)
	}
}

func TestCheckValidJSON(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key:        "payload",
		Validation: &schema.Validation{ValidJSON: true},
	})

	if got := message(rules.CheckAny("{not json")); got != "Invalid JSON" {
		t.Fatalf("unexpected message %q", got)
	}
	for _, ok := range []string{`{"a":1}`, `[1,2]`, ` "text" `, `42`} {
		if issue := rules.CheckAny(ok); issue != nil {
			t.Fatalf("expected %q to parse, got %+v", ok, issue)
		}
	}
	if issue := rules.CheckAny(12); issue != nil {
		t.Fatalf("expected JSON check to apply to strings only, got %+v", issue)
	}
}

func TestCheckValidJSONAfterStringChecks(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "body",
		Validation: &schema.Validation{
			MaxLength: schema.IntPtr(3),
			ValidJSON: true,
		},
	})

	issue := rules.CheckAny("{bad json}")
	if issue == nil || issue.Kind != StringTooLong {
		t.Fatalf("expected string length issue first, got %+v", issue)
	}
	issue = rules.CheckAny("{x")
	if issue == nil || issue.Kind != InvalidJSON {
		t.Fatalf("expected JSON issue when string checks pass, got %+v", issue)
	}
}

func TestCompileRejectsInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := Compile(schema.FieldDefinition{
		Key:        "broken",
		Validation: &schema.Validation{Pattern: "(unclosed"},
	})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestCompileIgnoresNegativeLimits(t *testing.T) {
	t.Parallel()

	rules := MustCompile(schema.FieldDefinition{
		Key: "loose",
		Validation: &schema.Validation{
			MinLength: schema.IntPtr(-1),
			MaxItems:  schema.IntPtr(-5),
		},
	})
	if issue := rules.CheckAny("x"); issue != nil {
		t.Fatalf("expected negative minLength to be ignored, got %+v", issue)
	}
	if issue := rules.CheckAny([]any{1, 2}); issue != nil {
		t.Fatalf("expected negative maxItems to be ignored, got %+v", issue)
	}
}

func TestValidateField(t *testing.T) {
	t.Parallel()

	issue, err := ValidateField(schema.FieldDefinition{
		Key:        "email",
		Label:      "Email",
		Required:   true,
		Validation: &schema.Validation{Pattern: "^.+@.+$", PatternMessage: "Must be a valid email"},
	}, "not-an-email")
	if err != nil {
		t.Fatalf("ValidateField returned error: %v", err)
	}

	want := &Issue{Kind: PatternMismatch, Key: "email", Label: "Email", Custom: "Must be a valid email"}
	if diff := cmp.Diff(want, issue); diff != "" {
		t.Fatalf("issue mismatch (-want +got):\n%s", diff)
	}
}

func TestIssueMessages(t *testing.T) {
	t.Parallel()

	got := make(map[IssueKind]string)
	for _, kind := range Kinds() {
		got[kind] = Issue{Kind: kind, Key: "k", Label: "Field", Limit: 3}.Message()
	}
	want := map[IssueKind]string{
		RequiredMissing: "Field is required",
		StringTooShort:  "Minimum 3 characters",
		StringTooLong:   "Maximum 3 characters",
		PatternMismatch: "Invalid format",
		NumberTooSmall:  "Minimum value is 3",
		NumberTooLarge:  "Maximum value is 3",
		TooFewItems:     "At least 3 items required",
		TooManyItems:    "Maximum 3 items",
		InvalidJSON:     "Invalid JSON",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}
