package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-nodeconfig/pkg/schema"
	"github.com/goliatone/go-nodeconfig/pkg/value"
)

// ErrInvalidPattern is returned by Compile when a field's pattern is not a
// valid regular expression.
var ErrInvalidPattern = errors.New("validation: invalid pattern")

// Rules is the compiled form of one field's constraints. It is immutable and
// safe for concurrent use.
type Rules struct {
	key      string
	label    string
	required bool

	minLength  int
	maxLength  int
	pattern    *regexp.Regexp
	patternMsg string

	min, max  *float64
	minItems  int
	maxItems  int
	validJSON bool
}

// Compile prepares the constraints of def. Patterns are compiled here so a
// malformed expression rejects the schema instead of silently accepting every
// value. Negative lengths and item counts are treated as unset.
func Compile(def schema.FieldDefinition) (*Rules, error) {
	rules := &Rules{
		key:       def.Key,
		label:     def.DisplayLabel(),
		required:  def.Required,
		minLength: -1,
		maxLength: -1,
		minItems:  -1,
		maxItems:  -1,
	}
	v := def.Validation
	if v == nil {
		return rules, nil
	}

	rules.minLength = nonNegative(v.MinLength)
	rules.maxLength = nonNegative(v.MaxLength)
	rules.minItems = nonNegative(v.MinItems)
	rules.maxItems = nonNegative(v.MaxItems)
	rules.min = v.Min
	rules.max = v.Max
	rules.validJSON = v.ValidJSON
	rules.patternMsg = v.PatternMessage

	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w %q for field %q: %v", ErrInvalidPattern, v.Pattern, def.Key, err)
		}
		rules.pattern = re
	}
	return rules, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(def schema.FieldDefinition) *Rules {
	rules, err := Compile(def)
	if err != nil {
		panic(err)
	}
	return rules
}

func nonNegative(p *int) int {
	if p == nil || *p < 0 {
		return -1
	}
	return *p
}

// Key returns the field key the rules were compiled for.
func (r *Rules) Key() string { return r.key }

// Check validates v and returns the first failing issue, or nil when the
// value passes every applicable constraint.
//
// Order: the required check runs first and stops evaluation; an empty value
// on an optional field passes; then only the branch matching the value's
// kind runs (string, number, or list), first failure wins; finally a string
// value on a validJson field must parse as JSON.
func (r *Rules) Check(v value.Value) *Issue {
	if v.IsEmpty() {
		if r.required {
			return r.issue(RequiredMissing, 0)
		}
		return nil
	}

	switch v.Kind() {
	case value.String:
		s, _ := v.Str()
		if issue := r.checkString(s); issue != nil {
			return issue
		}
		if r.validJSON && !json.Valid([]byte(s)) {
			return r.issue(InvalidJSON, 0)
		}
	case value.Number:
		n, _ := v.Num()
		return r.checkNumber(n)
	case value.List:
		items, _ := v.Items()
		return r.checkItems(len(items))
	case value.Bool, value.Object, value.Absent, value.Null:
		// no constraints apply
	}
	return nil
}

// CheckAny is Check over an arbitrary Go value.
func (r *Rules) CheckAny(v any) *Issue {
	return r.Check(value.Of(v))
}

func (r *Rules) checkString(s string) *Issue {
	length := utf8.RuneCountInString(s)
	if r.minLength >= 0 && length < r.minLength {
		return r.issue(StringTooShort, float64(r.minLength))
	}
	if r.maxLength >= 0 && length > r.maxLength {
		return r.issue(StringTooLong, float64(r.maxLength))
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		issue := r.issue(PatternMismatch, 0)
		issue.Custom = r.patternMsg
		return issue
	}
	return nil
}

func (r *Rules) checkNumber(n float64) *Issue {
	if r.min != nil && n < *r.min {
		return r.issue(NumberTooSmall, *r.min)
	}
	if r.max != nil && n > *r.max {
		return r.issue(NumberTooLarge, *r.max)
	}
	return nil
}

func (r *Rules) checkItems(count int) *Issue {
	if r.minItems >= 0 && count < r.minItems {
		return r.issue(TooFewItems, float64(r.minItems))
	}
	if r.maxItems >= 0 && count > r.maxItems {
		return r.issue(TooManyItems, float64(r.maxItems))
	}
	return nil
}

func (r *Rules) issue(kind IssueKind, limit float64) *Issue {
	return &Issue{Kind: kind, Key: r.key, Label: r.label, Limit: limit}
}

// ValidateField compiles def and checks v in one step. The error is non-nil
// only when def itself is malformed.
func ValidateField(def schema.FieldDefinition, v any) (*Issue, error) {
	rules, err := Compile(def)
	if err != nil {
		return nil, err
	}
	return rules.CheckAny(v), nil
}
