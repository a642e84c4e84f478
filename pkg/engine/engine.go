package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-nodeconfig/pkg/schema"
	"github.com/goliatone/go-nodeconfig/pkg/validation"
	"github.com/goliatone/go-nodeconfig/pkg/value"
	"github.com/goliatone/go-nodeconfig/pkg/visibility"
	"github.com/goliatone/go-nodeconfig/pkg/visibility/expr"
)

var (
	// ErrMissingKey is returned when a field definition has an empty key.
	ErrMissingKey = errors.New("engine: field key is required")
	// ErrInvalidCondition is returned when a visibleWhen condition does not parse.
	ErrInvalidCondition = errors.New("engine: invalid visibility condition")
	// ErrInvalidPattern is returned when a pattern is not a valid regular expression.
	ErrInvalidPattern = validation.ErrInvalidPattern
)

// Result maps field keys to a single error message. Keys without an entry are
// valid or were not visible.
type Result map[string]string

// Valid reports whether the result holds no errors.
func (r Result) Valid() bool { return len(r) == 0 }

// Keys returns the keys with errors in sorted order.
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Evaluation is the full outcome of one pass: the visible definitions (one
// per key, declaration order) and the issues raised against them.
type Evaluation struct {
	Visible []schema.FieldDefinition
	Issues  []validation.Issue
}

// Result renders the evaluation's issues as a key to message mapping.
func (e Evaluation) Result() Result {
	out := make(Result, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.Key] = issue.Message()
	}
	return out
}

// Option configures Compile.
type Option func(*options)

type options struct {
	evaluator visibility.Evaluator
}

// WithEvaluator replaces the built-in condition language with a custom
// evaluator. Rules are passed through as rendered by Condition.Expression and
// are not parsed at compile time. An evaluator error leaves the field
// visible, so a broken rule never hides a required field from validation.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(o *options) {
		o.evaluator = evaluator
	}
}

type entry struct {
	def     schema.FieldDefinition
	rule    string
	program *expr.Program
	rules   *validation.Rules
}

// Compiled is a schema whose patterns and conditions have been prepared.
// It holds no mutable state and is safe for concurrent use.
type Compiled struct {
	entries   []entry
	evaluator visibility.Evaluator
}

// Compile validates the schema's own shape and prepares it for repeated
// evaluation. Invalid patterns and unparsable conditions reject the schema.
func Compile(s schema.Schema, opts ...Option) (*Compiled, error) {
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	compiled := &Compiled{
		entries:   make([]entry, 0, len(s)),
		evaluator: cfg.evaluator,
	}
	for idx, def := range s {
		if strings.TrimSpace(def.Key) == "" {
			return nil, fmt.Errorf("%w (field #%d)", ErrMissingKey, idx)
		}

		rules, err := validation.Compile(def)
		if err != nil {
			return nil, fmt.Errorf("engine: field #%d: %w", idx, err)
		}

		e := entry{def: def, rules: rules, rule: def.VisibleWhen.Expression()}
		if e.rule != "" && cfg.evaluator == nil {
			program, err := expr.Compile(e.rule)
			if err != nil {
				return nil, fmt.Errorf("%w for field %q (#%d): %v", ErrInvalidCondition, def.Key, idx, err)
			}
			e.program = program
		}
		compiled.entries = append(compiled.entries, e)
	}
	return compiled, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(s schema.Schema, opts ...Option) *Compiled {
	compiled, err := Compile(s, opts...)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Schema returns a copy of the compiled definitions in declaration order.
func (c *Compiled) Schema() schema.Schema {
	out := make(schema.Schema, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.def
	}
	return out
}

// Validate returns the key to message mapping for values. It is a pure
// function of the compiled schema and values.
func (c *Compiled) Validate(values schema.Values) Result {
	return c.Evaluate(visibility.Context{Values: values}).Result()
}

// Issues returns the structured issues for values in declaration order.
func (c *Compiled) Issues(values schema.Values) []validation.Issue {
	return c.Evaluate(visibility.Context{Values: values}).Issues
}

// Visible returns the definitions that are currently shown, one per key, in
// declaration order.
func (c *Compiled) Visible(values schema.Values) []schema.FieldDefinition {
	return c.Evaluate(visibility.Context{Values: values}).Visible
}

// Evaluate runs one resolution pass. Definitions are visited in declaration
// order; a key is marked seen only once one of its definitions is visible,
// and later definitions sharing a seen key are skipped.
func (c *Compiled) Evaluate(ctx visibility.Context) Evaluation {
	var out Evaluation
	seen := make(map[string]struct{}, len(c.entries))
	for i := range c.entries {
		e := &c.entries[i]
		if _, done := seen[e.def.Key]; done {
			continue
		}
		if !c.visible(e, ctx) {
			continue
		}
		seen[e.def.Key] = struct{}{}
		out.Visible = append(out.Visible, e.def)

		if issue := e.rules.Check(value.Lookup(ctx.Values, e.def.Key)); issue != nil {
			out.Issues = append(out.Issues, *issue)
		}
	}
	return out
}

// IsVisible reports whether def would be shown for values under the
// built-in condition language. Conditions that fail to parse are reported as
// errors.
func IsVisible(def schema.FieldDefinition, values schema.Values) (bool, error) {
	rule := def.VisibleWhen.Expression()
	if rule == "" {
		return true, nil
	}
	program, err := expr.Compile(rule)
	if err != nil {
		return false, fmt.Errorf("%w for field %q: %v", ErrInvalidCondition, def.Key, err)
	}
	return program.Eval(visibility.Context{Values: values}), nil
}

func (c *Compiled) visible(e *entry, ctx visibility.Context) bool {
	if e.rule == "" {
		return true
	}
	if c.evaluator != nil {
		ok, err := c.evaluator.Eval(e.def.Key, e.rule, ctx)
		return err != nil || ok
	}
	return e.program.Eval(ctx)
}

// Validate compiles s and validates values in one step. The error is non-nil
// only when the schema itself is malformed.
func Validate(s schema.Schema, values schema.Values) (Result, error) {
	compiled, err := Compile(s)
	if err != nil {
		return nil, err
	}
	return compiled.Validate(values), nil
}
