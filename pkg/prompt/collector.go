package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
	"github.com/goliatone/go-nodeconfig/pkg/validation"
	"github.com/goliatone/go-nodeconfig/pkg/value"
)

// Option configures a Collector.
type Option func(*Collector)

// WithTitle prints title through the driver before the first prompt.
func WithTitle(title string) Option {
	return func(c *Collector) {
		c.title = strings.TrimSpace(title)
	}
}

// Collector gathers values for one compiled schema interactively. After each
// answer visibility is resolved again, so fields gated on earlier answers
// appear or disappear as the user goes.
type Collector struct {
	compiled *engine.Compiled
	driver   Driver
	title    string
}

// NewCollector constructs a Collector.
func NewCollector(compiled *engine.Compiled, driver Driver, opts ...Option) (*Collector, error) {
	if compiled == nil {
		return nil, errors.New("prompt: compiled schema is required")
	}
	if driver == nil {
		return nil, ErrNoDriver
	}
	c := &Collector{compiled: compiled, driver: driver}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Collect prompts for every visible key once, in declaration order, starting
// from initial (which is not modified). It returns the collected values and
// the engine result for them.
func (c *Collector) Collect(ctx context.Context, initial schema.Values) (schema.Values, engine.Result, error) {
	values := initial.Clone()
	if c.title != "" {
		if err := c.driver.Info(ctx, c.title); err != nil {
			return nil, nil, err
		}
	}

	asked := make(map[string]struct{})
	for {
		def, ok := nextField(c.compiled.Visible(values), asked)
		if !ok {
			break
		}
		asked[def.Key] = struct{}{}

		answer, err := c.ask(ctx, def, values)
		if err != nil {
			return nil, nil, fmt.Errorf("prompt: field %q: %w", def.Key, err)
		}
		if answer.IsEmpty() {
			delete(values, def.Key)
			continue
		}
		values[def.Key] = answer.Raw()
	}

	return values, c.compiled.Validate(values), nil
}

func nextField(visible []schema.FieldDefinition, asked map[string]struct{}) (schema.FieldDefinition, bool) {
	for _, def := range visible {
		if _, done := asked[def.Key]; !done {
			return def, true
		}
	}
	return schema.FieldDefinition{}, false
}

func (c *Collector) ask(ctx context.Context, def schema.FieldDefinition, values schema.Values) (value.Value, error) {
	rules, err := validation.Compile(def)
	if err != nil {
		return value.Value{}, err
	}
	current := value.Lookup(values, def.Key)
	if current.Kind() == value.Absent && def.Default != nil {
		current = value.Of(def.Default)
	}
	message := def.DisplayLabel()
	if def.Required {
		message += " *"
	}

	switch def.Type {
	case schema.FieldTypeBoolean:
		ok, err := c.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current.AsBool(), Help: def.Description})
		if err != nil {
			return value.Value{}, err
		}
		return value.Of(ok), nil

	case schema.FieldTypeSelect:
		if len(def.Options) == 0 {
			break
		}
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      def.Options,
			DefaultIndex: indexOf(def.Options, current.AsString()),
			Help:         def.Description,
		})
		if err != nil {
			return value.Value{}, err
		}
		if idx < 0 || idx >= len(def.Options) {
			return value.Value{}, nil
		}
		return value.Of(def.Options[idx]), nil

	case schema.FieldTypeMultiSelect:
		if len(def.Options) == 0 {
			return c.askList(ctx, def, message, current, rules)
		}
		indices, err := c.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  def.Options,
			Defaults: indicesOf(def.Options, listStrings(current)),
			Help:     def.Description,
		})
		if err != nil {
			return value.Value{}, err
		}
		picked := make([]any, 0, len(indices))
		for _, idx := range indices {
			picked = append(picked, def.Options[idx])
		}
		return value.Of(picked), nil

	case schema.FieldTypeJSON, schema.FieldTypeText:
		text, err := c.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   current.AsString(),
			Help:      def.Description,
			Validator: stringValidator(rules),
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.Of(text), nil

	case schema.FieldTypeSecret:
		text, err := c.driver.Password(ctx, InputConfig{
			Message:   message,
			Default:   current.AsString(),
			Help:      def.Description,
			Validator: stringValidator(rules),
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.Of(text), nil

	case schema.FieldTypeNumber:
		text, err := c.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current.AsString(),
			Help:      def.Description,
			Validator: numberValidator(rules),
		})
		if err != nil {
			return value.Value{}, err
		}
		return parseNumber(text)
	}

	text, err := c.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   current.AsString(),
		Help:      def.Description,
		Validator: stringValidator(rules),
	})
	if err != nil {
		return value.Value{}, err
	}
	return value.Of(text), nil
}

func (c *Collector) askList(ctx context.Context, def schema.FieldDefinition, message string, current value.Value, rules *validation.Rules) (value.Value, error) {
	text, err := c.driver.Input(ctx, InputConfig{
		Message: message + " (comma separated)",
		Default: strings.Join(listStrings(current), ", "),
		Help:    def.Description,
		Validator: func(s string) error {
			return issueError(rules.Check(splitList(s)))
		},
	})
	if err != nil {
		return value.Value{}, err
	}
	return splitList(text), nil
}

func stringValidator(rules *validation.Rules) func(string) error {
	return func(s string) error {
		return issueError(rules.CheckAny(s))
	}
}

func numberValidator(rules *validation.Rules) func(string) error {
	return func(s string) error {
		v, err := parseNumber(s)
		if err != nil {
			return err
		}
		return issueError(rules.Check(v))
	}
}

func issueError(issue *validation.Issue) error {
	if issue == nil {
		return nil
	}
	return errors.New(issue.Message())
}

func parseNumber(text string) (value.Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return value.Value{}, nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return value.Value{}, fmt.Errorf("%q is not a number", trimmed)
	}
	return value.Of(n), nil
}

// splitList turns "a, b,,c" into [a b c]; blank input is absent.
func splitList(text string) value.Value {
	var items []any
	for _, part := range strings.Split(text, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if items == nil {
		return value.Value{}
	}
	return value.Of(items)
}

func listStrings(v value.Value) []string {
	items, ok := v.Items()
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.AsString()
	}
	return out
}
