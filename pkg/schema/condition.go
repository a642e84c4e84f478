package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nodeconfig/pkg/value"
)

// Condition gates a field's visibility on the values of other fields. It is
// either a raw expression (Expr) or a structured record; records are rendered
// to the expression language by Expression so both forms share one evaluator.
//
// Structured forms:
//
//	{field: mode, equals: a}
//	{field: mode, notEquals: a}
//	{field: mode, in: [a, b]}
//	{field: mode, notIn: [a, b]}
//	{all: [...]}, {any: [...]}, {not: {...}}
//
// A record with only Field set is a truthiness check. Catalog files may also
// write a condition as a bare string, which is read as Expr.
type Condition struct {
	Expr      string      `json:"expr,omitempty" yaml:"expr,omitempty"`
	Field     string      `json:"field,omitempty" yaml:"field,omitempty"`
	Equals    any         `json:"equals,omitempty" yaml:"equals,omitempty"`
	NotEquals any         `json:"notEquals,omitempty" yaml:"notEquals,omitempty"`
	In        []any       `json:"in,omitempty" yaml:"in,omitempty"`
	NotIn     []any       `json:"notIn,omitempty" yaml:"notIn,omitempty"`
	All       []Condition `json:"all,omitempty" yaml:"all,omitempty"`
	Any       []Condition `json:"any,omitempty" yaml:"any,omitempty"`
	Not       *Condition  `json:"not,omitempty" yaml:"not,omitempty"`
}

// When is shorthand for an expression condition.
func When(expr string) *Condition {
	return &Condition{Expr: expr}
}

// FieldEquals builds a `field == literal` condition. A nil literal compares
// against null.
func FieldEquals(field string, literal any) *Condition {
	if literal == nil {
		return &Condition{Expr: strings.TrimSpace(field) + " == null"}
	}
	return &Condition{Field: field, Equals: literal}
}

// FieldIn builds a `field in [literals...]` condition.
func FieldIn(field string, literals ...any) *Condition {
	return &Condition{Field: field, In: literals}
}

// Expression renders the condition in the expression language. An empty
// result means "always visible".
func (c *Condition) Expression() string {
	if c == nil {
		return ""
	}
	var parts []string
	if expr := strings.TrimSpace(c.Expr); expr != "" {
		parts = append(parts, expr)
	}
	if field := strings.TrimSpace(c.Field); field != "" {
		switch {
		case c.Equals != nil:
			parts = append(parts, field+" == "+literal(c.Equals))
		case c.NotEquals != nil:
			parts = append(parts, field+" != "+literal(c.NotEquals))
		case c.In != nil:
			parts = append(parts, field+" in "+listLiteral(c.In))
		case c.NotIn != nil:
			parts = append(parts, field+" not in "+listLiteral(c.NotIn))
		default:
			parts = append(parts, field)
		}
	}
	if group := joinConditions(c.All, " && "); group != "" {
		parts = append(parts, group)
	}
	if group := joinConditions(c.Any, " || "); group != "" {
		parts = append(parts, group)
	}
	if inner := c.Not.Expression(); inner != "" {
		parts = append(parts, "!("+inner+")")
	}
	if len(parts) == 1 {
		return parts[0]
	}
	for i := range parts {
		parts[i] = "(" + parts[i] + ")"
	}
	return strings.Join(parts, " && ")
}

// String implements fmt.Stringer.
func (c *Condition) String() string { return c.Expression() }

func joinConditions(conds []Condition, sep string) string {
	if len(conds) == 0 {
		return ""
	}
	items := make([]string, 0, len(conds))
	for i := range conds {
		if rendered := conds[i].Expression(); rendered != "" {
			items = append(items, "("+rendered+")")
		}
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return strings.TrimSuffix(strings.TrimPrefix(items[0], "("), ")")
	}
	return strings.Join(items, sep)
}

func literal(v any) string {
	val := value.Of(v)
	switch val.Kind() {
	case value.Null, value.Absent:
		return "null"
	case value.Bool:
		b, _ := val.BoolValue()
		return strconv.FormatBool(b)
	case value.Number:
		n, _ := val.Num()
		return value.FormatNumber(n)
	case value.String:
		s, _ := val.Str()
		return strconv.Quote(s)
	case value.List:
		items, _ := val.Items()
		raw := make([]any, len(items))
		for i, item := range items {
			raw[i] = item.Raw()
		}
		return listLiteral(raw)
	default:
		return strconv.Quote(fmt.Sprint(v))
	}
}

func listLiteral(values []any) string {
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = literal(v)
	}
	return "[" + strings.Join(items, ", ") + "]"
}

type conditionRecord Condition

// UnmarshalJSON accepts either a bare expression string or a record.
func (c *Condition) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var expr string
		if err := json.Unmarshal(data, &expr); err != nil {
			return fmt.Errorf("schema: decode condition: %w", err)
		}
		*c = Condition{Expr: expr}
		return nil
	}
	var rec conditionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("schema: decode condition: %w", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("schema: decode condition: %w", err)
	}
	isNull := func(key string) bool {
		raw, ok := keys[key]
		return ok && strings.TrimSpace(string(raw)) == "null"
	}
	*c = Condition(rec)
	c.foldNullComparison(isNull("equals"), isNull("notEquals"))
	return nil
}

// UnmarshalYAML accepts either a scalar expression or a mapping.
func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Condition{Expr: node.Value}
		return nil
	}
	var rec conditionRecord
	if err := node.Decode(&rec); err != nil {
		return fmt.Errorf("schema: decode condition: %w", err)
	}
	isNull := func(key string) bool {
		if node.Kind != yaml.MappingNode {
			return false
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				return node.Content[i+1].Tag == "!!null"
			}
		}
		return false
	}
	*c = Condition(rec)
	c.foldNullComparison(isNull("equals"), isNull("notEquals"))
	return nil
}

// foldNullComparison rewrites an explicit `equals: null` or `notEquals: null`
// into the expression form. Decoding leaves both operators nil, which would
// otherwise render as a truthiness check on the field.
func (c *Condition) foldNullComparison(equalsNull, notEqualsNull bool) {
	field := strings.TrimSpace(c.Field)
	if field == "" {
		return
	}
	var cmp string
	switch {
	case equalsNull:
		cmp = field + " == null"
	case notEqualsNull && c.Equals == nil:
		cmp = field + " != null"
	default:
		return
	}
	if expr := strings.TrimSpace(c.Expr); expr != "" {
		cmp = "(" + expr + ") && (" + cmp + ")"
	}
	c.Expr = cmp
	c.Field, c.Equals, c.NotEquals, c.In, c.NotIn = "", nil, nil, nil, nil
}
