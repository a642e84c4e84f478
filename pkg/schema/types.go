package schema

// FieldType is a presentation hint describing how an editor should render a
// field. The validation engine never reads it; checks are directed by the
// runtime type of the submitted value.
type FieldType string

const (
	FieldTypeString      FieldType = "string"
	FieldTypeText        FieldType = "text"
	FieldTypeNumber      FieldType = "number"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeJSON        FieldType = "json"
	FieldTypeSecret      FieldType = "secret"
)

// Validation groups the optional constraints applied to a field's value.
// Pointer fields distinguish "not configured" from a zero threshold. Every
// constraint is independent; only the ones matching the value's runtime type
// are evaluated.
type Validation struct {
	MinLength      *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength      *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern        string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	PatternMessage string   `json:"patternMessage,omitempty" yaml:"patternMessage,omitempty"`
	Min            *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max            *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinItems       *int     `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems       *int     `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	ValidJSON      bool     `json:"validJson,omitempty" yaml:"validJson,omitempty"`
}

// FieldDefinition describes one configurable field of a node type. A schema
// may declare the same Key more than once when the definitions are gated by
// mutually exclusive VisibleWhen conditions.
type FieldDefinition struct {
	Key         string      `json:"key" yaml:"key"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType   `json:"type,omitempty" yaml:"type,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string      `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default     any         `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool        `json:"required,omitempty" yaml:"required,omitempty"`
	VisibleWhen *Condition  `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Validation  *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// DisplayLabel returns the label used in messages, falling back to the key.
func (f FieldDefinition) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

// Schema is the ordered list of field definitions for one node kind.
// Declaration order is significant: it decides which same-key definition
// is validated when more than one could be visible.
type Schema []FieldDefinition

// Keys returns the distinct keys in declaration order.
func (s Schema) Keys() []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, field := range s {
		if _, ok := seen[field.Key]; ok {
			continue
		}
		seen[field.Key] = struct{}{}
		out = append(out, field.Key)
	}
	return out
}

// Values holds the current user-entered configuration for one node instance,
// keyed by field key.
type Values map[string]any

// Clone returns a shallow copy so callers can extend a value set without
// mutating the original.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	out := make(Values, len(v))
	for key, val := range v {
		out[key] = val
	}
	return out
}

// IntPtr and FloatPtr help build Validation literals.
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
