package schema

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nodeconfig/pkg/value"
)

// UnmarshalJSON decodes constraints leniently: a bound that is not numeric
// (for example `"min": "ten"`) is dropped instead of failing the whole
// document, so the constraint is simply not applicable.
func (v *Validation) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("schema: decode validation: %w", err)
	}
	*v = validationFromMap(raw)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML catalog files.
func (v *Validation) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("schema: decode validation: %w", err)
	}
	*v = validationFromMap(raw)
	return nil
}

// ValidationFromMap builds constraints from a loosely typed map, skipping
// entries whose values have the wrong shape.
func ValidationFromMap(raw map[string]any) Validation {
	return validationFromMap(raw)
}

func validationFromMap(raw map[string]any) Validation {
	var out Validation
	out.MinLength = intEntry(raw, "minLength")
	out.MaxLength = intEntry(raw, "maxLength")
	out.MinItems = intEntry(raw, "minItems")
	out.MaxItems = intEntry(raw, "maxItems")
	out.Min = floatEntry(raw, "min")
	out.Max = floatEntry(raw, "max")
	out.Pattern = stringEntry(raw, "pattern")
	out.PatternMessage = stringEntry(raw, "patternMessage")
	if b, ok := raw["validJson"].(bool); ok {
		out.ValidJSON = b
	}
	return out
}

func floatEntry(raw map[string]any, key string) *float64 {
	entry, ok := raw[key]
	if !ok {
		return nil
	}
	// String bounds such as "10" are not applicable.
	if _, isString := entry.(string); isString {
		return nil
	}
	n, ok := value.Of(entry).Num()
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func intEntry(raw map[string]any, key string) *int {
	f := floatEntry(raw, key)
	if f == nil || *f < 0 || *f != math.Trunc(*f) {
		return nil
	}
	n := int(*f)
	return &n
}

func stringEntry(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
