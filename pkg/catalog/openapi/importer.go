package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
	"github.com/goliatone/go-nodeconfig/pkg/value"
)

// ExtensionKey is the vendor extension read from schemas and properties.
const ExtensionKey = "x-nodecfg"

// ErrNoSchemas is returned when the document has no component schemas.
var ErrNoSchemas = errors.New("openapi import: document has no component schemas")

// Import builds node kinds from the component schemas of an OpenAPI 3
// document. Each object schema becomes one kind; its properties become
// fields. Schemas marked `x-nodecfg: {skip: true}` are ignored.
//
// Schema level extension keys: kind, label, category, skip.
// Property level extension keys: label, visibleWhen, validJson,
// patternMessage, order, type.
func Import(ctx context.Context, raw []byte) ([]catalog.NodeKind, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("openapi import: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi import: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, ErrNoSchemas
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var kinds []catalog.NodeKind
	seen := make(map[string]string, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil || !isObject(ref.Value) {
			continue
		}
		ext := extension(ref.Value.Extensions)
		if skip, _ := ext["skip"].(bool); skip {
			continue
		}

		kind, err := convertKind(name, ref.Value, ext)
		if err != nil {
			return nil, err
		}
		if prev, exists := seen[kind.Kind]; exists {
			return nil, fmt.Errorf("%w %q (schemas %s and %s)", catalog.ErrDuplicateKind, kind.Kind, prev, name)
		}
		seen[kind.Kind] = name
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func convertKind(name string, src *openapi3.Schema, ext map[string]any) (catalog.NodeKind, error) {
	kind := catalog.NodeKind{
		Kind:        firstString(ext["kind"], kindID(name)),
		Label:       firstString(ext["label"], src.Title, name),
		Category:    firstString(ext["category"]),
		Description: src.Description,
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, key := range src.Required {
		required[key] = struct{}{}
	}

	type ordered struct {
		order float64
		field schema.FieldDefinition
	}
	var fields []ordered
	for key, prop := range src.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		_, isRequired := required[key]
		field, order, err := convertField(key, prop.Value, isRequired)
		if err != nil {
			return catalog.NodeKind{}, fmt.Errorf("openapi import: schema %s: %w", name, err)
		}
		fields = append(fields, ordered{order: order, field: field})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].order != fields[j].order {
			return fields[i].order < fields[j].order
		}
		return fields[i].field.Key < fields[j].field.Key
	})
	for _, f := range fields {
		kind.Fields = append(kind.Fields, f.field)
	}

	kind = catalog.Sanitize(kind)
	if _, err := engine.Compile(kind.Fields); err != nil {
		return catalog.NodeKind{}, fmt.Errorf("openapi import: schema %s: %w", name, err)
	}
	return kind, nil
}

// Properties without an explicit order sort after ordered ones.
const unordered = math.MaxFloat64

func convertField(key string, src *openapi3.Schema, required bool) (schema.FieldDefinition, float64, error) {
	ext := extension(src.Extensions)
	field := schema.FieldDefinition{
		Key:         key,
		Label:       firstString(ext["label"], src.Title),
		Type:        fieldType(src, ext),
		Description: src.Description,
		Default:     src.Default,
		Required:    required,
	}
	for _, option := range src.Enum {
		field.Options = append(field.Options, value.Of(option).AsString())
	}

	v := schema.Validation{
		Pattern:        src.Pattern,
		PatternMessage: firstString(ext["patternMessage"]),
	}
	if src.MinLength > 0 {
		v.MinLength = schema.IntPtr(int(src.MinLength))
	}
	if src.MaxLength != nil {
		v.MaxLength = schema.IntPtr(int(*src.MaxLength))
	}
	if src.Min != nil {
		v.Min = schema.FloatPtr(lowerBound(src, *src.Min))
	}
	if src.Max != nil {
		v.Max = schema.FloatPtr(upperBound(src, *src.Max))
	}
	if src.MinItems > 0 {
		v.MinItems = schema.IntPtr(int(src.MinItems))
	}
	if src.MaxItems != nil {
		v.MaxItems = schema.IntPtr(int(*src.MaxItems))
	}
	if b, ok := ext["validJson"].(bool); ok {
		v.ValidJSON = b
	}
	if v != (schema.Validation{}) {
		field.Validation = &v
	}

	if raw, ok := ext["visibleWhen"]; ok && raw != nil {
		cond, err := decodeCondition(raw)
		if err != nil {
			return schema.FieldDefinition{}, 0, fmt.Errorf("property %s: %w", key, err)
		}
		field.VisibleWhen = cond
	}

	order := unordered
	if n, ok := value.Of(ext["order"]).Num(); ok {
		order = n
	}
	return field, order, nil
}

func decodeCondition(raw any) (*schema.Condition, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode visibleWhen: %w", err)
	}
	var cond schema.Condition
	if err := json.Unmarshal(data, &cond); err != nil {
		return nil, err
	}
	return &cond, nil
}

func fieldType(src *openapi3.Schema, ext map[string]any) schema.FieldType {
	if override := firstString(ext["type"]); override != "" {
		return schema.FieldType(override)
	}
	switch {
	case src.Type.Is(openapi3.TypeString):
		switch {
		case len(src.Enum) > 0:
			return schema.FieldTypeSelect
		case src.Format == "password":
			return schema.FieldTypeSecret
		}
		return schema.FieldTypeString
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
		return schema.FieldTypeNumber
	case src.Type.Is(openapi3.TypeBoolean):
		return schema.FieldTypeBoolean
	case src.Type.Is(openapi3.TypeArray):
		return schema.FieldTypeMultiSelect
	case src.Type.Is(openapi3.TypeObject):
		return schema.FieldTypeJSON
	}
	return ""
}

// Validation bounds are inclusive. Exclusive integer bounds move to the next
// whole number; exclusive number bounds are kept as inclusive.
func lowerBound(src *openapi3.Schema, bound float64) float64 {
	if src.ExclusiveMin && src.Type.Is(openapi3.TypeInteger) {
		return math.Floor(bound) + 1
	}
	return bound
}

func upperBound(src *openapi3.Schema, bound float64) float64 {
	if src.ExclusiveMax && src.Type.Is(openapi3.TypeInteger) {
		return math.Ceil(bound) - 1
	}
	return bound
}

func isObject(src *openapi3.Schema) bool {
	return src.Type.Is(openapi3.TypeObject) || len(src.Properties) > 0
}

func extension(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	mapped, ok := raw[ExtensionKey].(map[string]any)
	if !ok {
		return nil
	}
	return mapped
}

func firstString(candidates ...any) string {
	for _, candidate := range candidates {
		if s, ok := candidate.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// kindID turns a component name such as "SlackPost" into "slack_post".
func kindID(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
