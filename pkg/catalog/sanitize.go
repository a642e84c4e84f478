package catalog

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitize strips markup from every human-readable string of kind: labels,
// descriptions, placeholders and pattern messages. Keys, options, patterns
// and conditions are left untouched since they are compared as values.
func Sanitize(kind NodeKind) NodeKind {
	out := kind.clone()
	out.Label = sanitizeText(out.Label)
	out.Category = sanitizeText(out.Category)
	out.Description = sanitizeText(out.Description)
	for i := range out.Inputs {
		out.Inputs[i].Description = sanitizeText(out.Inputs[i].Description)
	}
	for i := range out.Outputs {
		out.Outputs[i].Description = sanitizeText(out.Outputs[i].Description)
	}
	for i := range out.Fields {
		out.Fields[i] = sanitizeField(out.Fields[i])
	}
	return out
}

func sanitizeField(field schema.FieldDefinition) schema.FieldDefinition {
	field.Label = sanitizeText(field.Label)
	field.Description = sanitizeText(field.Description)
	field.Placeholder = sanitizeText(field.Placeholder)
	if field.Validation != nil && field.Validation.PatternMessage != "" {
		v := *field.Validation
		v.PatternMessage = sanitizeText(v.PatternMessage)
		field.Validation = &v
	}
	return field
}

// maxSanitizeRounds bounds the strip/decode loop for nested entity encodings.
const maxSanitizeRounds = 8

// sanitizeText returns raw as plain text. The policy entity-encodes what it
// keeps, so the result is decoded and stripped again until it stops changing.
// Input that does not settle within maxSanitizeRounds is returned encoded.
func sanitizeText(raw string) string {
	current := strings.TrimSpace(raw)
	if current == "" {
		return ""
	}
	policy := textSanitizer()
	for range maxSanitizeRounds {
		decoded := strings.TrimSpace(html.UnescapeString(policy.Sanitize(current)))
		if decoded == current {
			return decoded
		}
		current = decoded
	}
	return strings.TrimSpace(policy.Sanitize(current))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
