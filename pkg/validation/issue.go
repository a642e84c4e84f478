package validation

import (
	"fmt"

	"github.com/goliatone/go-nodeconfig/pkg/value"
)

// IssueKind is the closed set of reasons a field value can be rejected.
type IssueKind string

const (
	RequiredMissing IssueKind = "required_missing"
	StringTooShort  IssueKind = "string_too_short"
	StringTooLong   IssueKind = "string_too_long"
	PatternMismatch IssueKind = "pattern_mismatch"
	NumberTooSmall  IssueKind = "number_too_small"
	NumberTooLarge  IssueKind = "number_too_large"
	TooFewItems     IssueKind = "too_few_items"
	TooManyItems    IssueKind = "too_many_items"
	InvalidJSON     IssueKind = "invalid_json"
)

// Kinds lists every IssueKind in a stable order.
func Kinds() []IssueKind {
	return []IssueKind{
		RequiredMissing,
		StringTooShort,
		StringTooLong,
		PatternMismatch,
		NumberTooSmall,
		NumberTooLarge,
		TooFewItems,
		TooManyItems,
		InvalidJSON,
	}
}

// Issue describes why one field's value failed. Message text is rendered on
// demand so callers can branch on Kind and only format at the boundary.
// Limit carries the configured threshold for range and size issues; Custom
// replaces the default text for pattern mismatches.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Key    string    `json:"key"`
	Label  string    `json:"label,omitempty"`
	Limit  float64   `json:"limit,omitempty"`
	Custom string    `json:"custom,omitempty"`
}

// Message renders the user-facing error text.
func (i Issue) Message() string {
	limit := value.FormatNumber(i.Limit)
	switch i.Kind {
	case RequiredMissing:
		label := i.Label
		if label == "" {
			label = i.Key
		}
		return label + " is required"
	case StringTooShort:
		return fmt.Sprintf("Minimum %s characters", limit)
	case StringTooLong:
		return fmt.Sprintf("Maximum %s characters", limit)
	case PatternMismatch:
		if i.Custom != "" {
			return i.Custom
		}
		return "Invalid format"
	case NumberTooSmall:
		return fmt.Sprintf("Minimum value is %s", limit)
	case NumberTooLarge:
		return fmt.Sprintf("Maximum value is %s", limit)
	case TooFewItems:
		return fmt.Sprintf("At least %s items required", limit)
	case TooManyItems:
		return fmt.Sprintf("Maximum %s items", limit)
	case InvalidJSON:
		return "Invalid JSON"
	default:
		return "Invalid value"
	}
}

// String implements fmt.Stringer.
func (i Issue) String() string {
	return i.Key + ": " + i.Message()
}
