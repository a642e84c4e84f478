package catalog

import (
	"errors"

	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

var (
	// ErrUnknownKind is returned when a lookup names a kind that is not registered.
	ErrUnknownKind = errors.New("catalog: unknown node kind")
	// ErrDuplicateKind is returned when a catalog source declares a kind twice.
	ErrDuplicateKind = errors.New("catalog: duplicate node kind")
	// ErrMissingKind is returned when a node kind has an empty identifier.
	ErrMissingKind = errors.New("catalog: node kind identifier is required")
)

// Port describes one input or output connection point of a node kind.
type Port struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NodeKind is the catalog entry for one type of workflow node: its display
// metadata, its ports and the schema of its configurable fields.
type NodeKind struct {
	Kind        string        `json:"kind" yaml:"kind"`
	Label       string        `json:"label" yaml:"label"`
	Category    string        `json:"category,omitempty" yaml:"category,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Inputs      []Port        `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []Port        `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Fields      schema.Schema `json:"fields" yaml:"fields"`
}

// Summary is the short listing form of a node kind.
type Summary struct {
	Kind     string `json:"kind" yaml:"kind"`
	Label    string `json:"label" yaml:"label"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Summary returns the listing form of k.
func (k NodeKind) Summary() Summary {
	return Summary{Kind: k.Kind, Label: k.Label, Category: k.Category}
}

func (k NodeKind) clone() NodeKind {
	out := k
	out.Inputs = append([]Port(nil), k.Inputs...)
	out.Outputs = append([]Port(nil), k.Outputs...)
	out.Fields = append(schema.Schema(nil), k.Fields...)
	return out
}
