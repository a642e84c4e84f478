// Package nodeconfig validates the configuration of workflow nodes against
// declarative field schemas. Fields can be gated on the values of other
// fields; only the fields visible for the current values are validated.
//
// The root package re-exports the common entry points. The building blocks
// live under pkg/: schema (the data model), engine (compile and validate),
// catalog (node kinds and catalog files), prompt (interactive collection) and
// report (text and JSON output).
package nodeconfig

import (
	"context"

	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/catalog/openapi"
	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

// Schema is the ordered list of field definitions of one node kind.
type Schema = schema.Schema

// FieldDefinition describes one configurable field.
type FieldDefinition = schema.FieldDefinition

// Validation groups the constraints of a field.
type Validation = schema.Validation

// Condition gates a field's visibility.
type Condition = schema.Condition

// Values holds submitted configuration keyed by field key.
type Values = schema.Values

// Result maps each invalid field key to its message. Empty means valid.
type Result = engine.Result

// Compiled is a schema prepared for repeated validation.
type Compiled = engine.Compiled

// NodeKind is a catalog entry.
type NodeKind = catalog.NodeKind

// Validate compiles s and validates values. The error reports a malformed
// schema; field errors are returned in the Result.
func Validate(s Schema, values Values) (Result, error) {
	return engine.Validate(s, values)
}

// Compile exposes engine.Compile from the top-level module.
func Compile(s Schema, opts ...engine.Option) (*Compiled, error) {
	return engine.Compile(s, opts...)
}

// MustCompile is like Compile but panics on error.
func MustCompile(s Schema, opts ...engine.Option) *Compiled {
	return engine.MustCompile(s, opts...)
}

// NewRegistry returns a catalog registry holding the built-in node kinds.
func NewRegistry() *catalog.Registry {
	return catalog.NewRegistry()
}

// ImportOpenAPI converts the component schemas of an OpenAPI 3 document into
// node kinds.
func ImportOpenAPI(ctx context.Context, document []byte) ([]NodeKind, error) {
	return openapi.Import(ctx, document)
}
