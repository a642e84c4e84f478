// Package schema defines the declarative description of a node's configurable
// fields: FieldDefinition with its optional Validation constraints and
// VisibleWhen Condition, the ordered Schema, and the submitted Values. Types
// carry json and yaml tags so catalog files decode straight into them;
// constraint decoding is lenient so malformed bounds are skipped rather than
// rejected.
package schema
