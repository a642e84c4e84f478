// Package validation implements the type-directed checks applied to a single
// field value. Compile turns a schema.FieldDefinition into immutable Rules;
// Rules.Check returns at most one Issue, drawn from a closed set of
// IssueKinds, and Issue.Message renders the text shown next to the field.
package validation
