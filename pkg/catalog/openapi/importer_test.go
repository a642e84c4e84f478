package openapi

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/engine"
	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

const document = `{
  "openapi": "3.0.3",
  "info": {"title": "Nodes", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "SlackPost": {
        "type": "object",
        "title": "Post to Slack",
        "description": "Posts a <b>message</b> to a channel.",
        "x-nodecfg": {"category": "action"},
        "required": ["channel", "text"],
        "properties": {
          "channel": {
            "type": "string",
            "pattern": "^#",
            "maxLength": 80,
            "x-nodecfg": {"label": "Channel", "order": 1, "patternMessage": "Channels start with #"}
          },
          "text": {
            "type": "string",
            "minLength": 1,
            "x-nodecfg": {"label": "Message", "order": 2}
          },
          "attachments": {
            "type": "string",
            "x-nodecfg": {"validJson": true, "type": "json", "visibleWhen": "rich == true"}
          },
          "rich": {"type": "boolean"},
          "priority": {"type": "string", "enum": ["low", "high"]},
          "retries": {"type": "integer", "minimum": 0, "maximum": 5},
          "mentions": {
            "type": "array",
            "items": {"type": "string"},
            "maxItems": 3,
            "x-nodecfg": {"visibleWhen": {"field": "priority", "equals": "high"}}
          }
        }
      },
      "Internal": {
        "type": "object",
        "x-nodecfg": {"skip": true},
        "properties": {"id": {"type": "string"}}
      },
      "Token": {"type": "string"}
    }
  }
}`

func TestImport(t *testing.T) {
	t.Parallel()

	kinds, err := Import(context.Background(), []byte(document))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	if len(kinds) != 1 {
		t.Fatalf("expected 1 kind, got %d: %+v", len(kinds), kinds)
	}

	kind := kinds[0]
	if kind.Kind != "slack_post" || kind.Label != "Post to Slack" || kind.Category != "action" {
		t.Fatalf("unexpected kind metadata: %+v", kind.Summary())
	}
	if kind.Description != "Posts a message to a channel." {
		t.Fatalf("expected sanitised description, got %q", kind.Description)
	}

	keys := make([]string, len(kind.Fields))
	for i, field := range kind.Fields {
		keys[i] = field.Key
	}
	want := []string{"channel", "text", "attachments", "mentions", "priority", "retries", "rich"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	channel := kind.Fields[0]
	wantChannel := schema.FieldDefinition{
		Key:      "channel",
		Label:    "Channel",
		Type:     schema.FieldTypeString,
		Required: true,
		Validation: &schema.Validation{
			MaxLength:      schema.IntPtr(80),
			Pattern:        "^#",
			PatternMessage: "Channels start with #",
		},
	}
	if diff := cmp.Diff(wantChannel, channel); diff != "" {
		t.Fatalf("channel mismatch (-want +got):\n%s", diff)
	}

	byKey := make(map[string]schema.FieldDefinition, len(kind.Fields))
	for _, field := range kind.Fields {
		byKey[field.Key] = field
	}
	if got := byKey["priority"]; got.Type != schema.FieldTypeSelect || !cmp.Equal([]string{"low", "high"}, got.Options) {
		t.Fatalf("unexpected priority field: %+v", got)
	}
	if got := byKey["attachments"].VisibleWhen.Expression(); got != "rich == true" {
		t.Fatalf("unexpected attachments condition %q", got)
	}
	if got := byKey["mentions"].VisibleWhen.Expression(); got != `priority == "high"` {
		t.Fatalf("unexpected mentions condition %q", got)
	}
	if got := byKey["retries"].Type; got != schema.FieldTypeNumber {
		t.Fatalf("unexpected retries type %q", got)
	}
}

func TestImportedKindValidates(t *testing.T) {
	t.Parallel()

	kinds, err := Import(context.Background(), []byte(document))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}

	reg := catalog.NewEmptyRegistry()
	if err := reg.Register(kinds[0]); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := reg.Validate("slack_post", schema.Values{
		"channel":     "general",
		"rich":        true,
		"attachments": "{",
		"priority":    "high",
		"mentions":    []any{"a", "b", "c", "d"},
		"retries":     9,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := engine.Result{
		"channel":     "Channels start with #",
		"text":        "Message is required",
		"attachments": "Invalid JSON",
		"mentions":    "Maximum 3 items",
		"retries":     "Maximum value is 5",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestImportErrors(t *testing.T) {
	t.Parallel()

	if _, err := Import(context.Background(), nil); err == nil {
		t.Fatalf("expected empty payload to fail")
	}

	noSchemas := `{"openapi": "3.0.3", "info": {"title": "x", "version": "1"}, "paths": {}}`
	if _, err := Import(context.Background(), []byte(noSchemas)); !errors.Is(err, ErrNoSchemas) {
		t.Fatalf("expected ErrNoSchemas, got %v", err)
	}

	badCondition := `{"openapi": "3.0.3", "info": {"title": "x", "version": "1"}, "paths": {},
	  "components": {"schemas": {"A": {"type": "object", "properties": {
	    "a": {"type": "string", "x-nodecfg": {"visibleWhen": "mode =="}}
	  }}}}}`
	if _, err := Import(context.Background(), []byte(badCondition)); !errors.Is(err, engine.ErrInvalidCondition) {
		t.Fatalf("expected ErrInvalidCondition, got %v", err)
	}

	duplicate := `{"openapi": "3.0.3", "info": {"title": "x", "version": "1"}, "paths": {},
	  "components": {"schemas": {
	    "A": {"type": "object", "x-nodecfg": {"kind": "same"}, "properties": {"a": {"type": "string"}}},
	    "B": {"type": "object", "x-nodecfg": {"kind": "same"}, "properties": {"b": {"type": "string"}}}
	  }}}`
	if _, err := Import(context.Background(), []byte(duplicate)); !errors.Is(err, catalog.ErrDuplicateKind) {
		t.Fatalf("expected ErrDuplicateKind, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Import(ctx, []byte(document)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestKindID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"SlackPost":    "slack_post",
		"http.request": "http.request",
		"Send-Email":   "send__email",
	}
	for in, want := range cases {
		if got := kindID(in); got != want {
			t.Fatalf("kindID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestImportExclusiveBounds(t *testing.T) {
	t.Parallel()

	doc := `{
  "openapi": "3.0.3",
  "info": {"title": "Bounds", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Bounded": {
        "type": "object",
        "properties": {
          "count": {"type": "integer", "minimum": 0, "exclusiveMinimum": true, "maximum": 10, "exclusiveMaximum": true},
          "ratio": {"type": "number", "minimum": 0, "exclusiveMinimum": true, "maximum": 1}
        }
      }
    }
  }
}`
	kinds, err := Import(context.Background(), []byte(doc))
	if err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	fields := kinds[0].Fields

	want := map[string]schema.Validation{
		"count": {Min: schema.FloatPtr(1), Max: schema.FloatPtr(9)},
		"ratio": {Min: schema.FloatPtr(0), Max: schema.FloatPtr(1)},
	}
	got := make(map[string]schema.Validation, len(fields))
	for _, field := range fields {
		if field.Validation != nil {
			got[field.Key] = *field.Validation
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}

	for in, msg := range map[int]string{0: "Minimum value is 1", 10: "Maximum value is 9"} {
		res, err := engine.Validate(fields, schema.Values{"count": in})
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if diff := cmp.Diff(engine.Result{"count": msg}, res); diff != "" {
			t.Fatalf("count=%d mismatch (-want +got):\n%s", in, diff)
		}
	}
}
