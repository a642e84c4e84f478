package nodeconfig

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateFacade(t *testing.T) {
	t.Parallel()

	s := Schema{
		{Key: "mode", Label: "Mode", Required: true},
		{Key: "token", Label: "Token", Required: true, VisibleWhen: &Condition{Field: "mode", Equals: "auth"}},
	}

	got, err := Validate(s, Values{"mode": "auth"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := Result{"token": "Token is required"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	got, err = Validate(s, Values{"mode": "open"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !got.Valid() {
		t.Fatalf("expected hidden token to be ignored, got %v", got)
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := Compile(Schema{{Key: "a", Validation: &Validation{Pattern: "("}}})
	if err == nil {
		t.Fatalf("expected compile error for invalid pattern")
	}
}

func TestNewRegistryHasBuiltins(t *testing.T) {
	t.Parallel()

	if _, ok := NewRegistry().Get("http.request"); !ok {
		t.Fatalf("expected http.request builtin")
	}
}

func TestImportOpenAPIFacade(t *testing.T) {
	t.Parallel()

	doc := []byte(`{"openapi":"3.0.3","info":{"title":"t","version":"1"},"paths":{},
"components":{"schemas":{"Ping":{"type":"object","properties":{"host":{"type":"string"}}}}}}`)

	kinds, err := ImportOpenAPI(context.Background(), doc)
	if err != nil {
		t.Fatalf("ImportOpenAPI: %v", err)
	}
	if len(kinds) != 1 || kinds[0].Kind != "ping" {
		t.Fatalf("unexpected kinds: %+v", kinds)
	}
}
