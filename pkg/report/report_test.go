package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-nodeconfig/pkg/engine"
)

func TestTextInvalid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Text(&buf, "http.request", engine.Result{
		"url":  "URL is required",
		"body": `Must be "quoted" & valid`,
	})
	if err != nil {
		t.Fatalf("Text returned error: %v", err)
	}

	want := "http.request: 2 errors\n" +
		"  - body: Must be \"quoted\" & valid\n" +
		"  - url: URL is required\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTextSingleError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Text(&buf, "k", engine.Result{"a": "a is required"}); err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	if diff := cmp.Diff("k: 1 error\n  - a: a is required\n", buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTextValid(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Text(&buf, "flow.delay", engine.Result{}); err != nil {
		t.Fatalf("Text returned error: %v", err)
	}
	if diff := cmp.Diff("flow.delay: valid\n", buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := JSON(&buf, nil); err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"valid": true, "errors": map[string]any{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	payload := NewPayload(engine.Result{"a": "x"})
	if payload.Valid || payload.Errors["a"] != "x" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
