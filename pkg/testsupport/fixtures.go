// Package testsupport holds fixture and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-nodeconfig/pkg/schema"
)

// Case is one fixture-driven validation case: the values submitted for a node
// kind and the key to message mapping expected back.
type Case struct {
	Name   string            `json:"name"`
	Kind   string            `json:"kind"`
	Values schema.Values     `json:"values"`
	Want   map[string]string `json:"want"`
}

// MustLoadCases reads a JSON array of cases. Testing helpers fail the test on
// error to keep table tests concise.
func MustLoadCases(t *testing.T, path string) []Case {
	t.Helper()

	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("load cases: %v", err)
	}
	return cases
}

// LoadCases returns the cases stored at path without requiring testing.T.
func LoadCases(path string) ([]Case, error) {
	if path == "" {
		return nil, errors.New("testsupport: cases path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read %s: %w", path, err)
	}
	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("testsupport: decode %s: %w", path, err)
	}
	for i := range cases {
		if cases[i].Values == nil {
			cases[i].Values = schema.Values{}
		}
		if cases[i].Want == nil {
			cases[i].Want = map[string]string{}
		}
	}
	return cases, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
