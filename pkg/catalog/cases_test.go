package catalog_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-nodeconfig/pkg/catalog"
	"github.com/goliatone/go-nodeconfig/pkg/testsupport"
)

func TestBuiltinCases(t *testing.T) {
	t.Parallel()

	registry := catalog.NewRegistry()
	for _, tc := range testsupport.MustLoadCases(t, filepath.Join("testdata", "builtin_cases.json")) {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			got, err := registry.Validate(tc.Kind, tc.Values)
			if err != nil {
				t.Fatalf("Validate(%s): %v", tc.Kind, err)
			}
			if diff := testsupport.CompareGolden(tc.Want, map[string]string(got)); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuiltinSummariesGolden(t *testing.T) {
	t.Parallel()

	var got []catalog.Summary
	for _, kind := range catalog.NewRegistry().All() {
		got = append(got, kind.Summary())
	}

	path := filepath.Join("testdata", "summaries.golden.json")
	testsupport.WriteGolden(t, path, got)

	var want []catalog.Summary
	if err := json.Unmarshal(testsupport.MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("decode golden: %v", err)
	}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("summaries mismatch (-want +got):\n%s", diff)
	}
}
