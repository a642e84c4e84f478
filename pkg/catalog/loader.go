package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nodeconfig/pkg/engine"
)

type documentFile struct {
	Kinds []NodeKind `json:"kinds" yaml:"kinds"`
}

// LoadFS walks fsys and parses every JSON/YAML catalog file. Each file holds
// a top-level `kinds` list. Kinds are returned in walk order; a kind declared
// twice across the filesystem or a schema that fails to compile aborts the
// load. A nil fsys yields no kinds.
func LoadFS(fsys fs.FS) ([]NodeKind, error) {
	if fsys == nil {
		return nil, nil
	}

	var kinds []NodeKind
	sources := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for idx, raw := range doc.Kinds {
			kind, err := normaliseKind(raw, idx, path)
			if err != nil {
				return err
			}
			if prev, exists := sources[kind.Kind]; exists {
				return fmt.Errorf("%w %q (file %s, first declared in %s)", ErrDuplicateKind, kind.Kind, path, prev)
			}
			sources[kind.Kind] = path
			kinds = append(kinds, kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kinds, nil
}

// Parse decodes a single catalog document.
func Parse(data []byte, source string) ([]NodeKind, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	out := make([]NodeKind, 0, len(doc.Kinds))
	seen := make(map[string]struct{}, len(doc.Kinds))
	for idx, raw := range doc.Kinds {
		kind, err := normaliseKind(raw, idx, source)
		if err != nil {
			return nil, err
		}
		if _, exists := seen[kind.Kind]; exists {
			return nil, fmt.Errorf("%w %q (file %s)", ErrDuplicateKind, kind.Kind, source)
		}
		seen[kind.Kind] = struct{}{}
		out = append(out, kind)
	}
	return out, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("catalog: parse %s: %w", source, err)
	}
	return doc, nil
}

func normaliseKind(raw NodeKind, idx int, source string) (NodeKind, error) {
	kind := Sanitize(raw)
	kind.Kind = strings.TrimSpace(kind.Kind)
	if kind.Kind == "" {
		return NodeKind{}, fmt.Errorf("%w (file %s, entry #%d)", ErrMissingKind, source, idx)
	}
	if _, err := engine.Compile(kind.Fields); err != nil {
		return NodeKind{}, fmt.Errorf("catalog: kind %q (file %s): %w", kind.Kind, source, err)
	}
	return kind, nil
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
