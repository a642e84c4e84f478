package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-nodeconfig/pkg/engine"
)

//go:embed templates/*.tpl
var templates embed.FS

var (
	textOnce     sync.Once
	textTemplate *pongo2.Template
	textErr      error
)

// Payload is the wire form of a validation result.
type Payload struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// NewPayload converts result into its wire form. Errors is never nil.
func NewPayload(result engine.Result) Payload {
	errs := make(map[string]string, len(result))
	for key, msg := range result {
		errs[key] = msg
	}
	return Payload{Valid: len(errs) == 0, Errors: errs}
}

// JSON writes result as an indented {"valid": ..., "errors": {...}} document.
func JSON(w io.Writer, result engine.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewPayload(result)); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// Text writes a human readable summary of result for kind, one line per
// field error sorted by key.
func Text(w io.Writer, kind string, result engine.Result) error {
	tmpl, err := loadText()
	if err != nil {
		return err
	}

	items := make([]map[string]string, 0, len(result))
	for _, key := range result.Keys() {
		items = append(items, map[string]string{"key": key, "message": result[key]})
	}

	ctx := pongo2.Context{
		"kind":   kind,
		"valid":  result.Valid(),
		"count":  len(items),
		"errors": items,
	}
	if err := tmpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("report: execute text template: %w", err)
	}
	return nil
}

func loadText() (*pongo2.Template, error) {
	textOnce.Do(func() {
		set := pongo2.NewSet("report", pongo2.NewFSLoader(templates))
		textTemplate, textErr = set.FromFile("templates/text.tpl")
		if textErr != nil {
			textErr = fmt.Errorf("report: parse text template: %w", textErr)
		}
	})
	return textTemplate, textErr
}
