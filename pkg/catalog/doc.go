// Package catalog supplies node kinds and their field schemas. A Registry
// keeps each kind's compiled schema alongside its metadata so callers can
// validate configuration by kind identifier. Kinds come from the built-in set,
// from JSON/YAML catalog files (LoadFS), or from an OpenAPI document (see the
// openapi subpackage).
//
// Catalog file shape:
//
//	kinds:
//	  - kind: slack.post
//	    label: Post to Slack
//	    category: action
//	    fields:
//	      - key: channel
//	        label: Channel
//	        required: true
//	        validation: {pattern: "^#", patternMessage: "Channels start with #"}
//	      - key: threadTs
//	        visibleWhen: {field: reply, equals: true}
package catalog
