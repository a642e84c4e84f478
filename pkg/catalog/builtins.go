package catalog

import (
	s "github.com/goliatone/go-nodeconfig/pkg/schema"
)

// Builtins returns the node kinds shipped with the catalog.
func Builtins() []NodeKind {
	return []NodeKind{
		webhookTrigger(),
		scheduleTrigger(),
		httpRequest(),
		conditionNode(),
		transformNode(),
		delayNode(),
		sendEmail(),
		llmPrompt(),
	}
}

// ---- Triggers ----

func webhookTrigger() NodeKind {
	return NodeKind{
		Kind:        "trigger.webhook",
		Label:       "Webhook",
		Category:    "trigger",
		Description: "Starts the workflow when an HTTP request hits the webhook path.",
		Outputs:     []Port{{Name: "request", Type: "http.Request", Description: "Incoming request payload"}},
		Fields: s.Schema{
			{
				Key:         "path",
				Label:       "Path",
				Type:        s.FieldTypeString,
				Placeholder: "/hooks/orders",
				Required:    true,
				Validation: &s.Validation{
					MaxLength:      s.IntPtr(200),
					Pattern:        `^/[a-z0-9/_-]*$`,
					PatternMessage: "Path must start with / and use lowercase letters, digits, - or _",
				},
			},
			{Key: "method", Label: "Method", Type: s.FieldTypeSelect, Default: "POST", Options: []string{"GET", "POST", "PUT"}, Required: true},
			{Key: "auth", Label: "Authentication", Type: s.FieldTypeSelect, Default: "none", Options: []string{"none", "basic", "header"}},
			{
				Key:         "username",
				Label:       "Username",
				Type:        s.FieldTypeString,
				Required:    true,
				VisibleWhen: s.FieldEquals("auth", "basic"),
			},
			{
				Key:         "password",
				Label:       "Password",
				Type:        s.FieldTypeSecret,
				Required:    true,
				VisibleWhen: s.FieldEquals("auth", "basic"),
				Validation:  &s.Validation{MinLength: s.IntPtr(8)},
			},
			{
				Key:         "headerName",
				Label:       "Header name",
				Type:        s.FieldTypeString,
				Placeholder: "X-Webhook-Token",
				Required:    true,
				VisibleWhen: s.FieldEquals("auth", "header"),
				Validation:  &s.Validation{Pattern: `^[A-Za-z0-9-]+$`, PatternMessage: "Header names use letters, digits and -"},
			},
			{
				Key:         "headerValue",
				Label:       "Header value",
				Type:        s.FieldTypeSecret,
				Required:    true,
				VisibleWhen: s.FieldEquals("auth", "header"),
			},
		},
	}
}

func scheduleTrigger() NodeKind {
	return NodeKind{
		Kind:        "trigger.schedule",
		Label:       "Schedule",
		Category:    "trigger",
		Description: "Starts the workflow on a fixed interval or cron expression.",
		Outputs:     []Port{{Name: "tick", Type: "time.Time", Description: "Scheduled fire time"}},
		Fields: s.Schema{
			{Key: "mode", Label: "Mode", Type: s.FieldTypeSelect, Default: "interval", Options: []string{"interval", "cron"}, Required: true},
			{
				Key:         "interval",
				Label:       "Interval (seconds)",
				Type:        s.FieldTypeNumber,
				Default:     300,
				Required:    true,
				VisibleWhen: s.FieldEquals("mode", "interval"),
				Validation:  &s.Validation{Min: s.FloatPtr(10), Max: s.FloatPtr(86400)},
			},
			{
				Key:         "expression",
				Label:       "Cron expression",
				Type:        s.FieldTypeString,
				Placeholder: "0 9 * * 1-5",
				Required:    true,
				VisibleWhen: s.FieldEquals("mode", "cron"),
				Validation: &s.Validation{
					Pattern:        `^\S+(\s+\S+){4}$`,
					PatternMessage: "Cron expressions have five fields",
				},
			},
			{Key: "timezone", Label: "Timezone", Type: s.FieldTypeString, Default: "UTC", Validation: &s.Validation{MaxLength: s.IntPtr(64)}},
		},
	}
}

// ---- Actions ----

func httpRequest() NodeKind {
	return NodeKind{
		Kind:        "http.request",
		Label:       "HTTP Request",
		Category:    "action",
		Description: "Calls an external HTTP endpoint.",
		Inputs:      []Port{{Name: "in", Type: "any"}},
		Outputs:     []Port{{Name: "response", Type: "http.Response", Description: "Status, headers and body"}},
		Fields: s.Schema{
			{
				Key:         "url",
				Label:       "URL",
				Type:        s.FieldTypeString,
				Placeholder: "https://api.example.com/v1/items",
				Required:    true,
				Validation: &s.Validation{
					MaxLength:      s.IntPtr(2048),
					Pattern:        `^https?://\S+$`,
					PatternMessage: "Must be an http or https URL",
				},
			},
			{Key: "method", Label: "Method", Type: s.FieldTypeSelect, Default: "GET", Options: []string{"GET", "POST", "PUT", "PATCH", "DELETE"}, Required: true},
			{Key: "headers", Label: "Headers", Type: s.FieldTypeJSON, Placeholder: `{"Accept": "application/json"}`, Validation: &s.Validation{ValidJSON: true}},
			{
				Key:         "body",
				Label:       "Body",
				Type:        s.FieldTypeJSON,
				VisibleWhen: s.FieldIn("method", "POST", "PUT", "PATCH"),
				Validation:  &s.Validation{ValidJSON: true, MaxLength: s.IntPtr(65536)},
			},
			{Key: "timeout", Label: "Timeout (seconds)", Type: s.FieldTypeNumber, Default: 30, Validation: &s.Validation{Min: s.FloatPtr(1), Max: s.FloatPtr(300)}},
			{Key: "retries", Label: "Retries", Type: s.FieldTypeNumber, Default: 0, Validation: &s.Validation{Min: s.FloatPtr(0), Max: s.FloatPtr(10)}},
		},
	}
}

func sendEmail() NodeKind {
	return NodeKind{
		Kind:        "email.send",
		Label:       "Send Email",
		Category:    "action",
		Description: "Sends an email message.",
		Inputs:      []Port{{Name: "in", Type: "any"}},
		Outputs:     []Port{{Name: "sent", Type: "email.Receipt"}},
		Fields: s.Schema{
			{Key: "to", Label: "Recipients", Type: s.FieldTypeMultiSelect, Required: true, Validation: &s.Validation{MinItems: s.IntPtr(1), MaxItems: s.IntPtr(50)}},
			{Key: "cc", Label: "CC", Type: s.FieldTypeMultiSelect, Validation: &s.Validation{MaxItems: s.IntPtr(20)}},
			{Key: "subject", Label: "Subject", Type: s.FieldTypeString, Required: true, Validation: &s.Validation{MaxLength: s.IntPtr(200)}},
			{Key: "format", Label: "Format", Type: s.FieldTypeSelect, Default: "text", Options: []string{"text", "html"}},
			{Key: "body", Label: "Body", Type: s.FieldTypeText, Required: true, Validation: &s.Validation{MaxLength: s.IntPtr(100000)}},
		},
	}
}

func llmPrompt() NodeKind {
	return NodeKind{
		Kind:        "ai.prompt",
		Label:       "LLM Prompt",
		Category:    "ai",
		Description: "Sends a prompt to a language model and returns its reply.",
		Inputs:      []Port{{Name: "context", Type: "any", Description: "Values available to the prompt template"}},
		Outputs:     []Port{{Name: "reply", Type: "string"}},
		Fields: s.Schema{
			{Key: "model", Label: "Model", Type: s.FieldTypeSelect, Options: []string{"small", "medium", "large"}, Required: true},
			{Key: "prompt", Label: "Prompt", Type: s.FieldTypeText, Required: true, Validation: &s.Validation{MaxLength: s.IntPtr(8000)}},
			{Key: "temperature", Label: "Temperature", Type: s.FieldTypeNumber, Default: 0.7, Validation: &s.Validation{Min: s.FloatPtr(0), Max: s.FloatPtr(2)}},
			{Key: "maxTokens", Label: "Max tokens", Type: s.FieldTypeNumber, Validation: &s.Validation{Min: s.FloatPtr(1), Max: s.FloatPtr(32000)}},
			{Key: "responseFormat", Label: "Response format", Type: s.FieldTypeSelect, Default: "text", Options: []string{"text", "json"}},
			{
				Key:         "responseSchema",
				Label:       "Response schema",
				Type:        s.FieldTypeJSON,
				Required:    true,
				VisibleWhen: s.FieldEquals("responseFormat", "json"),
				Validation:  &s.Validation{ValidJSON: true},
			},
		},
	}
}

// ---- Flow control ----

func conditionNode() NodeKind {
	return NodeKind{
		Kind:        "logic.condition",
		Label:       "Condition",
		Category:    "logic",
		Description: "Routes items to the true or false branch.",
		Inputs:      []Port{{Name: "in", Type: "any"}},
		Outputs:     []Port{{Name: "true", Type: "any"}, {Name: "false", Type: "any"}},
		Fields: s.Schema{
			{Key: "field", Label: "Field", Type: s.FieldTypeString, Placeholder: "order.total", Required: true},
			{
				Key:      "operator",
				Label:    "Operator",
				Type:     s.FieldTypeSelect,
				Default:  "equals",
				Options:  []string{"equals", "notEquals", "greaterThan", "lessThan", "contains", "exists", "empty"},
				Required: true,
			},
			{
				Key:         "value",
				Label:       "Value",
				Type:        s.FieldTypeString,
				Required:    true,
				VisibleWhen: &s.Condition{Field: "operator", NotIn: []any{"exists", "empty"}},
			},
		},
	}
}

func transformNode() NodeKind {
	return NodeKind{
		Kind:        "data.transform",
		Label:       "Transform",
		Category:    "data",
		Description: "Reshapes the incoming item with a field mapping or an expression.",
		Inputs:      []Port{{Name: "in", Type: "any"}},
		Outputs:     []Port{{Name: "out", Type: "any"}},
		Fields: s.Schema{
			{Key: "mode", Label: "Mode", Type: s.FieldTypeSelect, Default: "mapping", Options: []string{"mapping", "expression"}, Required: true},
			{
				Key:         "source",
				Label:       "Mapping",
				Type:        s.FieldTypeJSON,
				Placeholder: `{"id": "order.id"}`,
				Required:    true,
				VisibleWhen: s.FieldEquals("mode", "mapping"),
				Validation:  &s.Validation{ValidJSON: true},
			},
			{
				Key:         "source",
				Label:       "Expression",
				Type:        s.FieldTypeText,
				Required:    true,
				VisibleWhen: s.FieldEquals("mode", "expression"),
				Validation:  &s.Validation{MaxLength: s.IntPtr(2000)},
			},
			{Key: "keepOriginal", Label: "Keep original fields", Type: s.FieldTypeBoolean, Default: false},
		},
	}
}

func delayNode() NodeKind {
	return NodeKind{
		Kind:        "flow.delay",
		Label:       "Delay",
		Category:    "logic",
		Description: "Pauses the workflow before passing the item on.",
		Inputs:      []Port{{Name: "in", Type: "any"}},
		Outputs:     []Port{{Name: "out", Type: "any"}},
		Fields: s.Schema{
			{Key: "unit", Label: "Unit", Type: s.FieldTypeSelect, Default: "seconds", Options: []string{"seconds", "minutes", "hours"}},
			{
				Key:         "amount",
				Label:       "Seconds",
				Type:        s.FieldTypeNumber,
				Required:    true,
				VisibleWhen: s.FieldEquals("unit", "seconds"),
				Validation:  &s.Validation{Min: s.FloatPtr(1), Max: s.FloatPtr(3600)},
			},
			{
				Key:         "amount",
				Label:       "Minutes",
				Type:        s.FieldTypeNumber,
				Required:    true,
				VisibleWhen: s.FieldEquals("unit", "minutes"),
				Validation:  &s.Validation{Min: s.FloatPtr(1), Max: s.FloatPtr(1440)},
			},
			{
				// Fallback when unit is unset or hours.
				Key:        "amount",
				Label:      "Hours",
				Type:       s.FieldTypeNumber,
				Required:   true,
				Validation: &s.Validation{Min: s.FloatPtr(1), Max: s.FloatPtr(168)},
			},
		},
	}
}
