package expr

import (
	"strings"

	"github.com/goliatone/go-nodeconfig/pkg/value"
	"github.com/goliatone/go-nodeconfig/pkg/visibility"
)

// Evaluator is a small, dependency-free visibility evaluator.
//
// Supported operators:
// - boolean checks: `enabled`
// - comparisons: `field == true`, `field != "value"`, `count == 3`
// - membership: `mode in ["a", "b"]`, `mode not in [1, 2]`
// - boolean composition: `a == true && b != false`, `a || b`, `!a`, also
// spelled `and`, `or`, `not`
//
// Values are read from visibility.Context.Values (with dot-path traversal) and
// visibility.Context.Extras (via the `extras.` prefix). Comparisons against a
// missing key compare against absence and never fail.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

// Ensure the evaluator satisfies the visibility contract.
var _ visibility.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Eval(fieldKey, rule string, ctx visibility.Context) (bool, error) {
	_ = fieldKey
	program, err := Compile(rule)
	if err != nil {
		return false, err
	}
	return program.Eval(ctx), nil
}

// Program is a parsed rule. A nil or empty Program always evaluates true.
// Programs are immutable and safe for concurrent use.
type Program struct {
	source string
	root   exprNode
}

// Compile parses rule once so it can be evaluated repeatedly. Syntax errors
// are reported here; evaluation itself cannot fail.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return &Program{}, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return &Program{source: trimmed}, nil
	}

	root, err := parseExpression(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{source: trimmed, root: root}, nil
}

// MustCompile is like Compile but panics on error. Intended for rules baked
// into code, such as built-in catalog entries.
func MustCompile(rule string) *Program {
	program, err := Compile(rule)
	if err != nil {
		panic(err)
	}
	return program
}

// Source returns the trimmed rule text.
func (p *Program) Source() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Eval evaluates the program against ctx.
func (p *Program) Eval(ctx visibility.Context) bool {
	if p == nil || p.root == nil {
		return true
	}
	return p.root.eval(ctx)
}

type exprNode interface {
	eval(ctx visibility.Context) bool
}

type exprOr struct {
	left  exprNode
	right exprNode
}

func (n exprOr) eval(ctx visibility.Context) bool {
	return n.left.eval(ctx) || n.right.eval(ctx)
}

type exprAnd struct {
	left  exprNode
	right exprNode
}

func (n exprAnd) eval(ctx visibility.Context) bool {
	return n.left.eval(ctx) && n.right.eval(ctx)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(ctx visibility.Context) bool {
	return !n.inner.eval(ctx)
}

type literalKind int

const (
	litString literalKind = iota
	litNumber
	litBool
	litNull
	litList
)

type literal struct {
	kind  literalKind
	raw   string
	num   float64
	items []literal
}

// matches reports whether got equals the literal under the literal's
// coercion rules.
func (l literal) matches(got value.Value) bool {
	switch l.kind {
	case litNull:
		return got.Kind() == value.Absent || got.Kind() == value.Null
	case litBool:
		return got.AsBool() == (l.raw == "true")
	case litNumber:
		n, ok := got.AsNumber()
		return ok && got.Kind() != value.Bool && n == l.num
	case litString:
		return got.AsString() == l.raw
	case litList:
		items, ok := got.Items()
		if !ok || len(items) != len(l.items) {
			return false
		}
		for i, item := range items {
			if !l.items[i].matches(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

type exprCompare struct {
	identifier string
	op         tokenKind
	literal    literal
}

func (n exprCompare) eval(ctx visibility.Context) bool {
	got := lookup(ctx, n.identifier)
	equal := n.literal.matches(got)
	if n.op == tokenNeq {
		return !equal
	}
	return equal
}

type exprIn struct {
	identifier string
	set        []literal
}

func (n exprIn) eval(ctx visibility.Context) bool {
	got := lookup(ctx, n.identifier)
	candidates := []value.Value{got}
	if items, ok := got.Items(); ok {
		candidates = items
	}
	for _, candidate := range candidates {
		for _, member := range n.set {
			if member.matches(candidate) {
				return true
			}
		}
	}
	return false
}

type exprTruthy struct {
	identifier string
}

func (n exprTruthy) eval(ctx visibility.Context) bool {
	return lookup(ctx, n.identifier).Truthy()
}

func lookup(ctx visibility.Context, key string) value.Value {
	key = strings.TrimSpace(key)
	if key == "" {
		return value.Value{}
	}

	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		path := strings.TrimSpace(key[len("extras."):])
		return lookupMap(ctx.Extras, path)
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) value.Value {
	if len(values) == 0 || path == "" {
		return value.Value{}
	}

	// Prefer exact match for dotted keys (common with flattened values like "auth.token").
	if v, ok := values[path]; ok {
		return value.Of(v)
	}

	parts := strings.Split(path, ".")
	var current any = values
	for _, part := range parts {
		if part == "" {
			return value.Value{}
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return value.Value{}
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return value.Value{}
			}
			current = next
		default:
			return value.Value{}
		}
	}
	return value.Of(current)
}
