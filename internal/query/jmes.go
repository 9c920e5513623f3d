package query

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
)

// EvalAny returns the raw value selected by the JMESPath expression.
// It is safe to pass any decoded JSON (map[string]any, []any, etc.)
// It will return nil and no error if the expression does not match anything.
// That is the same effect as having the expression evaluate to `null`.
func EvalAny(expression string, doc map[string]any) (any, error) {
	v, err := jmespath.Search(expression, doc)
	if err != nil {
		return nil, fmt.Errorf("jmespath: %w", err)
	}
	return v, nil
}

// Match evaluates the expression against the document and reports whether
// it selected a boolean true. Anything other than a boolean result is a
// non-match; an expression that errors is reported as an error so callers
// can reject bad filters rather than silently dropping rows.
func Match(expression string, doc map[string]any) (bool, error) {
	v, err := EvalAny(expression, doc)
	if err != nil {
		return false, err
	}
	matched, ok := v.(bool)
	if !ok {
		return false, nil
	}
	return matched, nil
}

// ToDoc converts any JSON-marshalable value into the decoded-JSON form
// jmespath operates on.
func ToDoc(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
