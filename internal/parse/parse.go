// Package parse extracts a JSON fact object from raw generative API output,
// which may arrive as bare JSON, a chat-completion envelope, or JSON wrapped
// in markdown noise.
package parse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that no JSON object could be extracted from a response.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Reason, e.Err)
	}
	return "parse response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	codeFence   = regexp.MustCompile("```(?:json)?\n?([\\s\\S]*?)\n?```")
	leadingJunk = regexp.MustCompile(`^[^{]*`)
	trailerJunk = regexp.MustCompile(`[^}]*$`)
)

// Parse extracts a JSON object from a raw API response. Strategies are tried
// in order, first success wins: direct decode, envelope unwrap, cleaned
// decode. A successful parse does not imply schema validity — that is the
// validator's concern.
func Parse(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		if inner, ok := unwrapEnvelope(obj); ok {
			return inner, nil
		}
		return obj, nil
	}

	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, &ParseError{Reason: "no JSON object found in response"}
	}
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, &ParseError{Reason: "response is not valid JSON after cleaning", Err: err}
	}
	if inner, ok := unwrapEnvelope(obj); ok {
		return inner, nil
	}
	return obj, nil
}

// unwrapEnvelope recognizes the chat-completion shape where the payload is
// nested under choices[0].message.content, either as a JSON string or as an
// already-decoded object.
func unwrapEnvelope(obj map[string]any) (map[string]any, bool) {
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return nil, false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return nil, false
	}
	message, ok := first["message"].(map[string]any)
	if !ok {
		return nil, false
	}

	switch content := message["content"].(type) {
	case string:
		inner, err := Parse(content)
		if err != nil {
			return nil, false
		}
		return inner, true
	case map[string]any:
		return content, true
	}
	return nil, false
}

// Clean strips markdown code fences, bold markers, and any text outside the
// outermost braces. It returns "" when no braces survive.
func Clean(text string) string {
	text = codeFence.ReplaceAllString(text, "$1")
	text = leadingJunk.ReplaceAllString(text, "")
	text = trailerJunk.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	return strings.TrimSpace(text)
}
