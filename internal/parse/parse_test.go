package parse

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

const factJSON = `{"title":"Ants predict seismic activity","content":"Colonies change behavior before tremors.","source":"Uni X, 2020","category":"Biology","wtfScore":8,"contestedTheory":"Disputed"}`

func wantFact(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(factJSON), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestParse_DirectJSON(t *testing.T) {
	got, err := Parse(factJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(got, wantFact(t)) {
		t.Errorf("Parse = %v, want %v", got, wantFact(t))
	}
}

func TestParse_MarkdownFenced(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + factJSON + "\n```",
		"```\n" + factJSON + "\n```",
		"Here is your fact:\n```json\n" + factJSON + "\n```\nEnjoy!",
	} {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", raw, err)
		}
		if !reflect.DeepEqual(got, wantFact(t)) {
			t.Errorf("fenced parse mismatch: %v", got)
		}
	}
}

func TestParse_EnvelopeWithStringContent(t *testing.T) {
	envelope := map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{"role": "assistant", "content": factJSON},
			},
		},
	}
	raw, _ := json.Marshal(envelope)

	got, err := Parse(string(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(got, wantFact(t)) {
		t.Errorf("envelope parse mismatch: %v", got)
	}
}

func TestParse_EnvelopeWithObjectContent(t *testing.T) {
	envelope := `{"choices":[{"message":{"role":"assistant","content":` + factJSON + `}}]}`
	got, err := Parse(envelope)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(got, wantFact(t)) {
		t.Errorf("object-content envelope mismatch: %v", got)
	}
}

func TestParse_EnvelopeWithFencedContent(t *testing.T) {
	envelope := map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{"content": "```json\n" + factJSON + "\n```"},
			},
		},
	}
	raw, _ := json.Marshal(envelope)

	got, err := Parse(string(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(got, wantFact(t)) {
		t.Errorf("fenced envelope mismatch: %v", got)
	}
}

func TestParse_SurroundingNoise(t *testing.T) {
	raw := "Sure! Here it is: " + factJSON + " Hope that helps."
	got, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(got, wantFact(t)) {
		t.Errorf("noisy parse mismatch: %v", got)
	}
}

func TestParse_BoldMarkers(t *testing.T) {
	raw := `{"title":"A","content":"B","source":"C","category":"D","wtfScore":5,"contestedTheory":"E"}`
	got, err := Parse("**" + raw + "**")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got["title"] != "A" {
		t.Errorf("bold-marker parse mismatch: %v", got)
	}
}

func TestParse_Failure(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "{broken", "null"} {
		_, err := Parse(raw)
		if err == nil {
			t.Errorf("expected error for %q", raw)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("expected *ParseError for %q, got %T", raw, err)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prefix {\"a\":1} suffix", `{"a":1}`},
		{"**{\"a\":1}**", `{"a":1}`},
		{"no braces here", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
