package validate

import (
	"io"
	"strings"
	"testing"

	"github.com/pmorvan/factuel/internal/model"
)

func validData() map[string]any {
	return map[string]any{
		"title":           "Ants predict seismic activity",
		"content":         "Colonies change behavior hours before measurable tremors.",
		"source":          "University of Duisburg-Essen, 2013",
		"category":        "Biology",
		"wtfScore":        float64(8),
		"contestedTheory": "Seismologists dispute the causal link",
	}
}

func newQuiet(policy model.ValidateConfig) *Validator {
	v := New(policy)
	v.SetLogWriter(io.Discard)
	return v
}

func TestValidate_Valid(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	fact, ok := v.Validate(validData())
	if !ok {
		t.Fatal("expected valid data to pass")
	}
	if fact.Title != "Ants predict seismic activity" {
		t.Errorf("unexpected title %q", fact.Title)
	}
	if fact.WtfScore != 8 {
		t.Errorf("unexpected wtfScore %v", fact.WtfScore)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	for field := range validData() {
		data := validData()
		delete(data, field)
		if _, ok := v.Validate(data); ok {
			t.Errorf("expected rejection with %q missing", field)
		}
	}
}

func TestValidate_Nil(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	if _, ok := v.Validate(nil); ok {
		t.Error("expected rejection of nil data")
	}
}

func TestValidate_BlankStrings(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	for _, field := range []string{"title", "content", "source", "category", "contestedTheory"} {
		for _, bad := range []any{"", "   ", 42, nil} {
			data := validData()
			data[field] = bad
			if _, ok := v.Validate(data); ok {
				t.Errorf("expected rejection with %s = %#v", field, bad)
			}
		}
	}
}

func TestValidate_TitleTooLong(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	data := validData()
	data["title"] = strings.Repeat("x", 151)
	if _, ok := v.Validate(data); ok {
		t.Error("expected rejection of 151-char title")
	}

	data["title"] = strings.Repeat("x", 150)
	if _, ok := v.Validate(data); !ok {
		t.Error("expected acceptance of 150-char title")
	}
}

func TestValidate_WtfScoreRange(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	for _, bad := range []any{float64(0), float64(11), float64(-1), "8", nil} {
		data := validData()
		data["wtfScore"] = bad
		if _, ok := v.Validate(data); ok {
			t.Errorf("expected rejection with wtfScore = %#v", bad)
		}
	}
	for _, good := range []any{float64(1), float64(10), float64(5)} {
		data := validData()
		data["wtfScore"] = good
		if _, ok := v.Validate(data); !ok {
			t.Errorf("expected acceptance with wtfScore = %#v", good)
		}
	}
}

func TestValidate_ContentLengthPolicy(t *testing.T) {
	v := newQuiet(model.ValidateConfig{MinContentLen: 100, MaxContentLen: 1000})

	data := validData()
	data["content"] = "too short"
	if _, ok := v.Validate(data); ok {
		t.Error("expected rejection of short content under MinContentLen policy")
	}

	data["content"] = strings.Repeat("x", 100)
	if _, ok := v.Validate(data); !ok {
		t.Error("expected acceptance at exactly MinContentLen")
	}

	data["content"] = strings.Repeat("x", 1001)
	if _, ok := v.Validate(data); ok {
		t.Error("expected rejection above MaxContentLen")
	}
}

func TestValidate_NeverPanics(t *testing.T) {
	v := newQuiet(model.ValidateConfig{})
	weird := []map[string]any{
		{"title": []string{"x"}, "content": map[string]any{}, "source": 1.5, "category": true, "wtfScore": "ten", "contestedTheory": nil},
		{},
	}
	for _, data := range weird {
		if _, ok := v.Validate(data); ok {
			t.Errorf("expected rejection of %#v", data)
		}
	}
}
