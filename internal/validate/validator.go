// Package validate checks parsed generator output against the fact schema.
package validate

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pmorvan/factuel/internal/model"
)

// requiredFields are the six fields every generated fact must carry.
var requiredFields = []string{"title", "content", "source", "category", "wtfScore", "contestedTheory"}

const maxTitleLen = 150

// Validator performs the structural schema check on raw generator output.
// It is a pure check: no network, no store access, and it never panics —
// invalid input yields (nil, false) with the failing field logged.
type Validator struct {
	policy model.ValidateConfig
	logw   io.Writer
}

// New creates a validator with the given length policy.
func New(policy model.ValidateConfig) *Validator {
	return &Validator{policy: policy, logw: os.Stderr}
}

// SetLogWriter redirects failure logging (used by tests).
func (v *Validator) SetLogWriter(w io.Writer) {
	v.logw = w
}

// Validate checks a decoded JSON object against the fact schema and, when it
// conforms, returns the typed fact. All six fields must be present and
// individually valid or the whole object is rejected.
func (v *Validator) Validate(data map[string]any) (*model.GeneratedFact, bool) {
	if data == nil {
		v.logf("validation failed: no data")
		return nil, false
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := data[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		v.logf("validation failed: missing fields %v", missing)
		return nil, false
	}

	title, ok := nonBlankString(data["title"])
	if !ok || utf8.RuneCountInString(title) > maxTitleLen {
		v.logf("validation failed: invalid title %q", data["title"])
		return nil, false
	}

	content, ok := nonBlankString(data["content"])
	if !ok {
		v.logf("validation failed: invalid content")
		return nil, false
	}
	if v.policy.MinContentLen > 0 && utf8.RuneCountInString(strings.TrimSpace(content)) < v.policy.MinContentLen {
		v.logf("validation failed: content shorter than %d chars", v.policy.MinContentLen)
		return nil, false
	}
	if v.policy.MaxContentLen > 0 && utf8.RuneCountInString(content) > v.policy.MaxContentLen {
		v.logf("validation failed: content longer than %d chars", v.policy.MaxContentLen)
		return nil, false
	}

	source, ok := nonBlankString(data["source"])
	if !ok {
		v.logf("validation failed: invalid source %v", data["source"])
		return nil, false
	}

	category, ok := nonBlankString(data["category"])
	if !ok {
		v.logf("validation failed: invalid category %v", data["category"])
		return nil, false
	}

	score, ok := numeric(data["wtfScore"])
	if !ok || score < 1 || score > 10 {
		v.logf("validation failed: invalid wtfScore %v", data["wtfScore"])
		return nil, false
	}

	theory, ok := nonBlankString(data["contestedTheory"])
	if !ok {
		v.logf("validation failed: invalid contestedTheory %v", data["contestedTheory"])
		return nil, false
	}

	return &model.GeneratedFact{
		Title:           title,
		Content:         content,
		Source:          source,
		Category:        category,
		WtfScore:        score,
		ContestedTheory: theory,
	}, true
}

func (v *Validator) logf(format string, args ...any) {
	fmt.Fprintf(v.logw, format+"\n", args...)
}

func nonBlankString(val any) (string, bool) {
	s, ok := val.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func numeric(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
