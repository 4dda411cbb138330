package similarity

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractKeywords_Basic(t *testing.T) {
	got := ExtractKeywords("Ants predict seismic activity near fault lines")
	want := []string{"ants", "predict", "seismic", "activity", "near", "fault", "lines"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_Empty(t *testing.T) {
	if got := ExtractKeywords(""); len(got) != 0 {
		t.Errorf("expected no keywords for empty input, got %v", got)
	}
	if got := ExtractKeywords("the a an of to"); len(got) != 0 {
		t.Errorf("expected no keywords for pure stopwords, got %v", got)
	}
}

func TestExtractKeywords_Cap(t *testing.T) {
	words := make([]string, 30)
	for i := range words {
		words[i] = "keyword" + strings.Repeat("x", i+1)
	}
	got := ExtractKeywords(strings.Join(words, " "))
	if len(got) != 10 {
		t.Errorf("expected cap of 10 keywords, got %d", len(got))
	}
	// First-occurrence order preserved.
	if got[0] != words[0] || got[9] != words[9] {
		t.Errorf("keyword order not preserved: %v", got)
	}
}

func TestExtractKeywords_FiltersShortAndStopwords(t *testing.T) {
	got := ExtractKeywords("Les fourmis dans une colonie")
	for _, k := range got {
		if len([]rune(k)) <= 3 {
			t.Errorf("short token %q not filtered", k)
		}
		if k == "dans" || k == "une" {
			t.Errorf("stopword %q not filtered", k)
		}
	}
}

func TestExtractKeywords_StripsPunctuationAndCase(t *testing.T) {
	got := ExtractKeywords("SEISMIC, activity! (measured)")
	want := []string{"seismic", "activity", "measured"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}
