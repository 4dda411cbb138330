package model

import "time"

// Language is an ISO 639-1 code supported by the application.
// French is the canonical source language; the others are translation targets.
type Language string

const (
	LangFrench  Language = "fr"
	LangEnglish Language = "en"
	LangChinese Language = "zh"
	LangArabic  Language = "ar"
	LangSpanish Language = "es"
)

// AllLanguages lists every supported language, canonical first.
func AllLanguages() []Language {
	return []Language{LangFrench, LangEnglish, LangChinese, LangArabic, LangSpanish}
}

// ParseLanguage validates a language code.
func ParseLanguage(code string) (Language, bool) {
	switch Language(code) {
	case LangFrench, LangEnglish, LangChinese, LangArabic, LangSpanish:
		return Language(code), true
	}
	return "", false
}

// Status tracks a stored fact through moderation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// GeneratedFact is the transient record produced by the generation pipeline.
// All six fields are required; a fact missing any of them is rejected whole.
type GeneratedFact struct {
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	Source          string  `json:"source"`          // institution/year citation, e.g. "University of X, 2023"
	Category        string  `json:"category"`        // free-form domain label
	WtfScore        float64 `json:"wtfScore"`        // counter-intuitiveness rating, integer-like in [1,10]
	ContestedTheory string  `json:"contestedTheory"` // main opposing theory or controversy
}

// Translation holds one language's rendering of the translatable fields.
// A translation is atomic: either all three fields translated or none did.
type Translation struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	ContestedTheory string `json:"contestedTheory"`
}

// StoredFact is the persisted superset of GeneratedFact. The generation core
// only reads Title/Content of existing records for duplicate comparison and
// inserts new records; moderation status is owned by the surrounding app.
type StoredFact struct {
	ID string `json:"id"`
	GeneratedFact
	Status       Status                   `json:"status"`
	Translations map[Language]Translation `json:"translations,omitempty"`
	ImageURL     string                   `json:"image_url,omitempty"`
	VideoURL     string                   `json:"video_url,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	ApprovedAt   *time.Time               `json:"approved_at,omitempty"`
}

// AutoConfig drives one category's scheduled generation.
type AutoConfig struct {
	ID             string     `json:"id"`
	Category       string     `json:"category"`
	Languages      []Language `json:"languages"`
	Enabled        bool       `json:"enabled"`
	AutoApprove    bool       `json:"auto_approve"`
	MinIntervalHrs float64    `json:"min_interval_hours"` // do not generate more often than this
	MaxIntervalHrs float64    `json:"max_interval_hours"` // jitter upper bound for the next run
	LastGeneration time.Time  `json:"last_generation"`
	NextGeneration time.Time  `json:"next_generation"`
}

// Due reports whether this config is past its minimum interval at time now.
func (c AutoConfig) Due(now time.Time) bool {
	if !c.Enabled {
		return false
	}
	elapsed := now.Sub(c.LastGeneration)
	return elapsed.Hours() >= c.MinIntervalHrs
}
