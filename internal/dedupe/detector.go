// Package dedupe decides whether a candidate fact is too similar to content
// already in the corpus.
package dedupe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmorvan/factuel/internal/model"
	"github.com/pmorvan/factuel/internal/similarity"
)

// Detector checks candidate facts against the stored corpus using title and
// content edit-distance similarity plus keyword overlap.
//
// Detection is a full O(N) corpus scan per call. That holds up while the
// corpus stays in the low thousands; past that, candidate shortlisting
// (keyword signatures or shingle buckets) belongs in front of this check.
type Detector struct {
	thresholds model.DedupeConfig
	logw       io.Writer
}

// New creates a detector with the given thresholds.
func New(thresholds model.DedupeConfig) *Detector {
	return &Detector{thresholds: thresholds, logw: os.Stderr}
}

// SetLogWriter redirects match logging (used by tests).
func (d *Detector) SetLogWriter(w io.Writer) {
	d.logw = w
}

// IsDuplicate reports whether candidate is a near-duplicate of any stored
// fact. An exact title match short-circuits; otherwise every stored fact is
// compared on case-folded title similarity, content similarity, and keyword
// overlap over title+content.
func (d *Detector) IsDuplicate(candidate *model.GeneratedFact, corpus []model.StoredFact) bool {
	for _, existing := range corpus {
		if existing.Title == candidate.Title {
			d.logf("duplicate: exact title match with %s", existing.ID)
			return true
		}
	}

	candTitle := strings.ToLower(candidate.Title)
	candContent := strings.ToLower(candidate.Content)
	candKeywords := similarity.ExtractKeywords(candidate.Title + " " + candidate.Content)

	for _, existing := range corpus {
		titleSim := similarity.Similarity(candTitle, strings.ToLower(existing.Title))
		contentSim := similarity.Similarity(candContent, strings.ToLower(existing.Content))
		if titleSim > d.thresholds.TitleThreshold || contentSim > d.thresholds.ContentThreshold {
			d.logf("duplicate of %s: title similarity %.3f, content similarity %.3f",
				existing.ID, titleSim, contentSim)
			return true
		}

		existingKeywords := similarity.ExtractKeywords(existing.Title + " " + existing.Content)
		if overlap := similarity.KeywordOverlap(candKeywords, existingKeywords); overlap > d.thresholds.KeywordThreshold {
			d.logf("duplicate of %s: keyword overlap %.3f", existing.ID, overlap)
			return true
		}
	}
	return false
}

func (d *Detector) logf(format string, args ...any) {
	fmt.Fprintf(d.logw, format+"\n", args...)
}
