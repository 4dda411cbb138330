// Package similarity implements the string-similarity primitives used for
// near-duplicate detection: normalized Levenshtein distance and keyword-set
// overlap.
package similarity

// Similarity computes a normalized edit-distance similarity in [0,1] between
// two strings, where 1.0 means identical. The distance is classic Levenshtein
// computed with a rolling row, so memory is O(len(shorter)).
//
// The function is case-sensitive; callers comparing user content should
// lowercase both inputs first.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	longer, shorter := []rune(a), []rune(b)
	if len(longer) < len(shorter) {
		longer, shorter = shorter, longer
	}
	if len(longer) == 0 {
		return 1.0
	}

	costs := make([]int, len(shorter)+1)
	for i := range costs {
		costs[i] = i
	}

	for i := 1; i <= len(longer); i++ {
		costs[0] = i
		nw := i - 1 // cost of the north-west (diagonal) cell
		for j := 1; j <= len(shorter); j++ {
			sub := nw
			if longer[i-1] != shorter[j-1] {
				sub = nw + 1
			}
			cj := min3(costs[j]+1, costs[j-1]+1, sub)
			nw = costs[j]
			costs[j] = cj
		}
	}

	dist := costs[len(shorter)]
	return float64(len(longer)-dist) / float64(len(longer))
}

// KeywordOverlap returns the ratio of shared keywords to the size of the
// smaller keyword set, in [0,1]. Either set being empty yields 0.
func KeywordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, k := range a {
		setA[k] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, k := range b {
		setB[k] = struct{}{}
	}

	shared := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			shared++
		}
	}

	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(shared) / float64(smaller)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
