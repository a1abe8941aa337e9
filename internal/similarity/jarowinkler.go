// Package similarity implements the Jaro-Winkler string metric used for
// "did you mean?" suggestions on unresolved task names.
package similarity

// SuggestionThreshold is the minimum Jaro-Winkler score for a candidate
// to be offered as a suggestion. Below it, no suggestion is made.
const SuggestionThreshold = 0.80

// winklerPrefixCap bounds the common-prefix bonus to the first 4 characters.
const winklerPrefixCap = 4

// Jaro returns the Jaro similarity of two strings in [0, 1].
func Jaro(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	len1, len2 := len(s1), len(s2)
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	// Matching window: half the longer string, minus one.
	window := max(len1, len2)/2 - 1
	if window < 0 {
		window = 0
	}

	matched1 := make([]bool, len1)
	matched2 := make([]bool, len2)
	matches := 0

	for i := 0; i < len1; i++ {
		lo := max(0, i-window)
		hi := min(i+window+1, len2)
		for j := lo; j < hi; j++ {
			if matched2[j] || s1[i] != s2[j] {
				continue
			}
			matched1[i] = true
			matched2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Count transpositions over the matched characters.
	transpositions := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !matched1[i] {
			continue
		}
		for !matched2[k] {
			k++
		}
		if s1[i] != s2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2.0
	return (m/float64(len1) + m/float64(len2) + (m-t)/m) / 3.0
}

// JaroWinkler returns the Jaro similarity boosted by 0.1 per matched
// prefix character, capped at 4 characters.
func JaroWinkler(s1, s2 string) float64 {
	jaro := Jaro(s1, s2)

	prefix := 0
	limit := min(winklerPrefixCap, min(len(s1), len(s2)))
	for i := 0; i < limit; i++ {
		if s1[i] != s2[i] {
			break
		}
		prefix++
	}

	return jaro + float64(prefix)*0.1*(1.0-jaro)
}

// SuggestTaskName returns the candidate most similar to name, or the
// empty string when no candidate scores at or above the threshold.
// Comparison is case-sensitive and candidates are scanned in order, so
// the result is deterministic for a fixed candidate order.
func SuggestTaskName(name string, candidates []string) string {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score := JaroWinkler(name, c)
		if score > bestScore && score >= SuggestionThreshold {
			bestScore = score
			best = c
		}
	}
	return best
}
