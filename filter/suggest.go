package filter

import (
	"github.com/pmezard/go-difflib/difflib"
)

// suggestCutoff is the minimum similarity ratio for a suggestion.
const suggestCutoff = 0.6

// ClosestMatch returns the candidate most similar to word, if any candidate
// reaches the similarity cutoff. Candidates are screened with the cheap upper
// bounds before the full ratio is computed.
func ClosestMatch(word string, candidates []string) (string, bool) {
	var (
		best      string
		bestRatio float64
		found     bool
	)

	target := runes(word)
	m := difflib.NewMatcher(nil, target)

	for _, c := range candidates {
		m.SetSeq1(runes(c))
		if m.RealQuickRatio() < suggestCutoff || m.QuickRatio() < suggestCutoff {
			continue
		}

		r := m.Ratio()
		if r < suggestCutoff {
			continue
		}
		// ties go to the lexically greater candidate
		if !found || r > bestRatio || (r == bestRatio && c > best) {
			best, bestRatio, found = c, r, true
		}
	}

	return best, found
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
