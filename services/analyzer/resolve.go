package analyzer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"vocabtutor/models"
)

// suffixRules map common inflection endings back toward a base form. They
// are tried in order after an exact match fails.
var suffixRules = []struct {
	suffix      string
	replacement string
}{
	{"ies", "y"},
	{"ied", "y"},
	{"ing", ""},
	{"ed", ""},
	{"es", ""},
	{"s", ""},
	{"ly", ""},
}

const (
	maxFuzzyDistance = 2
	minFuzzyLength   = 4
)

// resolveWord maps a surface form from the conversation to a tracked word:
// exact match first, then suffix stripping, then a close fuzzy match for
// misspellings.
func resolveWord(form string, tracked []*models.WordRecord) (*models.WordRecord, bool) {
	form = strings.ToLower(strings.TrimSpace(form))
	if form == "" {
		return nil, false
	}

	byWord := make(map[string]*models.WordRecord, len(tracked))
	words := make([]string, 0, len(tracked))
	for _, record := range tracked {
		byWord[record.Word] = record
		words = append(words, record.Word)
	}

	if record, ok := byWord[form]; ok {
		return record, true
	}

	for _, candidate := range stemCandidates(form) {
		if record, ok := byWord[candidate]; ok {
			return record, true
		}
	}

	if len(form) < minFuzzyLength {
		return nil, false
	}
	ranks := fuzzy.RankFindFold(form, words)
	if len(ranks) == 0 {
		return nil, false
	}
	sort.Sort(ranks)
	if ranks[0].Distance <= maxFuzzyDistance {
		return byWord[ranks[0].Target], true
	}

	return nil, false
}

// stemCandidates generates base-form guesses for an inflected word. Each
// stripped stem is also tried with a restored final e (abated -> abate) and
// with a doubled final consonant collapsed (running -> run).
func stemCandidates(form string) []string {
	var candidates []string
	for _, rule := range suffixRules {
		if !strings.HasSuffix(form, rule.suffix) {
			continue
		}

		stem := strings.TrimSuffix(form, rule.suffix) + rule.replacement
		if len(stem) < 2 {
			continue
		}

		candidates = append(candidates, stem, stem+"e")
		if n := len(stem); n >= 3 && stem[n-1] == stem[n-2] {
			candidates = append(candidates, stem[:n-1])
		}
	}

	return candidates
}
