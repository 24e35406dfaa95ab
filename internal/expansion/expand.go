// Package expansion rewrites raw search queries into a wider set of search
// terms using static abbreviation and synonym tables, so that "FIR" also
// matches "police report" and "happy" also matches "joyful".
package expansion

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Result is the outcome of expanding one query. Terms always contains the
// tokens of the original query, is sorted, and carries no duplicates.
type Result struct {
	Original  string
	Words     []string
	Terms     []string
	Reasoning []string
}

// Contains reports whether term is part of the expanded term set.
func (r Result) Contains(term string) bool {
	i := sort.SearchStrings(r.Terms, term)
	return i < len(r.Terms) && r.Terms[i] == term
}

// Expand widens a query with abbreviation expansions and synonyms.
// The function is pure: the same query always yields the same term set.
func Expand(query string) Result {
	original := strings.TrimSpace(query)
	lower := strings.ToLower(original)
	words := tokenPattern.FindAllString(lower, -1)

	terms := make(map[string]struct{}, len(words))
	var reasoning []string
	for _, w := range words {
		terms[w] = struct{}{}
	}

	for _, w := range words {
		if related, ok := abbreviationMap[w]; ok {
			for t := range related {
				terms[t] = struct{}{}
			}
			reasoning = append(reasoning, fmt.Sprintf("%q expanded to: %s", w, joinSorted(related)))
		}
		if syns, ok := synonymMap[w]; ok {
			for t := range syns {
				terms[t] = struct{}{}
			}
			reasoning = append(reasoning, fmt.Sprintf("%q synonyms: %s", w, joinSorted(syns)))
		}
	}

	// Multi-word expansions are matched as substrings of the raw query so
	// phrase-level hits are caught, not just single tokens.
	for abbr, phrases := range abbreviations {
		for _, phrase := range phrases {
			if strings.Contains(phrase, " ") && strings.Contains(lower, phrase) {
				terms[abbr] = struct{}{}
				terms[phrase] = struct{}{}
				reasoning = append(reasoning, fmt.Sprintf("%q maps to abbreviation %q", phrase, abbr))
			}
		}
	}

	out := Result{
		Original:  original,
		Words:     words,
		Terms:     make([]string, 0, len(terms)),
		Reasoning: reasoning,
	}
	for t := range terms {
		out.Terms = append(out.Terms, t)
	}
	sort.Strings(out.Terms)
	sort.Strings(out.Reasoning)
	return out
}

func joinSorted(set map[string]struct{}) string {
	items := make([]string, 0, len(set))
	for t := range set {
		items = append(items, t)
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
