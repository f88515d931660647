package logic

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"tocview/internal/domain"
)

// SearchFilter matches outline headings against a query
type SearchFilter struct {
	headings []domain.HeadingEntry
}

// SearchResult is one heading that matched, with the byte offsets of the
// matched characters in its text
type SearchResult struct {
	Index          int
	MatchedIndexes []int
}

// NewSearchFilter creates a new search filter
func NewSearchFilter(headings []domain.HeadingEntry) *SearchFilter {
	return &SearchFilter{headings: headings}
}

type headingSource []domain.HeadingEntry

func (s headingSource) String(i int) string { return s[i].Text }
func (s headingSource) Len() int            { return len(s) }

// Search returns matching headings in document order. A "level:N" prefix
// restricts the search to one heading level; the rest of the query is
// matched fuzzily.
func (sf *SearchFilter) Search(query string) []SearchResult {
	query = strings.TrimSpace(query)
	level := 0
	if strings.HasPrefix(query, "level:") {
		n, rest, _ := strings.Cut(strings.TrimPrefix(query, "level:"), " ")
		if v, err := strconv.Atoi(n); err == nil {
			level = v
		}
		query = strings.TrimSpace(rest)
	}

	var results []SearchResult
	if query == "" {
		for i, h := range sf.headings {
			if level == 0 || h.Level == level {
				results = append(results, SearchResult{Index: i})
			}
		}
		return results
	}

	for _, m := range fuzzy.FindFrom(query, headingSource(sf.headings)) {
		if level != 0 && sf.headings[m.Index].Level != level {
			continue
		}
		results = append(results, SearchResult{Index: m.Index, MatchedIndexes: m.MatchedIndexes})
	}
	// The outline keeps document order even while filtered
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// Best returns the highest scoring match for query, or -1
func (sf *SearchFilter) Best(query string) int {
	query = strings.TrimSpace(query)
	if query == "" || strings.HasPrefix(query, "level:") {
		results := sf.Search(query)
		if len(results) == 0 {
			return -1
		}
		return results[0].Index
	}
	matches := fuzzy.FindFrom(query, headingSource(sf.headings))
	if len(matches) == 0 {
		return -1
	}
	return matches[0].Index
}
