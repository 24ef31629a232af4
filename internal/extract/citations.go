package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/verba-app/verba-backend/internal/core"
)

// citationPattern matches bracketed numeric source markers such as [1].
var citationPattern = regexp.MustCompile(`\[(\d+)\]`)

// Citations scans the answer text for bracketed markers and maps each
// in-range 1-based index to its search result. Out-of-range markers are
// skipped, duplicates keep their first occurrence, and the returned list
// is sorted ascending by index.
func Citations(text string, results []core.SearchResult) []core.Citation {
	citations := []core.Citation{}
	seen := map[int]bool{}

	for _, match := range citationPattern.FindAllStringSubmatch(text, -1) {
		sourceIndex, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if sourceIndex < 1 || sourceIndex > len(results) {
			continue
		}
		if seen[sourceIndex] {
			continue
		}
		seen[sourceIndex] = true

		result := results[sourceIndex-1]
		citations = append(citations, core.Citation{
			SourceIndex: sourceIndex,
			Text:        match[0],
			URL:         result.URL,
			Title:       result.Title,
			Snippet:     result.Snippet,
		})
	}

	sort.Slice(citations, func(i, j int) bool {
		return citations[i].SourceIndex < citations[j].SourceIndex
	})
	return citations
}

// ValidateCitations reports every out-of-range marker in the text as a
// human-readable message. It filters nothing; it exists for diagnostics.
func ValidateCitations(text string, resultCount int) []string {
	var errs []string
	for _, match := range citationPattern.FindAllStringSubmatch(text, -1) {
		sourceIndex, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if sourceIndex < 1 || sourceIndex > resultCount {
			errs = append(errs, fmt.Sprintf("Invalid citation [%d] - only [1] to [%d] are valid", sourceIndex, resultCount))
		}
	}
	return errs
}
