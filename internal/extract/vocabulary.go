package extract

import (
	"regexp"
	"unicode/utf8"

	"github.com/verba-app/verba-backend/internal/core"
)

// The model marks a teachable word by appending a zero-width non-joiner
// followed by a zero-width joiner right after it. Some model outputs
// escape the markers as the literal text ⟨ZWNJ⟩⟨ZWJ⟩ instead, so that
// spelling is kept as an ordered fallback: the first convention that
// matches anything wins and the other is ignored.
var (
	invisibleMarkerPattern = regexp.MustCompile(`(\w+)['’‘]?` + "‌‍")
	bracketMarkerPattern   = regexp.MustCompile(`(\w+)[^a-zA-Z]*⟨ZWNJ⟩⟨ZWJ⟩`)
)

const contextWindow = 50

// Vocabulary scans the full answer text for vocabulary markers and
// returns one entry per occurrence, each carrying the matched word, the
// rune offset of the match start, and up to 50 characters of context on
// either side. Repeated words are not de-duplicated.
func Vocabulary(text string) []core.VocabularyWord {
	words := scanMarkers(text, invisibleMarkerPattern)
	if len(words) > 0 {
		return words
	}
	return scanMarkers(text, bracketMarkerPattern)
}

func scanMarkers(text string, pattern *regexp.Regexp) []core.VocabularyWord {
	words := []core.VocabularyWord{}
	runes := []rune(text)

	for _, match := range pattern.FindAllStringSubmatchIndex(text, -1) {
		word := text[match[2]:match[3]]
		// Positions are rune offsets so clients can index into the text
		// as characters regardless of encoding.
		position := utf8.RuneCountInString(text[:match[0]])

		start := position - contextWindow
		if start < 0 {
			start = 0
		}
		end := position + contextWindow
		if end > len(runes) {
			end = len(runes)
		}

		words = append(words, core.VocabularyWord{
			Word:     word,
			Position: position,
			Context:  string(runes[start:end]),
		})
	}
	return words
}
