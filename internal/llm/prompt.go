package llm

import (
	"fmt"
	"strings"

	"github.com/verba-app/verba-backend/internal/core"
)

// BuildAnswerPrompt renders the search-grounded answer prompt: the
// numbered source list, the citation convention and the vocabulary
// marking convention the extractors decode later.
func BuildAnswerPrompt(query string, results []core.SearchResult) string {
	var b strings.Builder

	b.WriteString("You are a helpful search assistant. Answer the user's question using the numbered sources below.\n\n")

	if len(results) == 0 {
		b.WriteString("No sources were found. Answer from general knowledge and say that no sources were available.\n\n")
	} else {
		b.WriteString("Sources:\n")
		for i, r := range results {
			b.WriteString(fmt.Sprintf("[%d] %s\n%s\n%s\n\n", i+1, r.Title, r.URL, r.Snippet))
		}
	}

	b.WriteString("Rules:\n")
	b.WriteString("- Cite sources inline with their bracketed number, e.g. [1] or [3], right after the claim they support.\n")
	b.WriteString(fmt.Sprintf("- Only cite numbers between [1] and [%d].\n", maxInt(len(results), 1)))
	b.WriteString("- Mark up to five words worth learning for a language student by appending the two invisible characters U+200C and U+200D (zero-width non-joiner, then zero-width joiner) directly after the word. Do not mark common words.\n")
	b.WriteString("- Be concise and factual. Do not invent sources.\n\n")

	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n")

	return b.String()
}

// BuildVocabularyPrompt renders the structured vocabulary-content
// request. The model must return exactly one JSON object of the
// core.VocabularyContent shape.
func BuildVocabularyPrompt(word, searchContext, usageContext string) string {
	if strings.TrimSpace(searchContext) == "" {
		searchContext = "General context"
	}
	if strings.TrimSpace(usageContext) == "" {
		usageContext = "No specific usage context"
	}

	var b strings.Builder
	b.WriteString("You are an expert vocabulary teacher. Generate comprehensive learning content for a word that appeared in a user's search results.\n\n")
	b.WriteString(fmt.Sprintf("Word: %q\n", word))
	b.WriteString(fmt.Sprintf("Search Context: %q\n", searchContext))
	b.WriteString(fmt.Sprintf("Usage Context: %q\n\n", usageContext))
	b.WriteString(`Generate a JSON response with the following structure:
{
  "word": "the word",
  "pronunciation": "phonetic pronunciation using IPA or common format",
  "partOfSpeech": "noun/verb/adjective/adverb/etc",
  "difficulty": "beginner/intermediate/advanced",
  "definition": "clear, concise definition",
  "examples": ["example sentence 1", "example sentence 2"],
  "synonyms": ["synonym1", "synonym2", "synonym3", "synonym4"],
  "relatedContext": "how this word relates to the original search topic"
}

Guidelines:
- Make the definition clear and educational
- Create 2 natural example sentences
- Choose 4-5 relevant synonyms
- Set appropriate difficulty level
- Keep examples concise but contextual
- Make relatedContext connect back to the search topic

Return only the JSON object, no additional text.
`)
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
