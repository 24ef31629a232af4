package core

// SearchResult is one hit streamed out of a search backend. It is the
// unit both the event stream and the persisted result list are built
// from.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Favicon string `json:"favicon,omitempty"`
}

// Citation is a back-reference from a bracketed marker in the answer
// text to a search result. The referenced result's fields are copied so
// a stored citation survives reordering of the result list.
type Citation struct {
	SourceIndex int    `json:"sourceIndex"`
	Text        string `json:"text"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet,omitempty"`
}

// VocabularyWord is a word the model flagged for learning, located by
// its rune offset into the answer text together with a context window.
type VocabularyWord struct {
	Word     string `json:"word"`
	Position int    `json:"position"`
	Context  string `json:"context"`
}

// VocabularyContent is the structured learning content generated for a
// single word.
type VocabularyContent struct {
	Word           string   `json:"word"`
	Pronunciation  string   `json:"pronunciation"`
	PartOfSpeech   string   `json:"partOfSpeech"`
	Difficulty     string   `json:"difficulty"`
	Definition     string   `json:"definition"`
	Examples       []string `json:"examples"`
	Synonyms       []string `json:"synonyms"`
	RelatedContext string   `json:"relatedContext,omitempty"`
}

// SearchOptions narrows a backend query. Filter keys are
// backend-specific ("searchType", "sites").
type SearchOptions struct {
	Limit   int
	Filters map[string]string
}

// LLMOptions selects a model variant and tunes sampling.
type LLMOptions struct {
	Model       string
	Temperature *float64
}
