package core

import "time"

// EventType enumerates the typed events a single query submission
// streams to the client, in the order they may appear.
type EventType string

const (
	EventThreadCreated EventType = "thread_created"
	EventSearchResult  EventType = "search_result"
	EventLLMChunk      EventType = "llm_chunk"
	EventVocabulary    EventType = "vocabulary"
	EventCitations     EventType = "citations"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
)

// Event is one frame of the search stream.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

type ThreadCreatedData struct {
	ThreadID  string    `json:"threadId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type CompleteData struct {
	ThreadItemID string `json:"threadItemId"`
	ThreadID     string `json:"threadId"`
	IsComplete   bool   `json:"isComplete"`
}

type ErrorData struct {
	Message string `json:"message"`
}

func ThreadCreatedEvent(data ThreadCreatedData) Event {
	return Event{Type: EventThreadCreated, Data: data}
}

func SearchResultEvent(result SearchResult) Event {
	return Event{Type: EventSearchResult, Data: result}
}

func LLMChunkEvent(chunk string) Event {
	return Event{Type: EventLLMChunk, Data: chunk}
}

func VocabularyEvent(words []VocabularyWord) Event {
	return Event{Type: EventVocabulary, Data: words}
}

func CitationsEvent(citations []Citation) Event {
	return Event{Type: EventCitations, Data: citations}
}

func CompleteEvent(data CompleteData) Event {
	return Event{Type: EventComplete, Data: data}
}

func ErrorEvent(message string) Event {
	return Event{Type: EventError, Data: ErrorData{Message: message}}
}
