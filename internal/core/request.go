package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxQueryLength = 1000

	DefaultSearchProvider = "brave"
	DefaultModel          = "gemini-flash"
)

// SearchRequest is the inbound shape of one query submission.
// Model takes precedence over LLMModel when both are set.
type SearchRequest struct {
	Query          string            `json:"query"`
	ThreadID       string            `json:"threadId,omitempty"`
	UserID         string            `json:"userId,omitempty"`
	SearchProvider string            `json:"searchProvider,omitempty"`
	LLMModel       string            `json:"llmModel,omitempty"`
	Model          string            `json:"model,omitempty"`
	LLMOptions     *SearchReqLLMOpt  `json:"llmOptions,omitempty"`
	SearchFilters  map[string]string `json:"searchFilters,omitempty"`
}

type SearchReqLLMOpt struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

// Normalize applies defaults and the model-field precedence rule.
// It must be called after Validate.
func (r *SearchRequest) Normalize() {
	r.ThreadID = strings.TrimSpace(r.ThreadID)
	if strings.TrimSpace(r.SearchProvider) == "" {
		r.SearchProvider = DefaultSearchProvider
	}
	if strings.TrimSpace(r.Model) != "" {
		r.LLMModel = strings.TrimSpace(r.Model)
	}
	if strings.TrimSpace(r.LLMModel) == "" {
		r.LLMModel = DefaultModel
	}
}

// Validate checks field bounds. A missing userId is only an error when
// no threadId is supplied, because a new thread needs an owner.
func (r *SearchRequest) Validate() error {
	query := r.Query
	if len(query) == 0 {
		return fmt.Errorf("query is required")
	}
	if len([]rune(query)) > MaxQueryLength {
		return fmt.Errorf("query exceeds %d characters", MaxQueryLength)
	}
	if strings.TrimSpace(r.ThreadID) != "" {
		if _, err := uuid.Parse(r.ThreadID); err != nil {
			return fmt.Errorf("threadId is not a valid uuid")
		}
	} else if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("userId is required for creating new threads")
	}
	if r.LLMOptions != nil && r.LLMOptions.Temperature != nil {
		t := *r.LLMOptions.Temperature
		if t < 0 || t > 2 {
			return fmt.Errorf("temperature must be between 0 and 2")
		}
	}
	return nil
}

// Options resolves the request's LLM selection into capability options.
func (r *SearchRequest) Options() LLMOptions {
	opts := LLMOptions{Model: r.LLMModel}
	if r.LLMOptions != nil {
		opts.Temperature = r.LLMOptions.Temperature
	}
	return opts
}
