package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/verba-app/verba-backend/internal/core"
	"github.com/verba-app/verba-backend/internal/logger"
)

func TestResolveModelUnknownKey(t *testing.T) {
	_, err := ResolveModel("gpt-99")
	if err == nil {
		t.Fatalf("expected error for unknown model key")
	}
	if !strings.Contains(err.Error(), "gpt-99") {
		t.Fatalf("error should name the unknown key: %v", err)
	}
	if !strings.Contains(err.Error(), "gemini-flash") {
		t.Fatalf("error should name the valid set: %v", err)
	}
}

func TestResolveModelDefault(t *testing.T) {
	id, err := ResolveModel("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "gemini-1.5-flash" {
		t.Fatalf("expected default flash model, got %q", id)
	}
}

func TestStreamAnswerConcatenatesDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-1.5-flash") {
			t.Errorf("unexpected model path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Photosynthesis \"}]}}]}\n\n" +
				"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"converts light. [1]\"}]}}]}\n\n" +
				"data: [DONE]\n\n"))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)

	client, err := NewGeminiClient(logger.NewNop())
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}

	var deltas []string
	full, err := client.StreamAnswer(context.Background(), "what is photosynthesis?", nil, core.LLMOptions{}, func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatalf("StreamAnswer: %v", err)
	}
	if full != "Photosynthesis converts light. [1]" {
		t.Fatalf("unexpected full answer: %q", full)
	}
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(deltas))
	}
	if strings.Join(deltas, "") != full {
		t.Fatalf("deltas must concatenate to the full answer")
	}
}

func TestStreamAnswerMidStreamErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(
			"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"partial\"}]}}]}\n\n" +
				"data: {\"error\":{\"code\":500,\"message\":\"backend exploded\"}}\n\n" +
				"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"never delivered\"}]}}]}\n\n"))
	}))
	defer srv.Close()

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)

	client, err := NewGeminiClient(logger.NewNop())
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}

	var deltas []string
	_, err = client.StreamAnswer(context.Background(), "q", nil, core.LLMOptions{}, func(d string) {
		deltas = append(deltas, d)
	})
	if err == nil {
		t.Fatalf("expected mid-stream error")
	}
	if !strings.Contains(err.Error(), "backend exploded") {
		t.Fatalf("error should carry backend message: %v", err)
	}
	if len(deltas) != 1 || deltas[0] != "partial" {
		t.Fatalf("no fragment may be delivered after the error; got %v", deltas)
	}
}

func TestStreamAnswerUnknownModelFailsBeforeRequest(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", "http://127.0.0.1:0")

	client, err := NewGeminiClient(logger.NewNop())
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	called := false
	_, err = client.StreamAnswer(context.Background(), "q", nil, core.LLMOptions{Model: "nope"}, func(string) { called = true })
	if err == nil {
		t.Fatalf("expected unknown-model error")
	}
	if called {
		t.Fatalf("no fragment may be yielded for an unknown model")
	}
}

func TestBuildAnswerPromptNumbersSources(t *testing.T) {
	prompt := BuildAnswerPrompt("why is the sky blue?", []core.SearchResult{
		{URL: "https://a.example.com", Title: "Rayleigh scattering", Snippet: "blue light scatters"},
		{URL: "https://b.example.com", Title: "Atmospheric optics", Snippet: "more detail"},
	})
	if !strings.Contains(prompt, "[1] Rayleigh scattering") {
		t.Fatalf("prompt should number the first source")
	}
	if !strings.Contains(prompt, "[2] Atmospheric optics") {
		t.Fatalf("prompt should number the second source")
	}
	if !strings.Contains(prompt, "why is the sky blue?") {
		t.Fatalf("prompt should carry the question")
	}
	if !strings.Contains(prompt, "U+200C") {
		t.Fatalf("prompt should describe the vocabulary marker convention")
	}
}
