package llm

import (
	"fmt"
	"sort"
	"strings"
)

// ModelInfo describes one selectable model variant.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// registry maps public model keys to Gemini model identifiers. The key
// is what clients send; the value is what goes on the wire.
var registry = map[string]string{
	"gemini-flash": "gemini-1.5-flash",
	"gemini-pro":   "gemini-1.5-pro",
}

var modelNames = map[string]string{
	"gemini-flash": "Gemini 1.5 Flash",
	"gemini-pro":   "Gemini 1.5 Pro",
}

// ResolveModel maps a model key to its backend identifier. An unknown
// key is an error naming the key and the valid set, raised before any
// generation starts.
func ResolveModel(key string) (string, error) {
	if key == "" {
		key = "gemini-flash"
	}
	id, ok := registry[key]
	if !ok {
		return "", fmt.Errorf("unknown model: %s. Available: %s", key, strings.Join(modelKeys(), ", "))
	}
	return id, nil
}

func modelKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AvailableModels lists the registry for the models endpoint.
func AvailableModels() []ModelInfo {
	models := make([]ModelInfo, 0, len(registry))
	for _, key := range modelKeys() {
		models = append(models, ModelInfo{ID: key, Name: modelNames[key], Provider: "Google"})
	}
	return models
}
