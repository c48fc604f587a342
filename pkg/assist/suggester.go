package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Suggestion is one AI-derived task candidate.
type Suggestion struct {
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	Effort          string `json:"effort"` // low, medium, high
}

// Suggester produces ad-hoc task suggestions from a free-form prompt.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) ([]Suggestion, error)
	Close() error
}

// geminiSuggester is a Suggester backed by the Google Gemini API.
type geminiSuggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiSuggester creates a Gemini-backed suggester.
func NewGeminiSuggester(ctx context.Context, apiKey, model string) (Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-pro"
	}
	return &geminiSuggester{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

const suggestionInstructions = `You break a request down into small concrete tasks.
Respond with ONLY a JSON array, no prose, where each element is
{"title": string, "duration_minutes": number, "effort": "low"|"medium"|"high"}.
Keep titles short and actionable. Request:

`

// Suggest sends the prompt to the model and parses the returned task
// tuples.
func (g *geminiSuggester) Suggest(ctx context.Context, prompt string) ([]Suggestion, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(suggestionInstructions+prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("generated content is not text")
	}

	return ParseSuggestions(string(text))
}

// Close closes the underlying Gemini client.
func (g *geminiSuggester) Close() error {
	return g.client.Close()
}

// ParseSuggestions decodes the model output, tolerating markdown code
// fences around the JSON array.
func ParseSuggestions(raw string) ([]Suggestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	var valid []Suggestion
	for _, s := range suggestions {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		if s.DurationMinutes <= 0 {
			s.DurationMinutes = 15
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no usable suggestions in response")
	}
	return valid, nil
}
