package content

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiGenerator uses the Gemini API with a JSON response schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a client for the Gemini API. An empty apiKey
// lets the SDK read GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, concept string) (Content, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userPrompt(concept)), geminiConfig())
	if err != nil {
		return Content{}, fmt.Errorf("gemini request failed: %w", err)
	}
	return decode(resp.Text())
}

func geminiConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"indiaCentricExample": {
					Type:        genai.TypeString,
					Description: "An India-centric example of the financial concept.",
				},
				"indiaCentricScenario": {
					Type:        genai.TypeString,
					Description: "An India-centric scenario of the financial concept.",
				},
			},
			Required: []string{"indiaCentricExample", "indiaCentricScenario"},
		},
	}
}
