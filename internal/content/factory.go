package content

import (
	"context"
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/config"
)

// NewGenerator builds the backend named by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIGenerator(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
