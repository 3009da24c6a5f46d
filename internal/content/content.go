// Package content asks an external model for India-centric explanations of
// financial concepts.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/paisa-buddy/internal/common"
)

var (
	ErrMissingConcept   = errors.New("Please enter a financial concept.")
	ErrGenerationFailed = errors.New("Failed to generate content. Please try again.")
)

const minConceptLen = 3

const systemPrompt = `You are an expert in creating India-centric financial content for young adults.
Given a financial concept, provide an India-centric example and an India-centric scenario that illustrates the concept.
Use Indian names, places, rupee amounts and products (UPI, SIPs, PPF, FDs) where they fit.
Respond with a JSON object with the string fields "indiaCentricExample" and "indiaCentricScenario".`

// Request is a validated concept.
type Request struct {
	concept string
}

// NewRequest trims the concept and requires at least three characters.
func NewRequest(concept string) (Request, error) {
	concept = strings.TrimSpace(concept)
	if len([]rune(concept)) < minConceptLen {
		return Request{}, ErrMissingConcept
	}
	return Request{concept: concept}, nil
}

func (r Request) Concept() string { return r.concept }

// Content is the generated explanation.
type Content struct {
	Example  string `json:"indiaCentricExample"`
	Scenario string `json:"indiaCentricScenario"`
}

// Generator is an external model backend.
type Generator interface {
	Generate(ctx context.Context, concept string) (Content, error)
}

// Service bounds generator calls with a timeout and hides backend errors.
type Service struct {
	gen     Generator
	timeout time.Duration
	logger  *common.Logger
}

func NewService(gen Generator, timeout time.Duration, logger *common.Logger) *Service {
	if gen == nil || logger == nil {
		panic("content: generator and logger are required")
	}
	return &Service{gen: gen, timeout: timeout, logger: logger}
}

// Generate returns ErrGenerationFailed for any backend failure or incomplete answer.
func (s *Service) Generate(ctx context.Context, req Request) (Content, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := s.gen.Generate(ctx, req.concept)
	if err == nil {
		c.Example = strings.TrimSpace(c.Example)
		c.Scenario = strings.TrimSpace(c.Scenario)
		if c.Example == "" || c.Scenario == "" {
			err = errors.New("model returned an empty example or scenario")
		}
	}
	if err != nil {
		s.logger.Error().
			Str("concept", req.concept).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("content generation failed")
		return Content{}, ErrGenerationFailed
	}

	s.logger.Info().Str("concept", req.concept).Dur("elapsed", time.Since(start)).Msg("content generated")
	return c, nil
}

func userPrompt(concept string) string {
	return fmt.Sprintf("Financial concept: %s", concept)
}

// decode reads a model's JSON answer, tolerating a fenced code block around it.
func decode(raw string) (Content, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var c Content
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &c); err != nil {
		return Content{}, fmt.Errorf("failed to decode model output: %w", err)
	}
	return c, nil
}
