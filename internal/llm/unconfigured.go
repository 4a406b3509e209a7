package llm

import (
	"context"
	"errors"
)

// UnconfiguredProvider stands in when no API key is set. Every call
// fails with setup guidance, so the rest of the app keeps working.
type UnconfiguredProvider struct{}

// NewUnconfiguredProvider creates an UnconfiguredProvider.
func NewUnconfiguredProvider() *UnconfiguredProvider {
	return &UnconfiguredProvider{}
}

func (p *UnconfiguredProvider) Generate(_ context.Context, _ Request) (*Response, error) {
	return nil, &ErrProviderUnavailable{
		Err: errors.New("no API key configured; set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, or OPENROUTER_API_KEY"),
	}
}

func (p *UnconfiguredProvider) ModelID() string {
	return "unconfigured"
}
