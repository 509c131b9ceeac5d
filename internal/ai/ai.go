package ai

import (
	"context"
	"errors"
)

// LanguageDetector identifies the dominant language of a text sample.
type LanguageDetector interface {
	// DetectLanguage returns a lowercase ISO 639-1 code such as "es" or "en".
	DetectLanguage(ctx context.Context, sample string) (string, error)
}

// Embedder turns a text into a dense vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ErrNotConfigured is returned by the placeholder implementations.
var ErrNotConfigured = errors.New("AI provider not configured")

// PlaceholderDetector is a stub used when no provider is wired.
type PlaceholderDetector struct{}

// DetectLanguage returns ErrNotConfigured.
func (PlaceholderDetector) DetectLanguage(ctx context.Context, sample string) (string, error) {
	_ = ctx
	_ = sample
	return "", ErrNotConfigured
}

// PlaceholderEmbedder is a stub used when no provider is wired.
type PlaceholderEmbedder struct{}

// EmbedText returns ErrNotConfigured.
func (PlaceholderEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	_ = ctx
	_ = text
	return nil, ErrNotConfigured
}
