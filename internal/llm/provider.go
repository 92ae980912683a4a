package llm

import (
	"context"
	"strings"

	"github.com/kevinmichaelchen/gepeto/internal/models"
)

// Provider sends one assembled prompt and returns the model's raw text.
// HTTP failures are reported as *models.ProviderError.
type Provider interface {
	Name() string
	Send(ctx context.Context, prompt string) (string, error)
}

// Kind selects which provider a Client calls first.
type Kind int

const (
	KindGemini Kind = iota + 1
	KindOpenAI
)

func (k Kind) String() string {
	switch k {
	case KindGemini:
		return "gemini"
	case KindOpenAI:
		return "openai"
	default:
		return "unknown"
	}
}

// ParseKind accepts gemini/primary and openai/secondary, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini", "primary":
		return KindGemini, nil
	case "openai", "secondary":
		return KindOpenAI, nil
	}
	return 0, &models.ConfigError{Field: "provider", Value: s}
}
