// Package llm talks to the two supported model providers and applies the
// quota fallback between them.
package llm

import (
	"context"
	"errors"

	"github.com/kevinmichaelchen/gepeto/internal/models"
	"github.com/rs/zerolog"
)

// Reply is the raw model text and where it came from.
type Reply struct {
	Text     string
	Provider Kind
	FellBack bool
}

// Client dispatches to the primary or secondary provider. When the primary
// is selected and answers 429, the secondary is called once for the same
// prompt. No other failure falls back and nothing is retried.
type Client struct {
	primary   Provider
	secondary Provider
	kind      Kind
	log       zerolog.Logger
}

func NewClient(kind Kind, primary, secondary Provider, log zerolog.Logger) *Client {
	return &Client{
		primary:   primary,
		secondary: secondary,
		kind:      kind,
		log:       log.With().Str("component", "llm").Logger(),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (*Reply, error) {
	if c.kind == KindOpenAI {
		text, err := c.secondary.Send(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return &Reply{Text: text, Provider: KindOpenAI}, nil
	}

	text, err := c.primary.Send(ctx, prompt)
	if err == nil {
		return &Reply{Text: text, Provider: KindGemini}, nil
	}

	var perr *models.ProviderError
	if !errors.As(err, &perr) || !perr.QuotaExhausted() {
		return nil, err
	}

	c.log.Warn().
		Str("from", c.primary.Name()).
		Str("to", c.secondary.Name()).
		Msg("primary quota exhausted, falling back")

	text, err = c.secondary.Send(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &Reply{Text: text, Provider: KindOpenAI, FellBack: true}, nil
}
