package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kevinmichaelchen/gepeto/internal/models"
)

// GeminiProvider calls the generateContent REST endpoint with the API key
// as a query parameter.
type GeminiProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewGeminiProvider(endpoint, apiKey string) *GeminiProvider {
	return &GeminiProvider{endpoint: endpoint, apiKey: apiKey, httpClient: http.DefaultClient}
}

func (g *GeminiProvider) Name() string { return KindGemini.String() }

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiProvider) Send(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", g.fail(0, fmt.Errorf("marshaling request: %w", err))
	}

	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", g.fail(0, fmt.Errorf("parsing endpoint: %w", err))
	}
	q := u.Query()
	q.Set("key", g.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(reqBody))
	if err != nil {
		return "", g.fail(0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// Keep the key out of the message.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = g.endpoint
		}
		return "", g.fail(0, fmt.Errorf("executing request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.fail(resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", g.fail(resp.StatusCode, errors.New(string(respBody)))
	}

	var gr geminiResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return "", g.fail(resp.StatusCode, fmt.Errorf("parsing response: %w", err))
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", g.fail(resp.StatusCode, errors.New("no candidates in response"))
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiProvider) fail(status int, err error) error {
	return &models.ProviderError{Provider: g.Name(), StatusCode: status, Err: err}
}
