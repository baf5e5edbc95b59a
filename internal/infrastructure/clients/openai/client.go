package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	"github.com/civicpulse/backend/pkg/config"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	providerName   = "openai"
)

// Client phrases public assistant answers with the OpenAI Responses API.
type Client struct {
	apiKey          string
	model           string
	baseURL         string
	maxOutputTokens int
	httpClient      *http.Client
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:          cfg.APIKey,
		model:           model,
		baseURL:         baseURL,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// Name implements providers.NarrativeGenerator.
func (c *Client) Name() string {
	return providerName
}

// Summarize implements providers.NarrativeGenerator. Failures are logged and
// reported as unavailable.
func (c *Client) Summarize(ctx context.Context, input providers.NarrativeInput) (string, bool) {
	text, err := c.generate(ctx, input)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("provider", providerName).
			Str("model", c.model).
			Msg("narrative generation failed")
		return "", false
	}
	return text, true
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

func (c *Client) generate(ctx context.Context, input providers.NarrativeInput) (string, error) {
	userPrompt, err := input.UserPrompt()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(buildRequest(c.model, input.Instruction, userPrompt, c.outputTokens(input)))
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordNarrativeMetric(ctx, providerName, c.model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("openai request failed with status %d", resp.StatusCode)
		observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", fmt.Errorf("failed to decode openai response: %w", err)
	}

	text := outputText(envelope)
	if text == "" {
		err := errors.New("openai response missing output text")
		observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

func (c *Client) outputTokens(input providers.NarrativeInput) int {
	if input.MaxOutputTokens > 0 {
		return input.MaxOutputTokens
	}
	if c.maxOutputTokens > 0 {
		return c.maxOutputTokens
	}
	return defaultMaxOutputTokens
}

// outputText joins every output_text fragment of the response.
func outputText(envelope responseEnvelope) string {
	var parts []string
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && strings.TrimSpace(content.Text) != "" {
				parts = append(parts, strings.TrimSpace(content.Text))
			}
		}
	}
	return strings.Join(parts, "\n")
}
