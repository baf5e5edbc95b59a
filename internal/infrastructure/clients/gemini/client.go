package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	"github.com/civicpulse/backend/pkg/config"
)

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel           = "gemini-1.5-flash"
	defaultMaxOutputTokens = 700
	defaultTemperature     = 0.4
	providerName           = "gemini"
)

// Client writes the admin insights narrative with the Gemini generateContent API.
type Client struct {
	apiKey          string
	model           string
	baseURL         string
	maxOutputTokens int
	httpClient      *http.Client
}

// NewClient creates a new Gemini client.
func NewClient(cfg *config.GeminiConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	return &Client{
		apiKey:          cfg.APIKey,
		model:           model,
		baseURL:         baseURL,
		maxOutputTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: 25 * time.Second,
		},
	}, nil
}

// Name implements providers.NarrativeGenerator.
func (c *Client) Name() string {
	return providerName
}

// Summarize implements providers.NarrativeGenerator.
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

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, input providers.NarrativeInput) (string, error) {
	userPrompt, err := input.UserPrompt()
	if err != nil {
		return "", err
	}

	maxTokens := c.maxOutputTokens
	if input.MaxOutputTokens > 0 {
		maxTokens = input.MaxOutputTokens
	}
	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: userPrompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     defaultTemperature,
			MaxOutputTokens: maxTokens,
		},
	}
	if input.Instruction != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: input.Instruction}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.RecordNarrativeMetric(ctx, providerName, c.model, 0, time.Since(start), err)
		// The request URL carries the key; keep it out of logs.
		return "", errors.New("gemini request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
		observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	var parts []string
	if len(decoded.Candidates) > 0 {
		for _, p := range decoded.Candidates[0].Content.Parts {
			if t := strings.TrimSpace(p.Text); t != "" {
				parts = append(parts, t)
			}
		}
	}
	if len(parts) == 0 {
		err := errors.New("gemini response missing text")
		observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	observability.RecordNarrativeMetric(ctx, providerName, c.model, resp.StatusCode, time.Since(start), nil)
	return strings.Join(parts, "\n"), nil
}
