package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/sashabaranov/go-openai"
)

// Client talks to a local Ollama instance through its OpenAI-compatible
// endpoint. Short prompts get a 30s budget, long-form reports 60s; a call
// that misses its budget surfaces as an error and the caller degrades to
// the fallback writer.
type Client struct {
	api   *openai.Client
	model string
}

var _ Narrator = (*Client)(nil)

const (
	shortTimeout = 30 * time.Second
	longTimeout  = 60 * time.Second
)

// NewClient builds a narrator client. baseURL is the OpenAI-compatible
// root, e.g. "http://localhost:11434/v1" for a local Ollama.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Available probes the model endpoint.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_, err := c.api.ListModels(ctx)
	return err == nil
}

// Models lists the models the local runtime has pulled.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	resp, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// Insight generates the 2-3 sentence interpretation of a score report.
func (c *Client) Insight(ctx context.Context, a Analysis) (string, error) {
	return c.complete(ctx, shortTimeout, insightPrompt(a), 300, 0.7)
}

// Recommendations asks the model for a prioritized action list and parses
// the JSON array out of its reply.
func (c *Client) Recommendations(ctx context.Context, a Analysis) ([]string, error) {
	raw, err := c.complete(ctx, shortTimeout, recommendationsPrompt(a), 400, 0.7)
	if err != nil {
		return nil, err
	}
	recs := parseJSONList(raw, "recommendations")
	if len(recs) == 0 {
		return nil, fmt.Errorf("no parseable recommendations in model reply")
	}
	return recs, nil
}

// DetailedReport generates the long-form professional report.
func (c *Client) DetailedReport(ctx context.Context, a Analysis) (string, error) {
	return c.complete(ctx, longTimeout, detailedReportPrompt(a), 2000, 0.6)
}

// TerroirAudit generates the scientific audit against the best reference.
func (c *Client) TerroirAudit(ctx context.Context, a TerroirAnalysis) (string, error) {
	return c.complete(ctx, longTimeout, terroirAuditPrompt(a), 1000, 0.5)
}

func (c *Client) complete(ctx context.Context, timeout time.Duration, prompt string, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		log.WithError(err).Warn("narrator call failed")
		return "", fmt.Errorf("narrator: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("narrator: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// parseJSONList extracts the first JSON object from a model reply and
// returns the string list under key. Model chatter around the object is
// tolerated.
func parseJSONList(reply, key string) []string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return nil
	}
	var doc map[string][]string
	if err := json.Unmarshal([]byte(reply[start:end+1]), &doc); err != nil {
		return nil
	}
	return doc[key]
}
