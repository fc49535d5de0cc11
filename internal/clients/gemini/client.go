// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the TextGenerator interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateText generates text from a prompt
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating text")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// BuildPerformancePrompt renders a report into the prompt used for the
// optional dashboard summary.
func BuildPerformancePrompt(report *models.PerformanceReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Summarize the performance of the portfolio %q over the %s range in 3 short sentences for a retail investor. Plain language, no advice.\n\n",
		report.Portfolio, report.Range)
	fmt.Fprintf(&sb, "Total return: %.2f%%\n", report.TotalReturnPct)
	fmt.Fprintf(&sb, "Annualized return: %.2f%%\n", report.CAGRPct)
	fmt.Fprintf(&sb, "Max drawdown: %.2f%%\n", report.MaxDrawdownPct)

	if len(report.EndComposition) > 0 {
		total := 0.0
		for _, e := range report.EndComposition {
			total += e.Value
		}
		sb.WriteString("\nCurrent allocation:\n")
		for _, e := range report.EndComposition {
			if total > 0 {
				fmt.Fprintf(&sb, "- %s: %.0f KRW (%.1f%%)\n", e.Label, e.Value, e.Value/total*100)
			} else {
				fmt.Fprintf(&sb, "- %s: %.0f KRW\n", e.Label, e.Value)
			}
		}
	}

	return sb.String()
}

// Ensure Client implements TextGenerator
var _ interfaces.TextGenerator = (*Client)(nil)
