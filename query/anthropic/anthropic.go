// Package anthropic provides a query.Client backed by the Anthropic Messages
// API, answering the same structured-JSON contract as the other providers.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/hrflow/query"
)

const systemPrompt = `You are an HR assistant handling leave requests and leave balance inquiries.
Answer every query with a single JSON object of the shape:
{"response": "<natural language reply>", "actionable": <true when the user asks to take leave>, "data": {"employee_id": "...", "employee_name": "...", "leave_type": "vacation|sick|personal", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD", "days_requested": N, "leave_balance": N}}
Omit any data field you cannot determine. Omit "data" entirely for informational queries.`

// Options configure the Anthropic query adapter (model id, temperature, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Client wraps the Anthropic Messages API behind the query.Client interface.
type Client struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Anthropic query client using the official SDK client.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// NewFromClient creates a new Anthropic query client from an existing SDK client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Query implements query.Client.
func (c *Client) Query(ctx context.Context, message string, employeeID string) (*query.Result, error) {
	userText := message
	if employeeID != "" {
		userText = fmt.Sprintf("Employee ID: %s\n%s", employeeID, message)
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userText)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("empty response")
	}

	return query.ResultFromJSON(sb.String()), nil
}
