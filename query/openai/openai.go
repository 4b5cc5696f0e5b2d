// Package openai provides a query.Client backed by the OpenAI Chat
// Completions API. The model is instructed to answer HR leave queries with
// the canonical structured JSON shape, which is then mapped onto the
// normalized query.Result.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/hrflow/query"
)

const systemPrompt = `You are an HR assistant handling leave requests and leave balance inquiries.
Answer every query with a single JSON object of the shape:
{"response": "<natural language reply>", "actionable": <true when the user asks to take leave>, "data": {"employee_id": "...", "employee_name": "...", "leave_type": "vacation|sick|personal", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD", "days_requested": N, "leave_balance": N}}
Omit any data field you cannot determine. Omit "data" entirely for informational queries.`

// Options configure the OpenAI query adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Client wraps the OpenAI Chat Completions API behind the query.Client interface.
type Client struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI query client using the official SDK client.
func New(optFns ...func(o *Options)) *Client {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI query client from an existing SDK client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 1024,
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

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userText),
		},
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	return query.ResultFromJSON(resp.Choices[0].Message.Content), nil
}
