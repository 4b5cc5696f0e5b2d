// Package langflow provides a query.Client backed by a Langflow HTTP
// endpoint. It adapts the endpoint's response into the normalized query
// contract: the flat `output.text` + `data.*` shape is the primary format,
// with a nested JSON-in-text extraction and a regex heuristic as fallbacks
// for flows that embed structure inside the reply.
package langflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/hrflow/query"
)

// Options configure the Langflow client. Endpoint and APIKey are required;
// SessionID and OrgID are opaque identifiers forwarded verbatim when set.
type Options struct {
	SessionID  string
	OrgID      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls a Langflow flow endpoint and parses its response.
type Client struct {
	endpoint   string
	apiKey     string
	sessionID  string
	orgID      string
	httpClient *http.Client
}

// New constructs a Client for the given endpoint and API key.
func New(endpoint, apiKey string, optFns ...func(o *Options)) (*Client, error) {
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("langflow endpoint and api key are required")
	}

	opts := Options{Timeout: 30 * time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		sessionID:  opts.SessionID,
		orgID:      opts.OrgID,
		httpClient: httpClient,
	}, nil
}

// payload is the request body expected by the flow endpoint.
type payload struct {
	Input     string            `json:"input"`
	SessionID string            `json:"session_id,omitempty"`
	Tweaks    map[string]string `json:"tweaks,omitempty"`
}

// Query implements query.Client.
func (c *Client) Query(ctx context.Context, message string, employeeID string) (*query.Result, error) {
	p := payload{Input: message, SessionID: c.sessionID}
	if employeeID != "" {
		p.Tweaks = map[string]string{"employee_id": employeeID}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.orgID != "" {
		req.Header.Set("X-Org-ID", c.orgID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call langflow endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("langflow endpoint returned status %d", resp.StatusCode)
	}

	return ParseResponse(raw), nil
}

// ParseResponse maps a raw endpoint response onto the normalized Result.
// Parsing strategy, in order:
//  1. flat contract: reply at `output.text`, structured fields at `data.*`
//  2. nested contract: a JSON object embedded inside the reply text
//  3. regex heuristics over the reply text ("N days", leave-type keywords,
//     YYYY-MM-DD date pairs)
//
// Later strategies only fill fields the earlier ones left absent.
func ParseResponse(raw []byte) *query.Result {
	doc := gjson.ParseBytes(raw)

	result := &query.Result{Response: doc.Get("output.text").String()}
	if result.Response == "" {
		result.Response = doc.Get("result").String()
	}

	if data := doc.Get("data"); data.Exists() {
		result.Leave = query.LeaveFromJSON(data)
		result.Actionable = doc.Get("actionable").Bool() || result.Leave != nil
	}

	if result.Leave == nil {
		if embedded := extractEmbeddedJSON(result.Response); embedded.Exists() {
			result.Leave = query.LeaveFromJSON(embedded)
			result.Actionable = result.Actionable || result.Leave != nil
		}
	}

	if result.Leave == nil {
		result.Leave = extractLeaveInfo(result.Response)
		result.Actionable = result.Actionable || result.Leave != nil
	}

	return result
}

// extractEmbeddedJSON returns the first JSON object embedded in free text,
// or an empty result when none parses.
func extractEmbeddedJSON(text string) gjson.Result {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return gjson.Result{}
	}
	candidate := text[start : end+1]
	if !gjson.Valid(candidate) {
		return gjson.Result{}
	}
	return gjson.Parse(candidate)
}

var (
	daysPattern = regexp.MustCompile(`(?i)(\d+)\s*days?`)
	datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	leaveTypes = []string{"vacation", "sick", "personal"}
)

// extractLeaveInfo applies the regex heuristics to free text. Returns nil
// when nothing was recognized.
func extractLeaveInfo(text string) *query.LeaveDetails {
	leave := &query.LeaveDetails{}
	found := false

	if m := daysPattern.FindStringSubmatch(text); m != nil {
		var days int
		if _, err := fmt.Sscanf(m[1], "%d", &days); err == nil {
			leave.DaysRequested = &days
			found = true
		}
	}

	lower := strings.ToLower(text)
	for _, lt := range leaveTypes {
		if strings.Contains(lower, lt) {
			leave.LeaveType = lt
			found = true
			break
		}
	}

	if dates := datePattern.FindAllString(text, 2); len(dates) >= 2 {
		leave.StartDate = dates[0]
		leave.EndDate = dates[1]
		found = true
	}

	if !found {
		return nil
	}
	return leave
}
