package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultPerplexityBaseURL is the production Perplexity API endpoint.
const DefaultPerplexityBaseURL = "https://api.perplexity.ai"

// perplexityModel is the online-search model used for company research.
const perplexityModel = "sonar"

// FocusCompanyOverview asks for industry, marketing-mix, and competitive
// analysis of a company.
const FocusCompanyOverview = "company_overview"

// focusPrompts maps a focus name to the research brief appended to the
// query. Unknown focuses fall back to the company overview.
var focusPrompts = map[string]string{
	FocusCompanyOverview: "provide:\n\n" +
		"1. Industry Information: industry sector, market size, growth trends, key drivers\n" +
		"2. Marketing Mix: core offerings and positioning, pricing strategy, distribution channels, brand positioning\n" +
		"3. Competitive Analysis: main competitors, market share, competitive advantages\n\n" +
		"Focus on recent data and include specific metrics where available.",
}

// PerplexityError represents a failed research call.
type PerplexityError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *PerplexityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("perplexity search failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("perplexity search failed: %s", e.Message)
}

func (e *PerplexityError) Unwrap() error {
	return e.Cause
}

// Searcher runs web research queries. Implemented by PerplexityClient;
// stubbed in tests.
type Searcher interface {
	Search(ctx context.Context, query, focus string) (string, error)
}

// PerplexityClient calls the Perplexity chat-completions API, which speaks
// the OpenAI wire format.
type PerplexityClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewPerplexityClient builds a client with the given API key.
func NewPerplexityClient(apiKey string) *PerplexityClient {
	return &PerplexityClient{
		apiKey:  apiKey,
		baseURL: DefaultPerplexityBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Search researches query with the given focus and returns the model's text
// verbatim.
func (c *PerplexityClient) Search(ctx context.Context, query, focus string) (string, error) {
	brief, ok := focusPrompts[focus]
	if !ok {
		brief = focusPrompts[FocusCompanyOverview]
	}

	payload := chatRequest{
		Model: perplexityModel,
		Messages: []chatMessage{
			{
				Role: "system",
				Content: "Be precise and concise. Return a short, factual summary and a bulleted " +
					"list of the most relevant facts or news about the company. " +
					"If possible, include a link to the company's official website.",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Research the company %s and %s", query, brief),
			},
		},
		MaxTokens:   3000,
		Temperature: 0.2,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &PerplexityError{Message: "encoding request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &PerplexityError{Message: "creating request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &PerplexityError{Message: "sending request", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &PerplexityError{Message: "reading response", StatusCode: resp.StatusCode, Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &PerplexityError{
			Message:    fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
			StatusCode: resp.StatusCode,
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &PerplexityError{Message: "decoding response", Cause: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &PerplexityError{Message: "empty response"}
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
