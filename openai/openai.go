package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// maxOutputTokens is the fixed upper bound on completion size for every
// analysis request. It is not configurable per call.
const maxOutputTokens = 1000

// FailureReason classifies why an inference call failed
type FailureReason string

const (
	ReasonTransport   FailureReason = "transport"
	ReasonRejected    FailureReason = "rejected"
	ReasonRateLimited FailureReason = "rate_limited"
	ReasonMalformed   FailureReason = "malformed"
)

// InferenceError is returned when the remote call does not yield a usable
// completion. Detail carries the remote error payload for diagnostics and
// is never parsed further.
type InferenceError struct {
	Reason FailureReason
	Detail string
	Cause  error
}

func (e *InferenceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("inference failed (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("inference failed (%s): %v", e.Reason, e.Cause)
}

func (e *InferenceError) Unwrap() error {
	return e.Cause
}

type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ImageContent struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client represents an OpenAI API client
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a new OpenAI client
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClientWithEndpoint creates a client against a custom endpoint (tests)
func NewClientWithEndpoint(apiKey, model, endpoint string) *Client {
	c := NewClient(apiKey, model)
	c.endpoint = endpoint
	return c
}

// SourceName identifies this provider in logs and events
func (c *Client) SourceName() string {
	return "ChatGPT"
}

// AnalyzeImage sends one vision request and returns the completion's text
// content. The caller is responsible for validating the returned JSON.
func (c *Client) AnalyzeImage(ctx context.Context, systemInstruction, userInstruction, imageDataURI string) (string, error) {
	reqBody := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: systemInstruction,
			},
			{
				Role: "user",
				Content: []any{
					TextContent{Type: "text", Text: userInstruction},
					ImageContent{Type: "image_url", ImageURL: ImageURL{URL: imageDataURI}},
				},
			},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
		MaxTokens:      maxOutputTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &InferenceError{Reason: ReasonTransport, Cause: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &InferenceError{Reason: ReasonTransport, Cause: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &InferenceError{Reason: ReasonTransport, Cause: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &InferenceError{Reason: ReasonTransport, Cause: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &InferenceError{
			Reason: reasonForStatus(resp.StatusCode),
			Detail: fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &InferenceError{Reason: ReasonMalformed, Cause: fmt.Errorf("failed to parse response: %w", err)}
	}

	if len(chatResp.Choices) == 0 {
		return "", &InferenceError{Reason: ReasonMalformed, Detail: "no choices in response"}
	}

	// Extract the text content from the single completion
	content := chatResp.Choices[0].Message.Content
	if contentStr, ok := content.(string); ok {
		return contentStr, nil
	}

	// If content is not a string, try to marshal it back to JSON
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return "", &InferenceError{Reason: ReasonMalformed, Cause: fmt.Errorf("failed to marshal content: %w", err)}
	}

	return string(contentJSON), nil
}

// reasonForStatus maps a non-success HTTP status to a failure reason
func reasonForStatus(status int) FailureReason {
	switch {
	case status == http.StatusTooManyRequests:
		return ReasonRateLimited
	case status >= 500:
		return ReasonTransport
	default:
		return ReasonRejected
	}
}
