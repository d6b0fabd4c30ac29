package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func completionResponse(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestAnalyzeImageSuccess(t *testing.T) {
	var captured ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse(`{"concerns":[],"recommendations":[],"score":8}`)))
	}))
	defer srv.Close()

	client := NewClientWithEndpoint("test-key", "gpt-4o", srv.URL)

	content, err := client.AnalyzeImage(context.Background(), "system text", "user text", "data:image/jpeg;base64,eA==")
	if err != nil {
		t.Fatalf("AnalyzeImage() unexpected error: %v", err)
	}
	if content != `{"concerns":[],"recommendations":[],"score":8}` {
		t.Errorf("AnalyzeImage() content = %q", content)
	}

	if captured.Model != "gpt-4o" {
		t.Errorf("request model = %q, want gpt-4o", captured.Model)
	}
	if captured.MaxTokens != 1000 {
		t.Errorf("request max_tokens = %d, want 1000", captured.MaxTokens)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("request response_format = %+v, want json_object", captured.ResponseFormat)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("request messages = %d, want 2", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Errorf("request roles = %q/%q, want system/user", captured.Messages[0].Role, captured.Messages[1].Role)
	}
}

func TestAnalyzeImageFailureReasons(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   FailureReason
	}{
		{"server error is transport", http.StatusInternalServerError, `{"error":"boom"}`, ReasonTransport},
		{"bad gateway is transport", http.StatusBadGateway, "", ReasonTransport},
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, ReasonRateLimited},
		{"bad request is rejected", http.StatusBadRequest, `{"error":"invalid"}`, ReasonRejected},
		{"unauthorized is rejected", http.StatusUnauthorized, "", ReasonRejected},
		{"unparseable success body is malformed", http.StatusOK, "not json at all", ReasonMalformed},
		{"empty choices is malformed", http.StatusOK, `{"choices":[]}`, ReasonMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClientWithEndpoint("k", "gpt-4o", srv.URL)

			_, err := client.AnalyzeImage(context.Background(), "s", "u", "data:image/jpeg;base64,eA==")
			if err == nil {
				t.Fatal("AnalyzeImage() expected error")
			}

			var infErr *InferenceError
			if !errors.As(err, &infErr) {
				t.Fatalf("AnalyzeImage() error = %T, want *InferenceError", err)
			}
			if infErr.Reason != tt.want {
				t.Errorf("AnalyzeImage() reason = %q, want %q", infErr.Reason, tt.want)
			}
		})
	}
}

func TestAnalyzeImageUnreachableEndpoint(t *testing.T) {
	client := NewClientWithEndpoint("k", "gpt-4o", "http://127.0.0.1:1")

	_, err := client.AnalyzeImage(context.Background(), "s", "u", "data:image/jpeg;base64,eA==")

	var infErr *InferenceError
	if !errors.As(err, &infErr) {
		t.Fatalf("AnalyzeImage() error = %T, want *InferenceError", err)
	}
	if infErr.Reason != ReasonTransport {
		t.Errorf("AnalyzeImage() reason = %q, want transport", infErr.Reason)
	}
}

func TestAnalyzeImageStructuredContent(t *testing.T) {
	// Some models return content as structured blocks rather than a plain string.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":{"concerns":["a"],"recommendations":["b"],"score":5}}}]}`))
	}))
	defer srv.Close()

	client := NewClientWithEndpoint("k", "gpt-4o", srv.URL)

	content, err := client.AnalyzeImage(context.Background(), "s", "u", "data:image/jpeg;base64,eA==")
	if err != nil {
		t.Fatalf("AnalyzeImage() unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		t.Errorf("AnalyzeImage() content is not JSON: %v", err)
	}
}
