package llm

import "context"

// Client abstracts the vision-capable inference provider used by the analyzer.
// Implementations must be concurrency-safe if used across goroutines.
type Client interface {
	// AnalyzeImage sends the system and user instructions together with an
	// encoded image (data URI) and returns the single completion's text
	// content, expected to be a JSON object per the analyzer schema.
	AnalyzeImage(ctx context.Context, systemInstruction, userInstruction, imageDataURI string) (string, error)
	// SourceName returns a short provider label for logs and events (e.g., "ChatGPT").
	SourceName() string
}
