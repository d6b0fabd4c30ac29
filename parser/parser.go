package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"pet-nutrition-service/models"
)

// Score bounds the model is instructed to stay within. Results outside the
// range are rejected rather than clamped.
const (
	MinScore = 1
	MaxScore = 10
)

// ValidationError names the first field of the payload that does not
// conform to the analysis schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid analysis payload: field %q %s", e.Field, e.Reason)
}

// rawResult mirrors the expected schema without committing to field types,
// so each field can be checked and reported individually.
type rawResult struct {
	Concerns        json.RawMessage `json:"concerns"`
	Recommendations json.RawMessage `json:"recommendations"`
	Score           json.RawMessage `json:"score"`
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(response string) string {
	startMarker := "```"
	endMarker := "```"

	startIdx := strings.Index(response, startMarker)
	if startIdx == -1 {
		// No code block found, try to find the JSON object directly
		startIdx = strings.Index(response, "{")
		if startIdx == -1 {
			return response
		}
		endIdx := strings.LastIndex(response, "}")
		if endIdx == -1 {
			return response
		}
		return strings.TrimSpace(response[startIdx : endIdx+1])
	}

	endIdx := strings.Index(response[startIdx+len(startMarker):], endMarker)
	if endIdx == -1 {
		return response
	}
	endIdx += startIdx + len(startMarker)

	content := response[startIdx+len(startMarker) : endIdx]

	// Remove the language identifier if present (e.g., "json")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 0 && (strings.TrimSpace(lines[0]) == "json" || strings.TrimSpace(lines[0]) == "") {
		content = strings.Join(lines[1:], "\n")
	}

	return strings.TrimSpace(content)
}

// ParseAnalysis parses the inference response text and validates it against
// the analysis schema. It returns a ValidationError naming the first field
// that does not conform.
func ParseAnalysis(response string) (*models.AnalysisResult, error) {
	cleaned := extractJSONFromMarkdown(strings.TrimSpace(response))

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	concerns, err := stringList("concerns", raw.Concerns)
	if err != nil {
		return nil, err
	}

	recommendations, err := stringList("recommendations", raw.Recommendations)
	if err != nil {
		return nil, err
	}

	score, err := boundedInt("score", raw.Score)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		Concerns:        concerns,
		Recommendations: recommendations,
		Score:           score,
	}, nil
}

func stringList(field string, raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Field: field, Reason: "is required"}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &ValidationError{Field: field, Reason: "must be a list of strings"}
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func boundedInt(field string, raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, &ValidationError{Field: field, Reason: "is required"}
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, &ValidationError{Field: field, Reason: "must be an integer"}
	}
	v := int(f)
	if float64(v) != f {
		return 0, &ValidationError{Field: field, Reason: "must be an integer"}
	}
	if v < MinScore || v > MaxScore {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("must be between %d and %d", MinScore, MaxScore)}
	}
	return v, nil
}
