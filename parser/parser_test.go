package parser

import (
	"errors"
	"reflect"
	"testing"

	"pet-nutrition-service/models"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantErr   bool
		wantField string
		expected  *models.AnalysisResult
	}{
		{
			name:     "valid response",
			response: `{"concerns":["a"],"recommendations":["b"],"score":7}`,
			expected: &models.AnalysisResult{
				Concerns:        []string{"a"},
				Recommendations: []string{"b"},
				Score:           7,
			},
		},
		{
			name:     "valid response with empty lists",
			response: `{"concerns":[],"recommendations":[],"score":10}`,
			expected: &models.AnalysisResult{
				Concerns:        []string{},
				Recommendations: []string{},
				Score:           10,
			},
		},
		{
			name: "valid realistic response",
			response: `{
				"concerns": ["High sodium content", "Contains chicken, which Rex is allergic to"],
				"recommendations": ["Reduce portion size", "Look for a chicken-free formula"],
				"score": 4
			}`,
			expected: &models.AnalysisResult{
				Concerns:        []string{"High sodium content", "Contains chicken, which Rex is allergic to"},
				Recommendations: []string{"Reduce portion size", "Look for a chicken-free formula"},
				Score:           4,
			},
		},
		{
			name: "markdown fenced JSON",
			response: "Here is the analysis:\n\n```json\n" +
				`{"concerns":["Too much filler"],"recommendations":["Switch brands"],"score":3}` +
				"\n```\n",
			expected: &models.AnalysisResult{
				Concerns:        []string{"Too much filler"},
				Recommendations: []string{"Switch brands"},
				Score:           3,
			},
		},
		{
			name:      "concerns not a list",
			response:  `{"concerns":"a","recommendations":[],"score":7}`,
			wantErr:   true,
			wantField: "concerns",
		},
		{
			name:      "recommendations not a list",
			response:  `{"concerns":[],"recommendations":{"x":1},"score":7}`,
			wantErr:   true,
			wantField: "recommendations",
		},
		{
			name:      "score as string",
			response:  `{"concerns":[],"recommendations":[],"score":"7"}`,
			wantErr:   true,
			wantField: "score",
		},
		{
			name:      "score missing",
			response:  `{"concerns":["a"],"recommendations":["b"]}`,
			wantErr:   true,
			wantField: "score",
		},
		{
			name:      "score not integral",
			response:  `{"concerns":[],"recommendations":[],"score":6.5}`,
			wantErr:   true,
			wantField: "score",
		},
		{
			name:      "score out of range high",
			response:  `{"concerns":[],"recommendations":[],"score":11}`,
			wantErr:   true,
			wantField: "score",
		},
		{
			name:      "score out of range low",
			response:  `{"concerns":[],"recommendations":[],"score":0}`,
			wantErr:   true,
			wantField: "score",
		},
		{
			name:      "first nonconforming field reported",
			response:  `{"concerns":1,"recommendations":2,"score":"x"}`,
			wantErr:   true,
			wantField: "concerns",
		},
		{
			name:     "not JSON at all",
			response: `the label looks fine to me`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseAnalysis(tt.response)

			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseAnalysis() expected error but got none")
				}
				if tt.wantField != "" {
					var valErr *ValidationError
					if !errors.As(err, &valErr) {
						t.Fatalf("ParseAnalysis() error = %T, want *ValidationError", err)
					}
					if valErr.Field != tt.wantField {
						t.Errorf("ParseAnalysis() field = %q, want %q", valErr.Field, tt.wantField)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseAnalysis() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ParseAnalysis() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}
