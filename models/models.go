package models

import "time"

// PetType is the species of a pet profile
type PetType string

const (
	PetTypeDog PetType = "dog"
	PetTypeCat PetType = "cat"
)

// Valid reports whether the pet type is one of the supported species
func (t PetType) Valid() bool {
	return t == PetTypeDog || t == PetTypeCat
}

// Pet represents a pet profile created during onboarding.
// The analysis pipeline treats it as read-only input.
type Pet struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	PetType      PetType   `json:"pet_type"`
	BreedID      *int      `json:"breed_id,omitempty"`
	Gender       string    `json:"gender"`
	Age          float64   `json:"age"`
	Weight       float64   `json:"weight"`
	Allergies    []string  `json:"allergies"`
	HealthIssues []string  `json:"health_issues"`
	CreatedAt    time.Time `json:"created_at"`
}

// Breed is a reference breed entry used by onboarding
type Breed struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	PetType PetType `json:"pet_type"`
}

// AnalysisResult is the validated structured output of one food label analysis
type AnalysisResult struct {
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
	Score           int      `json:"score"`
}

// Analysis is a persisted, immutable record of a completed analysis
type Analysis struct {
	ID        string         `json:"id"`
	PetID     string         `json:"pet_id"`
	CreatedAt time.Time      `json:"created_at"`
	ImageData string         `json:"image_data"`
	Result    AnalysisResult `json:"result"`
}

// QuotaStatus reports the free-tier usage for a user
type QuotaStatus struct {
	FreeScansUsed  int  `json:"free_scans_used"`
	FreeScansLimit int  `json:"free_scans_limit"`
	Subscribed     bool `json:"subscribed"`
}

// CreatePetRequest is the payload accepted by the pet creation endpoint
type CreatePetRequest struct {
	Name         string   `json:"name" binding:"required"`
	PetType      PetType  `json:"pet_type" binding:"required"`
	BreedID      *int     `json:"breed_id"`
	Gender       string   `json:"gender" binding:"required"`
	Age          float64  `json:"age" binding:"min=0"`
	Weight       float64  `json:"weight" binding:"required,gt=0"`
	Allergies    []string `json:"allergies"`
	HealthIssues []string `json:"health_issues"`
}

// AnalysisCompletedEvent is published to RabbitMQ after a successful analysis
type AnalysisCompletedEvent struct {
	AnalysisID string         `json:"analysis_id"`
	PetID      string         `json:"pet_id"`
	UserID     string         `json:"user_id"`
	Result     AnalysisResult `json:"result"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ErrorResponse is the generic error payload returned by handlers
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the generic success payload returned by handlers
type MessageResponse struct {
	Message string `json:"message"`
}
