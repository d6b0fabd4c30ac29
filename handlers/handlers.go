package handlers

import (
	"context"
	"io"
	"net/http"

	"pet-nutrition-service/models"
	"pet-nutrition-service/service"

	"github.com/gin-gonic/gin"
)

// AnalysisService is the part of the service layer the HTTP surface uses
type AnalysisService interface {
	Analyze(ctx context.Context, userID, email, petID string, image io.Reader, mediaType string) (*service.Outcome, error)
	History(ctx context.Context, userID, petID string) ([]models.Analysis, error)
	Quota(ctx context.Context, userID, email string) (*models.QuotaStatus, error)
	Subscribed(ctx context.Context, email string) bool
	Checkout(ctx context.Context, email string) (string, error)
}

// PetStore is the part of the database layer the HTTP surface uses
type PetStore interface {
	CreatePet(ctx context.Context, userID string, req models.CreatePetRequest) (*models.Pet, error)
	ListPets(ctx context.Context, userID string) ([]models.Pet, error)
	ListBreeds(petType models.PetType) ([]models.Breed, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	service AnalysisService
	store   PetStore
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc AnalysisService, store PetStore) *Handlers {
	return &Handlers{
		service: svc,
		store:   store,
	}
}

// HealthCheck returns service health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pet-nutrition-service",
	})
}

// identity pulls the authenticated user out of the gin context
func identity(c *gin.Context) (userID, email string, ok bool) {
	userID = c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
		return "", "", false
	}
	return userID, c.GetString("email"), true
}
