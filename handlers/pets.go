package handlers

import (
	"net/http"

	"pet-nutrition-service/models"

	"github.com/gin-gonic/gin"
)

// CreatePet creates a pet profile for the authenticated user
func (h *Handlers) CreatePet(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}

	var req models.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if !req.PetType.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "pet_type must be dog or cat"})
		return
	}

	pet, err := h.store.CreatePet(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create pet"})
		return
	}

	c.JSON(http.StatusCreated, pet)
}

// ListPets returns all pet profiles for the authenticated user
func (h *Handlers) ListPets(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}

	pets, err := h.store.ListPets(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list pets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pets": pets})
}

// ListBreeds returns the breed reference list, optionally filtered by pet_type
func (h *Handlers) ListBreeds(c *gin.Context) {
	petType := models.PetType(c.Query("pet_type"))
	if petType != "" && !petType.Valid() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "pet_type must be dog or cat"})
		return
	}

	breeds, err := h.store.ListBreeds(petType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list breeds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"breeds": breeds})
}
