package handlers

import (
	"errors"
	"net/http"

	"pet-nutrition-service/database"
	"pet-nutrition-service/models"
	"pet-nutrition-service/service"

	"github.com/gin-gonic/gin"
)

// AnalyzeResponse is returned for a completed analysis
type AnalyzeResponse struct {
	Result  *models.AnalysisResult `json:"result"`
	Record  *models.Analysis       `json:"record,omitempty"`
	Warning string                 `json:"warning,omitempty"`
}

// QuotaExceededResponse is returned when the free tier is exhausted
type QuotaExceededResponse struct {
	Error       string `json:"error"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// Analyze runs a food label analysis for one of the user's pets.
// Expects multipart form data with a pet_id field and an image file.
func (h *Handlers) Analyze(c *gin.Context) {
	userID, email, ok := identity(c)
	if !ok {
		return
	}

	petID := c.PostForm("pet_id")
	if petID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "pet_id is required"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "image file is required"})
		return
	}
	defer file.Close()

	outcome, err := h.service.Analyze(c.Request.Context(), userID, email, petID, file, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrAnalysisInFlight) {
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: "an analysis for this pet is already running"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to run analysis"})
		return
	}

	switch outcome.State {
	case service.StateDone:
		resp := AnalyzeResponse{Result: outcome.Result, Record: outcome.Record}
		if outcome.SaveWarning {
			resp.Warning = "analysis completed but could not be saved to history"
		}
		c.JSON(http.StatusOK, resp)

	case service.StateQuotaExceeded:
		c.JSON(http.StatusPaymentRequired, QuotaExceededResponse{
			Error:       "free scan quota exhausted",
			CheckoutURL: outcome.CheckoutURL,
		})

	default:
		h.analyzeError(c, outcome)
	}
}

func (h *Handlers) analyzeError(c *gin.Context, outcome *service.Outcome) {
	if errors.Is(outcome.Err, database.ErrPetNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "pet not found"})
		return
	}

	switch outcome.FailedState {
	case service.StateEncoding:
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Error: "could not read image data"})
	case service.StateRequesting, service.StateValidating:
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "analysis backend failed"})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to run analysis"})
	}
}

// History returns the analysis history for one of the user's pets, newest first
func (h *Handlers) History(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		return
	}

	petID := c.Param("id")
	analyses, err := h.service.History(c.Request.Context(), userID, petID)
	if err != nil {
		if errors.Is(err, database.ErrPetNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "pet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}
