package handlers

import (
	"net/http"

	"pet-nutrition-service/models"

	"github.com/gin-gonic/gin"
)

// Quota returns the user's free scan usage and subscription state
func (h *Handlers) Quota(c *gin.Context) {
	userID, email, ok := identity(c)
	if !ok {
		return
	}

	status, err := h.service.Quota(c.Request.Context(), userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load quota"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// Subscription returns whether the user has an active subscription
func (h *Handlers) Subscription(c *gin.Context) {
	_, email, ok := identity(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": h.service.Subscribed(c.Request.Context(), email)})
}

// CreateCheckout mints a checkout session for the premium subscription
func (h *Handlers) CreateCheckout(c *gin.Context) {
	_, email, ok := identity(c)
	if !ok {
		return
	}
	if email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "account has no email address"})
		return
	}

	url, err := h.service.Checkout(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}
