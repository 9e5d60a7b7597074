package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/transport/http/middleware"
	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

// ProfileHandler exposes the partial profile update endpoint.
type ProfileHandler struct {
	accounts *usecase.AccountService
	logger   *zap.Logger
}

// NewProfileHandler constructs the profile handler.
func NewProfileHandler(accounts *usecase.AccountService, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{accounts: accounts, logger: log}
}

// RegisterRoutes binds the profile endpoints onto an authenticated group.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/update-info", h.Update)
}

// Update applies a partial update to the authenticated account's profile.
// Absent fields stay untouched; a provided password is re-hashed.
func (h *ProfileHandler) Update(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated!"})
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid profile payload"})
		return
	}

	account, err := h.accounts.UpdateProfile(c.Request.Context(), principal.ID, usecase.ProfileUpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Password must be at least 8 characters."})
		case errors.Is(err, usecase.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Email is already registered"})
		case errors.Is(err, usecase.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, MessageResponse{Message: "User not found."})
		default:
			h.logger.Error("profile update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, ProfileUpdateResponse{
		Message: "Profile updated successfully!",
		User:    newAccountSummary(account),
	})
}
