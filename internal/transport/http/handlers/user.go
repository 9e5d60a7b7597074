package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/transport/http/middleware"
	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

// UserHandler exposes the authenticated user endpoints and the email
// verification flow.
type UserHandler struct {
	verification    *usecase.VerificationService
	dispatcher      NotificationDispatcher
	verificationTTL time.Duration
	logger          *zap.Logger
}

// NewUserHandler constructs the user handler.
func NewUserHandler(verification *usecase.VerificationService, dispatcher NotificationDispatcher, verificationTTL time.Duration, log *zap.Logger) *UserHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{
		verification:    verification,
		dispatcher:      dispatcher,
		verificationTTL: verificationTTL,
		logger:          log,
	}
}

// GetUser returns the authenticated account's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, StatusMessageResponse{Success: false, Message: "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, UserDataResponse{
		Success: true,
		Data:    UserData{User: newAccountSummary(*principal)},
		Message: "User retrieved successfully!",
	})
}

// Authenticate is a session probe: reaching it at all means the session
// gate already accepted the token.
func (h *UserHandler) Authenticate(c *gin.Context) {
	c.JSON(http.StatusOK, AuthorizationStatusResponse{AuthorizationStatus: "Authorized"})
}

// ResendVerification re-mints the verification token for the authenticated
// account and redispatches the mail. The overwrite invalidates any earlier
// unexpired token.
func (h *UserHandler) ResendVerification(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, StatusMessageResponse{Success: false, Message: "Unauthorized"})
		return
	}

	token, err := h.verification.Resend(c.Request.Context(), *principal)
	if err != nil {
		h.logger.Error("verification resend failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Failed to send verification email"})
		return
	}

	dispatchAsync(h.dispatcher, VerificationNotification{
		FirstName: principal.FirstName,
		LastName:  principal.LastName,
		Email:     principal.Email,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.verificationTTL),
	})

	c.JSON(http.StatusOK, MessageResponse{Message: "Verification email sent"})
}

// VerifyEmail confirms the verification token presented in the path. Every
// failure mode returns the same 400 payload.
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	tokenString := c.Param("token")

	_, err := h.verification.Confirm(c.Request.Context(), tokenString)
	if err != nil {
		// Invalid token and infrastructure failure look the same to the
		// caller; only the log tells them apart.
		if !errors.Is(err, usecase.ErrInvalidVerificationToken) {
			h.logger.Error("email verification failed", zap.Error(err))
		}
		c.JSON(http.StatusBadRequest, VerificationStatusResponse{VerificationStatus: "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, VerificationStatusResponse{VerificationStatus: "Verified"})
}
