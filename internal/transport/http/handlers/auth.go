package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

// CookieSettings describes how the session cookie is issued.
type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler exposes registration, login, and logout endpoints.
type AuthHandler struct {
	auth            *usecase.AuthService
	registration    *usecase.RegistrationService
	dispatcher      NotificationDispatcher
	cookie          CookieSettings
	verificationTTL time.Duration
	logger          *zap.Logger
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService, dispatcher NotificationDispatcher, cookie CookieSettings, verificationTTL time.Duration, log *zap.Logger) *AuthHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		auth:            auth,
		registration:    registration,
		dispatcher:      dispatcher,
		cookie:          cookie,
		verificationTTL: verificationTTL,
		logger:          log,
	}
}

// RegisterRoutes binds the unauthenticated auth endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, registerMW, loginMW []gin.HandlerFunc) {
	r.POST("/register", append(append([]gin.HandlerFunc{}, registerMW...), h.Register)...)
	r.POST("/login", append(append([]gin.HandlerFunc{}, loginMW...), h.Login)...)
	r.POST("/logout", h.Logout)
}

// Register creates a new unverified account and kicks off verification mail
// delivery.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validationFailure(map[string]FieldError{
			"body": {Msg: "Invalid request payload"},
		}))
		return
	}

	if errs := validateRegistration(req); errs != nil {
		c.JSON(http.StatusBadRequest, validationFailure(errs))
		return
	}

	account, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, validationFailure(map[string]FieldError{
				"email": {Msg: "Email is already registered"},
			}))
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Registration failed"})
		return
	}

	if account.VerificationToken != nil {
		dispatchAsync(h.dispatcher, VerificationNotification{
			FirstName: account.FirstName,
			LastName:  account.LastName,
			Email:     account.Email,
			Token:     *account.VerificationToken,
			ExpiresAt: time.Now().UTC().Add(h.verificationTTL),
		})
	}

	c.String(http.StatusOK, "User registered successfully!")
}

// Login verifies credentials, issues the session cookie, and echoes the
// token in the body for clients that cannot use cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, loginFailure())
		return
	}

	if errs := validateLogin(req); errs != nil {
		c.JSON(http.StatusBadRequest, loginFailure())
		return
	}

	token, account, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, loginFailure())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Login failed"})
		return
	}

	h.setSessionCookie(c, token, h.auth.SessionTTL())

	c.JSON(http.StatusOK, LoginResponse{
		Message: "User logged in successfully!",
		Token:   token,
		User:    newAccountSummary(account),
	})
}

// Logout replaces the session cookie with an immediately expired one. The
// issued token itself stays valid until its expiry; there is no server-side
// revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, StatusMessageResponse{
		Success: true,
		Message: "User logged out successfully!",
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(ttl.Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}
