package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jooshwells/nanta-mobile/internal/core/domain"
	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

// PrincipalKey is the gin context key the resolved account is stored under.
const PrincipalKey = "principal"

// unauthorizedBody is the single payload every session validation failure
// returns. Missing cookie, garbage token, expired token, wrong token type,
// and a deleted account are all indistinguishable to the caller.
type unauthorizedBody struct {
	AuthorizationStatus string `json:"authorization_status"`
}

// SessionAuth validates the session token and binds the authenticated
// account to the request context. The token is read from the session cookie
// first, then from a Bearer Authorization header; when both are present the
// cookie wins.
func SessionAuth(auth *usecase.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractSessionToken(c, cookieName)
		if token == "" {
			rejectUnauthorized(c)
			return
		}

		principal, err := auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			// Infrastructure failures get the same response as bad tokens.
			// Distinguishing them would leak validation internals; the
			// access log still carries the real error.
			if !errors.Is(err, usecase.ErrUnauthenticated) {
				_ = c.Error(err)
			}
			rejectUnauthorized(c)
			return
		}

		c.Set(PrincipalKey, principal)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.AccountID = principal.ID
		}

		c.Next()
	}
}

func extractSessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func rejectUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, unauthorizedBody{
		AuthorizationStatus: "Unauthorized",
	})
}

// Principal retrieves the authenticated account bound by SessionAuth.
func Principal(c *gin.Context) (*domain.Account, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}

	account, ok := value.(*domain.Account)
	return account, ok
}
