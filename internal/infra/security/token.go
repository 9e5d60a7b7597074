package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates the two token purposes minted by the codec. The
// type claim is the only discriminator, so every consumer must check it
// explicitly: a valid session token must never pass where a verification
// token is expected, and vice versa.
type TokenType string

const (
	TokenTypeSession           TokenType = "session"
	TokenTypeEmailVerification TokenType = "email-verification"
)

var (
	// ErrTokenMalformed indicates the token string could not be parsed or decoded.
	ErrTokenMalformed = errors.New("token: malformed")
	// ErrTokenSignature indicates the signature does not match the payload.
	ErrTokenSignature = errors.New("token: invalid signature")
	// ErrTokenExpired indicates the embedded expiry has passed.
	ErrTokenExpired = errors.New("token: expired")
)

// TokenClaims is the typed claim set carried by every minted token.
type TokenClaims struct {
	Type      TokenType `json:"type"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact, tamper-evident tokens with a
// process-wide HMAC secret. Mint and Verify are pure computations with no
// I/O; a codec is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenCodec constructs a codec. An empty secret is a startup error.
func NewTokenCodec(secret, issuer string) (*TokenCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock allows injection of a custom clock (primarily for testing).
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	if now != nil {
		c.now = now
	}
	return c
}

// Mint produces a signed token embedding the type, principal reference, and
// an absolute expiry of issuance time + ttl.
func (c *TokenCodec) Mint(typ TokenType, accountID, email string, ttl time.Duration) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("token: account id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token: ttl must be positive")
	}

	now := c.now().UTC()
	claims := TokenClaims{
		Type:      typ,
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Verify parses the token string and returns the claims unchanged from mint
// time. Failures map to ErrTokenMalformed, ErrTokenSignature, or
// ErrTokenExpired; callers still have to check Claims.Type themselves.
func (c *TokenCodec) Verify(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	return claims, nil
}
