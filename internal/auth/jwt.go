package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/entrada-events/backend/internal/rbac"
)

// CookieName is the HTTP-only cookie carrying the auth token.
const CookieName = "auth_token"

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the authenticated actor for the duration of one request. It is
// decoded from the signed token and never refreshed from the database, so role
// or company changes only take effect when the holder re-authenticates or the
// token expires.
type Identity struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      rbac.Role `json:"role"`
	CompanyID uuid.UUID `json:"company_id,omitempty"`
}

// Claims holds JWT claims: the identity plus registered claims.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// JWTService handles token generation and validation.
type JWTService struct {
	secret       []byte
	expireHours  int
	secureCookie bool
}

// NewJWTService creates a JWT service. secureCookie controls the Secure flag
// on the auth cookie (true in production).
func NewJWTService(secret string, expireHours int, secureCookie bool) *JWTService {
	return &JWTService{
		secret:       []byte(secret),
		expireHours:  expireHours,
		secureCookie: secureCookie,
	}
}

// ExpireHours returns the configured token lifetime.
func (s *JWTService) ExpireHours() int { return s.expireHours }

// Generate creates a new signed token for the identity.
func (s *JWTService) Generate(id Identity) (string, error) {
	claims := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a token, returning its claims or an error.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetAuthCookie stores the token in the HTTP-only auth cookie, SameSite=Lax,
// lifetime matching the token.
func (s *JWTService) SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, s.expireHours*3600, "/", "", s.secureCookie, true)
}

// ClearAuthCookie removes the auth cookie.
func (s *JWTService) ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secureCookie, true)
}
