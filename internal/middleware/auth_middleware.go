package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/auth"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	pkgauth "github.com/yigit/campushub/internal/pkg/auth"
)

// Context keys set by the session middleware
const (
	ClaimsKey = "claims"
	UserIDKey = "userID"
	RoleKey   = "role"
)

// Messages of the login and role gates
const (
	MsgAuthRequired = "Authentication required"
	MsgAccessDenied = "Access denied: Insufficient permissions"
)

// SessionCookie describes the cookie carrying the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

// AuthMiddleware for session authentication and role gates
type AuthMiddleware struct {
	authService *services.AuthService
	cookie      SessionCookie
	logger      zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authService *services.AuthService, cookie SessionCookie, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

// LoadSession reads the session cookie and, when it holds a valid token,
// stores the claims in the context. It never aborts.
func (m *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookie.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := m.authService.Authenticate(token)
		if err != nil {
			m.logger.Debug().Err(err).Msg("Ignoring invalid session cookie")
			c.Next()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// SessionRequired aborts with 401 unless LoadSession found a valid session
func (m *AuthMiddleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentClaims(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: MsgAuthRequired})
			return
		}
		c.Next()
	}
}

// RoleRequired middleware to check if user has required role.
// Administrators pass every role gate.
func (m *AuthMiddleware) RoleRequired(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: MsgAuthRequired})
			return
		}

		if !auth.RoleAllows(claims.Role, requiredRole) {
			m.logger.Info().
				Int64("userID", claims.UserID).
				Str("role", string(claims.Role)).
				Str("required", string(requiredRole)).
				Str("path", c.Request.URL.Path).
				Msg("Role gate denied request")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: MsgAccessDenied})
			return
		}

		c.Next()
	}
}

// SetSession writes the session cookie
func (m *AuthMiddleware) SetSession(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, maxAge, "/", "", m.cookie.Secure, true)
}

// ClearSession expires the session cookie
func (m *AuthMiddleware) ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// CurrentClaims returns the session claims stored by LoadSession
func CurrentClaims(c *gin.Context) (*pkgauth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*pkgauth.Claims)
	return claims, ok && claims != nil
}

// Actor returns who is making the request, for the audit trail
func Actor(c *gin.Context) services.Actor {
	actor := services.Actor{IP: c.ClientIP()}
	if claims, ok := CurrentClaims(c); ok {
		actor.UserID = claims.UserID
	}
	return actor
}
