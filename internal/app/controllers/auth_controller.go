// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	sessions    *middleware.AuthMiddleware
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, sessions *middleware.AuthMiddleware, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// Register handles user registration
// POST /auth/register
func (c *AuthController) Register(ctx *gin.Context) {
	var form dto.RegisterForm
	if !middleware.BindJSON(ctx, &form) {
		return
	}

	req := form.Request()
	if _, err := c.authService.Register(ctx.Request.Context(), &req, middleware.Actor(ctx)); err != nil {
		c.logger.Info().Err(err).Str("email", req.Email).Msg("Registration rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{Message: "User registered successfully"})
}

// Login handles user login and sets the session cookie
// POST /auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), &req, middleware.Actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.sessions.SetSession(ctx, session.Token, int(c.authService.SessionLifetime().Seconds()))

	identity := session.User.Identity()
	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User:    &identity,
	})
}

// Logout clears the session cookie
// POST /auth/logout
func (c *AuthController) Logout(ctx *gin.Context) {
	c.authService.Logout(ctx.Request.Context(), middleware.Actor(ctx))
	c.sessions.ClearSession(ctx)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out successfully"})
}

// Me reports the current session
// GET /auth/me
func (c *AuthController) Me(ctx *gin.Context) {
	claims, ok := middleware.CurrentClaims(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.SessionResponse{Authenticated: false})
		return
	}

	identity := models.Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
	ctx.JSON(http.StatusOK, dto.SessionResponse{
		Authenticated: true,
		User:          &identity,
	})
}
