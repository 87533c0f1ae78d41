package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/repositories"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/auth"
)

// Session is an issued session credential
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo repositories.IUserRepository
	sessions *auth.SessionService
	audit    *AuditService
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	sessions *auth.SessionService,
	audit *AuditService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
	}
}

// Register creates a student, teacher or admin account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, actor Actor) (*models.User, error) {
	req.ApplyDefaults()

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, "users", user.ID,
		"Registered new user: "+user.Username)
	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Login checks credentials and issues a session
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, actor Actor) (*Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, Actor{UserID: user.ID, IP: actor.IP}, models.AuditActionLogin, "users", user.ID, "User logged in")
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout records the end of a session. Anonymous logouts are not audited.
func (s *AuthService) Logout(ctx context.Context, actor Actor) {
	if actor.UserID == 0 {
		return
	}
	s.audit.Record(ctx, actor, models.AuditActionLogout, "users", actor.UserID, "User logged out")
}

// Authenticate resolves a session token to its claims
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return s.sessions.Validate(token)
}

// SessionLifetime returns how long issued sessions last
func (s *AuthService) SessionLifetime() time.Duration {
	return s.sessions.Lifetime()
}
