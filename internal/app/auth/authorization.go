package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/repositories"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// ErrNotOwner is returned when a student touches another student's enrollment
var ErrNotOwner = apperrors.NewForbiddenError("Unauthorized")

// RoleAllows reports whether a session with role may use a route gated on required.
// Administrators pass every role gate.
func RoleAllows(role, required models.Role) bool {
	return role == required || role == models.RoleAdmin
}

// AuthorizationService handles ownership checks on stored records
type AuthorizationService struct {
	enrollmentRepo repositories.IEnrollmentRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(enrollmentRepo repositories.IEnrollmentRepository) *AuthorizationService {
	return &AuthorizationService{
		enrollmentRepo: enrollmentRepo,
	}
}

// CanDropEnrollment loads the enrollment and checks that userID owns it
func (s *AuthorizationService) CanDropEnrollment(ctx context.Context, enrollmentID, userID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load enrollment %d: %w", enrollmentID, err)
	}

	if enrollment.StudentID != userID {
		return nil, ErrNotOwner
	}
	return enrollment, nil
}
