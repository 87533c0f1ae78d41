package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/auth"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/repositories"
)

// EnrollmentService handles student registrations
type EnrollmentService struct {
	repo   repositories.IEnrollmentRepository
	authz  *auth.AuthorizationService
	audit  *AuditService
	logger zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(repo repositories.IEnrollmentRepository, authz *auth.AuthorizationService, audit *AuditService, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{repo: repo, authz: authz, audit: audit, logger: logger}
}

// Enroll registers the acting student to a course
func (s *EnrollmentService) Enroll(ctx context.Context, courseID int64, actor Actor) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{StudentID: actor.UserID, CourseID: courseID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, "enrollments", enrollment.ID,
		fmt.Sprintf("Student %d enrolled in course %d", actor.UserID, courseID))

	// Reload to attach the course.
	if full, err := s.repo.GetByID(ctx, enrollment.ID); err == nil {
		return full, nil
	}
	return enrollment, nil
}

// ForStudent lists a student's enrollments
func (s *EnrollmentService) ForStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// Drop deletes one of the acting student's enrollments
func (s *EnrollmentService) Drop(ctx context.Context, enrollmentID int64, actor Actor) error {
	enrollment, err := s.authz.CanDropEnrollment(ctx, enrollmentID, actor.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, enrollmentID); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, models.AuditActionDelete, "enrollments", enrollmentID,
		fmt.Sprintf("Student dropped course %d", enrollment.CourseID))
	return nil
}
