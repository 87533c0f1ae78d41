package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/repositories"
)

// CourseService manages the course catalog
type CourseService struct {
	repo   repositories.ICourseRepository
	audit  *AuditService
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repositories.ICourseRepository, audit *AuditService, logger zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, audit: audit, logger: logger}
}

// List returns the whole catalog
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// Create adds a course to the catalog
func (s *CourseService) Create(ctx context.Context, in models.CourseInput, actor Actor) (*models.Course, error) {
	course := &models.Course{}
	in.Apply(course)
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionCreate, "courses", course.ID, "Admin created course "+course.CourseCode)
	return course, nil
}

// Update replaces a course's editable fields
func (s *CourseService) Update(ctx context.Context, id int64, in models.CourseInput, actor Actor) (*models.Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(course)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, models.AuditActionUpdate, "courses", course.ID, "Admin updated course "+course.CourseCode)
	return course, nil
}

// Delete removes a course and its enrollments
func (s *CourseService) Delete(ctx context.Context, id int64, actor Actor) error {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actor, models.AuditActionDelete, "courses", id, "Admin deleted course "+course.CourseCode)
	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}
