package views

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// DropPrompt is shown before an enrollment is dropped.
const DropPrompt = "Are you sure?"

// EnrollmentAPI is the part of the portal client the enrollment view needs.
type EnrollmentAPI interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListMyEnrollments(ctx context.Context) ([]models.Enrollment, error)
	Enroll(ctx context.Context, courseID int64) error
	Drop(ctx context.Context, enrollmentID int64) error
}

// EnrollmentView shows the course catalog next to the student's enrollments.
type EnrollmentView struct {
	*Syncer
	Courses     *Resource[models.Course]
	Enrollments *Resource[models.Enrollment]

	api EnrollmentAPI
}

// NewEnrollmentView creates an unmounted enrollment view.
func NewEnrollmentView(api EnrollmentAPI, log zerolog.Logger) *EnrollmentView {
	v := &EnrollmentView{
		Courses:     NewResource("courses", api.ListCourses),
		Enrollments: NewResource("enrollments", api.ListMyEnrollments),
		api:         api,
	}
	v.Syncer = NewSyncer(log.With().Str("view", "enrollment").Logger(), v.Courses, v.Enrollments)
	return v
}

// Enroll enrolls the student in courseID.
func (v *EnrollmentView) Enroll(ctx context.Context, courseID int64) error {
	return v.Mutate(ctx, "enroll", func(ctx context.Context) error {
		return v.api.Enroll(ctx, courseID)
	})
}

// Drop drops enrollmentID once confirm approves it.
func (v *EnrollmentView) Drop(ctx context.Context, enrollmentID int64, confirm Confirmer) error {
	return v.Mutate(ctx, "drop", func(ctx context.Context) error {
		if confirm == nil || !confirm(DropPrompt) {
			return apperrors.ErrNotConfirmed
		}
		return v.api.Drop(ctx, enrollmentID)
	})
}
