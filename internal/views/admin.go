package views

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/validation"
)

// AdminAPI is the part of the portal client the admin view needs.
type AdminAPI interface {
	ListAuditLogs(ctx context.Context) ([]models.AuditLogEntry, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, in models.CourseInput) error
	UpdateCourse(ctx context.Context, id int64, in models.CourseInput) error
	DeleteCourse(ctx context.Context, id int64) error
}

// AdminView shows the audit log and the course catalog.
type AdminView struct {
	*Syncer
	AuditLogs *Resource[models.AuditLogEntry]
	Courses   *Resource[models.Course]

	api AdminAPI
}

// NewAdminView creates an unmounted admin view.
func NewAdminView(api AdminAPI, log zerolog.Logger) *AdminView {
	v := &AdminView{
		AuditLogs: NewResource("audit logs", api.ListAuditLogs),
		Courses:   NewResource("courses", api.ListCourses),
		api:       api,
	}
	v.Syncer = NewSyncer(log.With().Str("view", "admin").Logger(), v.AuditLogs, v.Courses)
	return v
}

// CreateCourse adds a course. Invalid input is rejected before any request.
func (v *AdminView) CreateCourse(ctx context.Context, in models.CourseInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	return v.Mutate(ctx, "create course", func(ctx context.Context) error {
		return v.api.CreateCourse(ctx, in)
	})
}

// UpdateCourse replaces the editable fields of course id.
func (v *AdminView) UpdateCourse(ctx context.Context, id int64, in models.CourseInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	return v.Mutate(ctx, "update course", func(ctx context.Context) error {
		return v.api.UpdateCourse(ctx, id, in)
	})
}

// DeleteCourse removes course id once confirm approves it.
func (v *AdminView) DeleteCourse(ctx context.Context, id int64, confirm Confirmer) error {
	return v.Mutate(ctx, "delete course", func(ctx context.Context) error {
		if confirm == nil || !confirm(fmt.Sprintf("Delete course %d?", id)) {
			return apperrors.ErrNotConfirmed
		}
		return v.api.DeleteCourse(ctx, id)
	})
}

// Course returns the cached course with id.
func (v *AdminView) Course(id int64) (models.Course, bool) {
	for _, c := range v.Courses.Get() {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}
