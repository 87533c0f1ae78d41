package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/repositories"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/auth"
)

// Options selects what CreateDefaultData creates
type Options struct {
	AdminUsername string
	AdminEmail    string
	// AdminPassword empty skips the admin account.
	AdminPassword string
	Courses       bool
}

// DefaultCourses is the starter catalog
var DefaultCourses = []models.Course{
	{CourseCode: "CS101", CourseName: "Introduction to Computer Science", Credits: 3, Description: "Programming fundamentals and problem solving."},
	{CourseCode: "CS201", CourseName: "Data Structures", Credits: 4, Description: "Lists, trees, graphs and their algorithms."},
	{CourseCode: "MATH101", CourseName: "Calculus I", Credits: 4, Description: "Limits, derivatives and integrals."},
	{CourseCode: "ENG102", CourseName: "Academic Writing", Credits: 2, Description: "Structuring and citing academic texts."},
}

// CreateDefaultData creates the admin account and the starter catalog if they don't exist.
// Errors are collected so one failed record does not stop the rest.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	if opts.AdminPassword != "" {
		finalErr = errors.Join(finalErr, createAdmin(ctx, repos.UserRepository, opts, lgr))
	} else {
		lgr.Info().Msg("No admin password configured, skipping admin account")
	}

	if opts.Courses {
		existing, err := repos.CourseRepository.List(ctx)
		if err != nil {
			return errors.Join(finalErr, err)
		}
		if len(existing) > 0 {
			lgr.Info().Int("courses", len(existing)).Msg("Catalog already populated, skipping courses")
		} else {
			for _, c := range DefaultCourses {
				course := c
				err := repos.CourseRepository.Create(ctx, &course)
				if err != nil && !errors.Is(err, apperrors.ErrCourseCodeExists) {
					lgr.Error().Err(err).Str("course", c.CourseCode).Msg("Error creating course")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, users repositories.IUserRepository, opts Options, lgr zerolog.Logger) error {
	exists, err := users.EmailExists(ctx, opts.AdminEmail)
	if err != nil {
		return err
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: opts.AdminUsername,
		Email:    opts.AdminEmail,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
