package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
)

// runContract exercises a fresh set of repositories. Both the memory and the
// Postgres implementations must pass it.
func runContract(t *testing.T, repos *Repositories) {
	ctx := context.Background()

	ada := &models.User{Username: "ada", Email: "ada@campus.edu", Password: "hash", Role: models.RoleStudent}
	grace := &models.User{Username: "grace", Email: "grace@campus.edu", Password: "hash", Role: models.RoleStudent}

	t.Run("users", func(t *testing.T) {
		require.NoError(t, repos.UserRepository.Create(ctx, ada))
		require.NoError(t, repos.UserRepository.Create(ctx, grace))
		assert.Positive(t, ada.ID)
		assert.NotEqual(t, ada.ID, grace.ID)
		assert.False(t, ada.CreatedAt.IsZero())

		err := repos.UserRepository.Create(ctx, &models.User{Username: "other", Email: "ada@campus.edu", Password: "x", Role: models.RoleStudent})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

		err = repos.UserRepository.Create(ctx, &models.User{Username: "ada", Email: "new@campus.edu", Password: "x", Role: models.RoleStudent})
		assert.ErrorIs(t, err, apperrors.ErrUsernameExists)

		byEmail, err := repos.UserRepository.GetByEmail(ctx, "ada@campus.edu")
		require.NoError(t, err)
		assert.Equal(t, ada.ID, byEmail.ID)
		assert.Equal(t, "hash", byEmail.Password)
		assert.Equal(t, models.RoleStudent, byEmail.Role)

		byID, err := repos.UserRepository.GetByID(ctx, grace.ID)
		require.NoError(t, err)
		assert.Equal(t, "grace", byID.Username)

		_, err = repos.UserRepository.GetByEmail(ctx, "nobody@campus.edu")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

		exists, err := repos.UserRepository.EmailExists(ctx, "grace@campus.edu")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repos.UserRepository.EmailExists(ctx, "nobody@campus.edu")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	cs101 := &models.Course{CourseCode: "CS101", CourseName: "Intro to CS", Credits: 3, Description: "Basics"}
	ma201 := &models.Course{CourseCode: "MA201", CourseName: "Linear Algebra", Credits: 4}

	t.Run("courses", func(t *testing.T) {
		require.NoError(t, repos.CourseRepository.Create(ctx, cs101))
		require.NoError(t, repos.CourseRepository.Create(ctx, ma201))

		err := repos.CourseRepository.Create(ctx, &models.Course{CourseCode: "CS101", CourseName: "Again", Credits: 1})
		assert.ErrorIs(t, err, apperrors.ErrCourseCodeExists)

		courses, err := repos.CourseRepository.List(ctx)
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, *cs101, courses[0])
		assert.Equal(t, "", courses[1].Description)

		edited := *ma201
		edited.CourseName = "Linear Algebra II"
		require.NoError(t, repos.CourseRepository.Update(ctx, &edited))
		got, err := repos.CourseRepository.GetByID(ctx, ma201.ID)
		require.NoError(t, err)
		assert.Equal(t, "Linear Algebra II", got.CourseName)

		edited.CourseCode = "CS101"
		assert.ErrorIs(t, repos.CourseRepository.Update(ctx, &edited), apperrors.ErrCourseCodeExists)

		assert.ErrorIs(t, repos.CourseRepository.Update(ctx, &models.Course{ID: 9999, CourseCode: "ZZ1", CourseName: "x", Credits: 1}), apperrors.ErrCourseNotFound)
		_, err = repos.CourseRepository.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("enrollments", func(t *testing.T) {
		first := &models.Enrollment{StudentID: ada.ID, CourseID: cs101.ID}
		require.NoError(t, repos.EnrollmentRepository.Create(ctx, first))
		assert.Equal(t, models.EnrollmentStatusEnrolled, first.Status)
		_, err := time.Parse(helpers.DateLayout, first.EnrollmentDate)
		assert.NoError(t, err)

		err = repos.EnrollmentRepository.Create(ctx, &models.Enrollment{StudentID: ada.ID, CourseID: cs101.ID})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)

		err = repos.EnrollmentRepository.Create(ctx, &models.Enrollment{StudentID: ada.ID, CourseID: 9999})
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

		second := &models.Enrollment{StudentID: ada.ID, CourseID: ma201.ID}
		require.NoError(t, repos.EnrollmentRepository.Create(ctx, second))
		require.NoError(t, repos.EnrollmentRepository.Create(ctx, &models.Enrollment{StudentID: grace.ID, CourseID: cs101.ID}))

		mine, err := repos.EnrollmentRepository.ListByStudent(ctx, ada.ID)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		require.NotNil(t, mine[0].Course)
		assert.Equal(t, "Intro to CS", mine[0].CourseName())

		got, err := repos.EnrollmentRepository.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, ada.ID, got.StudentID)

		require.NoError(t, repos.EnrollmentRepository.Delete(ctx, second.ID))
		assert.ErrorIs(t, repos.EnrollmentRepository.Delete(ctx, second.ID), apperrors.ErrEnrollmentNotFound)
		_, err = repos.EnrollmentRepository.GetByID(ctx, second.ID)
		assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)

		// Deleting a course removes its enrollments.
		require.NoError(t, repos.CourseRepository.Delete(ctx, cs101.ID))
		assert.ErrorIs(t, repos.CourseRepository.Delete(ctx, cs101.ID), apperrors.ErrCourseNotFound)
		for _, student := range []int64{ada.ID, grace.ID} {
			left, err := repos.EnrollmentRepository.ListByStudent(ctx, student)
			require.NoError(t, err)
			assert.Empty(t, left)
		}
	})

	t.Run("audit", func(t *testing.T) {
		for _, action := range []string{models.AuditActionLogin, models.AuditActionCreate, models.AuditActionLogout} {
			require.NoError(t, repos.AuditRepository.Append(ctx, models.AuditRecord{
				UserID:      &ada.ID,
				Action:      action,
				Table:       "users",
				RecordID:    ada.ID,
				Description: action + " by ada",
				IPAddress:   "127.0.0.1",
			}))
		}
		require.NoError(t, repos.AuditRepository.Append(ctx, models.AuditRecord{Action: models.AuditActionDelete}))

		entries, err := repos.AuditRepository.ListRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, models.AuditActionDelete, entries[0].Action)
		assert.Equal(t, "", entries[0].Table)
		assert.Equal(t, models.AuditActionLogout, entries[1].Action)
		assert.Equal(t, "LOGOUT by ada", entries[1].Description)
		assert.Equal(t, models.AuditActionCreate, entries[2].Action)
		_, err = time.Parse(helpers.TimestampLayout, entries[0].Timestamp)
		assert.NoError(t, err)
	})
}
