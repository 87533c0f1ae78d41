package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/dberrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
)

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentSelect = `
	SELECT e.id, e.student_id, e.course_id, e.status, e.enrollment_date,
	       c.id, c.course_code, c.course_name, c.credits, c.description
	FROM enrollments e
	LEFT JOIN courses c ON c.id = e.course_id`

// Create creates a new enrollment
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}

	var date time.Time
	err := r.db.QueryRow(ctx, `
		INSERT INTO enrollments (student_id, course_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, enrollment_date`,
		enrollment.StudentID, enrollment.CourseID, enrollment.Status).Scan(&enrollment.ID, &date)

	switch {
	case err == nil:
		enrollment.EnrollmentDate = helpers.FormatDate(date)
		return nil
	case dberrors.IsDuplicateConstraintError(err, "enrollments_student_course_key"):
		return apperrors.ErrAlreadyEnrolled
	case dberrors.IsForeignKeyError(err, "enrollments_course_id_fkey"):
		return apperrors.ErrCourseNotFound
	default:
		return fmt.Errorf("error creating enrollment: %w", err)
	}
}

// GetByID retrieves an enrollment with its course
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, enrollmentSelect+` WHERE e.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	return enrollment, err
}

// ListByStudent returns a student's enrollments ordered by ID
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	rows, err := r.db.Query(ctx, enrollmentSelect+` WHERE e.student_id = $1 ORDER BY e.id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}
	return enrollments, nil
}

// Delete removes an enrollment
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var (
		e           models.Enrollment
		date        time.Time
		courseID    sql.NullInt64
		code, name  sql.NullString
		credits     sql.NullInt32
		description sql.NullString
	)
	err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Status, &date,
		&courseID, &code, &name, &credits, &description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning enrollment: %w", err)
	}

	e.EnrollmentDate = helpers.FormatDate(date)
	if courseID.Valid {
		e.Course = &models.Course{
			ID:          courseID.Int64,
			CourseCode:  code.String,
			CourseName:  name.String,
			Credits:     int(credits.Int32),
			Description: description.String,
		}
	}
	return &e, nil
}
