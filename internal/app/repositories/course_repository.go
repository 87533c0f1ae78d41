package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/dberrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
)

const courseCodeConstraint = "courses_course_code_key"

// CourseRepository handles course catalog database operations
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course ordered by ID
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, course_code, course_name, credits, description
		FROM courses
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}
	return courses, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, course_code, course_name, credits, description
		FROM courses
		WHERE id = $1`, id)
	course, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, err
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (course_code, course_name, credits, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		course.CourseCode, course.CourseName, course.Credits,
		helpers.GetContentNullString(course.Description)).Scan(&course.ID)

	if dberrors.IsDuplicateConstraintError(err, courseCodeConstraint) {
		return apperrors.ErrCourseCodeExists
	}
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// Update replaces the editable fields of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET course_code = $1, course_name = $2, credits = $3, description = $4
		WHERE id = $5`,
		course.CourseCode, course.CourseName, course.Credits,
		helpers.GetContentNullString(course.Description), course.ID)

	if dberrors.IsDuplicateConstraintError(err, courseCodeConstraint) {
		return apperrors.ErrCourseCodeExists
	}
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course; enrollments go with it through ON DELETE CASCADE
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	var description sql.NullString
	if err := row.Scan(&course.ID, &course.CourseCode, &course.CourseName, &course.Credits, &description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning course: %w", err)
	}
	course.Description = description.String
	return course, nil
}
