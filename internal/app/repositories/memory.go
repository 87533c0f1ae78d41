package repositories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/pkg/helpers"
)

// memoryStore keeps every table in process memory behind one lock, so the
// cascade on course deletion and the uniqueness checks stay atomic.
type memoryStore struct {
	mu sync.RWMutex

	users       []models.User
	courses     []models.Course
	enrollments []models.Enrollment
	audit       []models.AuditLogEntry

	nextUser, nextCourse, nextEnrollment, nextAudit int64

	now func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{now: time.Now}
}

type memoryUserRepository struct{ s *memoryStore }

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return apperrors.ErrUsernameExists
		}
	}

	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = s.now()
	s.users = append(s.users, *user)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.find(func(u models.User) bool { return u.Email == email })
	return err == nil, nil
}

func (r *memoryUserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := slices.IndexFunc(r.s.users, match)
	if i < 0 {
		return nil, apperrors.ErrUserNotFound
	}
	user := r.s.users[i]
	return &user, nil
}

type memoryCourseRepository struct{ s *memoryStore }

func (r *memoryCourseRepository) List(_ context.Context) ([]models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.courses), nil
}

func (r *memoryCourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	course, ok := r.s.course(id)
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

func (r *memoryCourseRepository) Create(_ context.Context, course *models.Course) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.codeTaken(course.CourseCode, 0) {
		return apperrors.ErrCourseCodeExists
	}

	s.nextCourse++
	course.ID = s.nextCourse
	s.courses = append(s.courses, *course)
	return nil
}

func (r *memoryCourseRepository) Update(_ context.Context, course *models.Course) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.courses, func(c models.Course) bool { return c.ID == course.ID })
	if i < 0 {
		return apperrors.ErrCourseNotFound
	}
	if s.codeTaken(course.CourseCode, course.ID) {
		return apperrors.ErrCourseCodeExists
	}
	s.courses[i] = *course
	return nil
}

func (r *memoryCourseRepository) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.courses, func(c models.Course) bool { return c.ID == id })
	if i < 0 {
		return apperrors.ErrCourseNotFound
	}
	s.courses = slices.Delete(s.courses, i, i+1)
	s.enrollments = slices.DeleteFunc(s.enrollments, func(e models.Enrollment) bool { return e.CourseID == id })
	return nil
}

type memoryEnrollmentRepository struct{ s *memoryStore }

func (r *memoryEnrollmentRepository) Create(_ context.Context, enrollment *models.Enrollment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.course(enrollment.CourseID); !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, e := range s.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return apperrors.ErrAlreadyEnrolled
		}
	}

	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}
	s.nextEnrollment++
	enrollment.ID = s.nextEnrollment
	enrollment.EnrollmentDate = helpers.FormatDate(s.now())
	enrollment.Course = nil
	s.enrollments = append(s.enrollments, *enrollment)
	return nil
}

func (r *memoryEnrollmentRepository) GetByID(_ context.Context, id int64) (*models.Enrollment, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.enrollments, func(e models.Enrollment) bool { return e.ID == id })
	if i < 0 {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	e := s.withCourse(s.enrollments[i])
	return &e, nil
}

func (r *memoryEnrollmentRepository) ListByStudent(_ context.Context, studentID int64) ([]models.Enrollment, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	enrollments := []models.Enrollment{}
	for _, e := range s.enrollments {
		if e.StudentID == studentID {
			enrollments = append(enrollments, s.withCourse(e))
		}
	}
	return enrollments, nil
}

func (r *memoryEnrollmentRepository) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.enrollments, func(e models.Enrollment) bool { return e.ID == id })
	if i < 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	s.enrollments = slices.Delete(s.enrollments, i, i+1)
	return nil
}

type memoryAuditRepository struct{ s *memoryStore }

func (r *memoryAuditRepository) Append(_ context.Context, record models.AuditRecord) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAudit++
	s.audit = append(s.audit, models.AuditLogEntry{
		ID:          s.nextAudit,
		Timestamp:   helpers.FormatTimestamp(s.now()),
		Action:      record.Action,
		Table:       record.Table,
		Description: record.Description,
	})
	return nil
}

func (r *memoryAuditRepository) ListRecent(_ context.Context, limit int) ([]models.AuditLogEntry, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		return []models.AuditLogEntry{}, nil
	}
	entries := make([]models.AuditLogEntry, 0, min(limit, len(s.audit)))
	for i := len(s.audit) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.audit[i])
	}
	return entries, nil
}

// course looks up a course; callers hold the lock.
func (s *memoryStore) course(id int64) (models.Course, bool) {
	i := slices.IndexFunc(s.courses, func(c models.Course) bool { return c.ID == id })
	if i < 0 {
		return models.Course{}, false
	}
	return s.courses[i], true
}

func (s *memoryStore) codeTaken(code string, except int64) bool {
	return slices.ContainsFunc(s.courses, func(c models.Course) bool {
		return c.CourseCode == code && c.ID != except
	})
}

func (s *memoryStore) withCourse(e models.Enrollment) models.Enrollment {
	if c, ok := s.course(e.CourseID); ok {
		e.Course = &c
	}
	return e
}
