package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campushub/internal/app/models"
)

// IUserRepository defines the interface for account storage
type IUserRepository interface {
	// Create stores user and fills in its ID and creation time.
	// Returns apperrors.ErrEmailAlreadyExists or apperrors.ErrUsernameExists on duplicates.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// ICourseRepository defines the interface for the course catalog
type ICourseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	// Create returns apperrors.ErrCourseCodeExists when the code is taken.
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	// Delete removes the course together with its enrollments.
	Delete(ctx context.Context, id int64) error
}

// IEnrollmentRepository defines the interface for enrollment storage
type IEnrollmentRepository interface {
	// Create returns apperrors.ErrAlreadyEnrolled when the student already holds
	// an enrollment for the course.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	// ListByStudent returns the student's enrollments with their course attached.
	ListByStudent(ctx context.Context, studentID int64) ([]models.Enrollment, error)
	Delete(ctx context.Context, id int64) error
}

// IAuditRepository defines the interface for the audit trail
type IAuditRepository interface {
	Append(ctx context.Context, record models.AuditRecord) error
	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       IUserRepository
	CourseRepository     ICourseRepository
	EnrollmentRepository IEnrollmentRepository
	AuditRepository      IAuditRepository
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CourseRepository:     NewCourseRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		AuditRepository:      NewAuditRepository(db),
	}
}

// NewMemoryRepositories initializes repositories that keep everything in process memory
func NewMemoryRepositories() *Repositories {
	store := newMemoryStore()
	return &Repositories{
		UserRepository:       &memoryUserRepository{store},
		CourseRepository:     &memoryCourseRepository{store},
		EnrollmentRepository: &memoryEnrollmentRepository{store},
		AuditRepository:      &memoryAuditRepository{store},
	}
}
