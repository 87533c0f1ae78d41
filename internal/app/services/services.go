package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/auth"
	"github.com/yigit/campushub/internal/app/repositories"
	pkgauth "github.com/yigit/campushub/internal/pkg/auth"
)

// AuditLogLimit caps how many audit entries the admin panel receives
const AuditLogLimit = 100

// Actor identifies who triggered an operation, for the audit trail.
// A zero UserID means an anonymous request.
type Actor struct {
	UserID int64
	IP     string
}

func (a Actor) userID() *int64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// Services groups the portal's business logic
type Services struct {
	Auth       *AuthService
	Course     *CourseService
	Enrollment *EnrollmentService
	Audit      *AuditService
}

// NewServices wires every service on top of repos
func NewServices(repos *repositories.Repositories, sessions *pkgauth.SessionService, logger zerolog.Logger) *Services {
	audit := NewAuditService(repos.AuditRepository, logger.With().Str("service", "audit").Logger())
	return &Services{
		Auth:       NewAuthService(repos.UserRepository, sessions, audit, logger.With().Str("service", "auth").Logger()),
		Course:     NewCourseService(repos.CourseRepository, audit, logger.With().Str("service", "course").Logger()),
		Enrollment: NewEnrollmentService(repos.EnrollmentRepository, auth.NewAuthorizationService(repos.EnrollmentRepository), audit, logger.With().Str("service", "enrollment").Logger()),
		Audit:      audit,
	}
}
