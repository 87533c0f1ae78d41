package shell

import (
	"context"
	"slices"
	"sync"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

type account struct {
	password string
	identity models.Identity
}

// fakePortal records every call and keeps a tiny portal in memory.
type fakePortal struct {
	mu          sync.Mutex
	calls       []string
	accounts    map[string]account
	current     *models.Identity
	courses     []models.Course
	enrollments []models.Enrollment
	audit       []models.AuditLogEntry
	nextID      int64

	// meGate delays the session probe until closed.
	meGate chan struct{}
	// expired makes data endpoints answer 401 and fire onUnauthorized.
	expired        bool
	onUnauthorized func()
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		accounts: map[string]account{
			"ada@campus.edu":   {"secret1", models.Identity{ID: 3, Username: "ada", Email: "ada@campus.edu", Role: models.RoleStudent}},
			"admin@campus.edu": {"admin123", models.Identity{ID: 1, Username: "admin", Email: "admin@campus.edu", Role: models.RoleAdmin}},
		},
		courses: []models.Course{
			{ID: 1, CourseCode: "CS101", CourseName: "Intro to CS", Credits: 3},
			{ID: 7, CourseCode: "MA201", CourseName: "Linear Algebra", Credits: 4},
		},
		enrollments: []models.Enrollment{
			{ID: 10, StudentID: 3, CourseID: 7, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: "2026-09-01"},
		},
		nextID: 100,
	}
}

func (f *fakePortal) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePortal) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, call)
}

func (f *fakePortal) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

// guarded records call and reports whether the session is gone.
func (f *fakePortal) guarded(call string) error {
	f.record(call)
	f.mu.Lock()
	expired, notify := f.expired, f.onUnauthorized
	f.mu.Unlock()
	if !expired {
		return nil
	}
	if notify != nil {
		notify()
	}
	return &apperrors.APIError{Status: 401, Message: "Authentication required"}
}

func (f *fakePortal) Me(ctx context.Context) (*dto.SessionResponse, error) {
	f.record("me")
	if f.meGate != nil {
		<-f.meGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return nil, &apperrors.APIError{Status: 401, Path: "/auth/me"}
	}
	id := *f.current
	return &dto.SessionResponse{Authenticated: true, User: &id}, nil
}

func (f *fakePortal) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	f.record("login")
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[email]
	if !ok || acc.password != password {
		return nil, &apperrors.APIError{Status: 401, Message: "Invalid credentials"}
	}
	id := acc.identity
	f.current = &id
	return &id, nil
}

func (f *fakePortal) Register(ctx context.Context, req dto.RegisterRequest) error {
	f.record("register")
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[req.Email]; ok {
		return &apperrors.APIError{Status: 400, Message: "Email already exists"}
	}
	f.nextID++
	f.accounts[req.Email] = account{req.Password, models.Identity{ID: f.nextID, Username: req.Username, Email: req.Email, Role: req.Role}}
	return nil
}

func (f *fakePortal) Logout(ctx context.Context) error {
	f.record("logout")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = nil
	return nil
}

func (f *fakePortal) ListCourses(ctx context.Context) ([]models.Course, error) {
	if err := f.guarded("courses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.courses), nil
}

func (f *fakePortal) ListMyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	if err := f.guarded("enrollments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.enrollments)
	for i := range out {
		for j := range f.courses {
			if f.courses[j].ID == out[i].CourseID {
				c := f.courses[j]
				out[i].Course = &c
			}
		}
	}
	return out, nil
}

func (f *fakePortal) Enroll(ctx context.Context, courseID int64) error {
	if err := f.guarded("enroll"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			return &apperrors.APIError{Status: 409, Message: "Already enrolled"}
		}
	}
	f.nextID++
	f.enrollments = append(f.enrollments, models.Enrollment{ID: f.nextID, StudentID: 3, CourseID: courseID, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: "2026-10-18"})
	return nil
}

func (f *fakePortal) Drop(ctx context.Context, enrollmentID int64) error {
	if err := f.guarded("drop"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enrollments = slices.DeleteFunc(f.enrollments, func(e models.Enrollment) bool { return e.ID == enrollmentID })
	return nil
}

func (f *fakePortal) ListAuditLogs(ctx context.Context) ([]models.AuditLogEntry, error) {
	if err := f.guarded("audit"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.audit), nil
}

func (f *fakePortal) CreateCourse(ctx context.Context, in models.CourseInput) error {
	if err := f.guarded("create"); err != nil {
		return err
	}
	if in.Credits > 30 {
		return &apperrors.APIError{Status: 400, Message: "credits must be at most 30", Method: "POST", Path: "/admin/courses"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := models.Course{ID: f.nextID}
	in.Apply(&c)
	f.courses = append(f.courses, c)
	f.audit = slices.Insert(f.audit, 0, models.AuditLogEntry{ID: f.nextID, Timestamp: "2026-10-18 10:00:00", Action: "CREATE", Table: "courses", Description: "Admin created course " + c.CourseCode})
	return nil
}

func (f *fakePortal) UpdateCourse(ctx context.Context, id int64, in models.CourseInput) error {
	if err := f.guarded("update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.courses {
		if f.courses[i].ID == id {
			in.Apply(&f.courses[i])
			return nil
		}
	}
	return &apperrors.APIError{Status: 404}
}

func (f *fakePortal) DeleteCourse(ctx context.Context, id int64) error {
	if err := f.guarded("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = slices.DeleteFunc(f.courses, func(c models.Course) bool { return c.ID == id })
	return nil
}
