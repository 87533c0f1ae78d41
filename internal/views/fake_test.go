package views

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// fakePortal is an in-memory portal with per-call hooks.
type fakePortal struct {
	mu          sync.Mutex
	courses     []models.Course
	enrollments []models.Enrollment
	audit       []models.AuditLogEntry
	nextID      int64
	calls       map[string]int

	// fail makes the named call return the error.
	fail map[string]error
	// before runs inside the named call, outside the lock: after the snapshot
	// for reads and before the change for writes.
	before map[string]func()
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		courses: []models.Course{
			{ID: 1, CourseCode: "CS101", CourseName: "Intro to CS", Credits: 3},
			{ID: 7, CourseCode: "MA201", CourseName: "Linear Algebra", Credits: 4},
		},
		enrollments: []models.Enrollment{
			{ID: 10, StudentID: 3, CourseID: 7, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: "2026-09-01"},
		},
		nextID: 100,
		calls:  map[string]int{},
		fail:   map[string]error{},
		before: map[string]func(){},
	}
}

func (f *fakePortal) enter(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.fail[name]
}

// pause runs the hook registered for name, if any.
func (f *fakePortal) pause(name string) {
	f.mu.Lock()
	hook := f.before[name]
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (f *fakePortal) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakePortal) setFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[name] = err
}

func (f *fakePortal) setBefore(name string, hook func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.before[name] = hook
}

func (f *fakePortal) logAudit(action, table, desc string) {
	f.nextID++
	f.audit = slices.Insert(f.audit, 0, models.AuditLogEntry{
		ID: f.nextID, Action: action, Table: table, Description: desc, Timestamp: "2026-10-18 10:00:00",
	})
}

func (f *fakePortal) ListCourses(ctx context.Context) ([]models.Course, error) {
	if err := f.enter("courses"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	out := slices.Clone(f.courses)
	f.mu.Unlock()
	f.pause("courses")
	return out, nil
}

func (f *fakePortal) ListMyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	if err := f.enter("enrollments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	out := slices.Clone(f.enrollments)
	for i := range out {
		for j := range f.courses {
			if f.courses[j].ID == out[i].CourseID {
				c := f.courses[j]
				out[i].Course = &c
			}
		}
	}
	f.mu.Unlock()
	f.pause("enrollments")
	return out, nil
}

func (f *fakePortal) ListAuditLogs(ctx context.Context) ([]models.AuditLogEntry, error) {
	if err := f.enter("audit"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	out := slices.Clone(f.audit)
	f.mu.Unlock()
	f.pause("audit")
	return out, nil
}

func (f *fakePortal) Enroll(ctx context.Context, courseID int64) error {
	if err := f.enter("enroll"); err != nil {
		return err
	}
	f.pause("enroll")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			return &apperrors.APIError{Status: 409, Message: "Already enrolled", Method: "POST", Path: "/student/enroll"}
		}
	}
	f.nextID++
	f.enrollments = append(f.enrollments, models.Enrollment{
		ID: f.nextID, StudentID: 3, CourseID: courseID, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: "2026-10-18",
	})
	return nil
}

func (f *fakePortal) Drop(ctx context.Context, enrollmentID int64) error {
	if err := f.enter("drop"); err != nil {
		return err
	}
	f.pause("drop")
	f.mu.Lock()
	defer f.mu.Unlock()
	i := slices.IndexFunc(f.enrollments, func(e models.Enrollment) bool { return e.ID == enrollmentID })
	if i < 0 {
		return &apperrors.APIError{Status: 404, Method: "DELETE", Path: fmt.Sprintf("/student/drop/%d", enrollmentID)}
	}
	f.enrollments = slices.Delete(f.enrollments, i, i+1)
	return nil
}

func (f *fakePortal) CreateCourse(ctx context.Context, in models.CourseInput) error {
	if err := f.enter("create"); err != nil {
		return err
	}
	f.pause("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := models.Course{ID: f.nextID}
	in.Apply(&c)
	f.courses = append(f.courses, c)
	f.logAudit(models.AuditActionCreate, "courses", "Admin created course "+c.CourseCode)
	return nil
}

func (f *fakePortal) UpdateCourse(ctx context.Context, id int64, in models.CourseInput) error {
	if err := f.enter("update"); err != nil {
		return err
	}
	f.pause("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.courses {
		if f.courses[i].ID == id {
			in.Apply(&f.courses[i])
			f.logAudit(models.AuditActionUpdate, "courses", "Admin updated course "+in.CourseCode)
			return nil
		}
	}
	return &apperrors.APIError{Status: 404}
}

func (f *fakePortal) DeleteCourse(ctx context.Context, id int64) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	f.pause("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = slices.DeleteFunc(f.courses, func(c models.Course) bool { return c.ID == id })
	f.logAudit(models.AuditActionDelete, "courses", fmt.Sprintf("Admin deleted course %d", id))
	return nil
}

// CreateCourseDirect changes the catalog behind the client's back.
func (f *fakePortal) CreateCourseDirect(code, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.courses = append(f.courses, models.Course{ID: f.nextID, CourseCode: code, CourseName: name, Credits: 3})
	return nil
}
