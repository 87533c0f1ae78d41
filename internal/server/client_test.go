package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/bootstrap"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/portal"
	"github.com/yigit/campushub/internal/session"
	"github.com/yigit/campushub/internal/shell"
	"github.com/yigit/campushub/internal/views"
)

func yes(string) bool { return true }

// newClient wires a portal client and a session store the way the CLI does.
func newClient(t *testing.T, baseURL, sessionFile string) (*portal.Client, *session.Store) {
	t.Helper()

	jar, err := portal.NewCredentialJar(baseURL, sessionFile, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, jar.Load())

	api, err := portal.New(portal.Options{BaseURL: baseURL, Credentials: jar}, zerolog.Nop())
	require.NoError(t, err)

	store := session.NewStore(api, zerolog.Nop())
	api.OnUnauthorized(store.HandleUnauthorized)
	return api, store
}

func TestClient_StudentFlow(t *testing.T) {
	ctx := context.Background()

	api, store := newClient(t, startStub(t), "")

	assert.Equal(t, session.StatusUnauthenticated, store.Probe(ctx).Status)

	require.NoError(t, store.Register(ctx, dto.RegisterRequest{Username: "ada", Email: "ada@campus.edu", Password: "secret1"}))
	assert.False(t, store.State().Authenticated())

	_, err := store.Login(ctx, "ada@campus.edu", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apperrors.UserMessage(err, "An error occurred"))

	id, err := store.Login(ctx, "ada@campus.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, id.Role)
	assert.Equal(t, "ada", id.Username)

	v := views.NewEnrollmentView(api, zerolog.Nop())
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()

	courses := v.Courses.Get()
	require.NotEmpty(t, courses)
	assert.Empty(t, v.Enrollments.Get())

	require.NoError(t, v.Enroll(ctx, courses[0].ID))
	enrollments := v.Enrollments.Get()
	require.Len(t, enrollments, 1)
	assert.Equal(t, courses[0].ID, enrollments[0].CourseID)
	require.NotNil(t, enrollments[0].Course)
	assert.Equal(t, courses[0].CourseCode, enrollments[0].Course.CourseCode)

	err = v.Enroll(ctx, courses[0].ID)
	require.Error(t, err)
	assert.Equal(t, "Already enrolled in this course", apperrors.UserMessage(err, "Enrollment failed"))
	assert.Len(t, v.Enrollments.Get(), 1)

	assert.ErrorIs(t, v.Drop(ctx, enrollments[0].ID, func(string) bool { return false }), apperrors.ErrNotConfirmed)
	assert.Len(t, v.Enrollments.Get(), 1)

	require.NoError(t, v.Drop(ctx, enrollments[0].ID, yes))
	assert.Empty(t, v.Enrollments.Get())

	_, err = api.ListAuditLogs(ctx)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.True(t, store.State().Authenticated())

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.State().Authenticated())

	me, err := api.Me(ctx)
	if err == nil {
		assert.False(t, me.Authenticated)
	} else {
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	}
}

func TestClient_AdminFlow(t *testing.T) {
	ctx := context.Background()

	api, store := newClient(t, startStub(t), "")
	_, err := store.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	v := views.NewAdminView(api, zerolog.Nop())
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()
	seeded := len(v.Courses.Get())

	in := models.CourseInput{CourseCode: "PHY101", CourseName: "Physics I", Credits: 4}
	require.NoError(t, v.CreateCourse(ctx, in))
	require.Len(t, v.Courses.Get(), seeded+1)

	var created models.Course
	for _, c := range v.Courses.Get() {
		if c.CourseCode == "PHY101" {
			created = c
		}
	}
	require.NotZero(t, created.ID)

	logs := v.AuditLogs.Get()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Admin created course PHY101", logs[0].Description)

	in.CourseName = "Physics I (revised)"
	require.NoError(t, v.UpdateCourse(ctx, created.ID, in))
	updated, ok := v.Course(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Physics I (revised)", updated.CourseName)

	err = v.CreateCourse(ctx, models.CourseInput{CourseCode: "CS101", CourseName: "Dup", Credits: 3})
	require.Error(t, err)
	assert.Equal(t, "Course code already exists", apperrors.UserMessage(err, "Failed to create course"))

	require.NoError(t, v.DeleteCourse(ctx, created.ID, yes))
	_, ok = v.Course(created.ID)
	assert.False(t, ok)
	assert.Equal(t, "Admin deleted course PHY101", v.AuditLogs.Get()[0].Description)
}

// swapHandler lets a test replace the portal behind a fixed URL.
type swapHandler struct {
	h atomic.Pointer[http.Handler]
}

func (s *swapHandler) set(h http.Handler) { s.h.Store(&h) }

func (s *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.h.Load()).ServeHTTP(w, r)
}

func TestClient_RejectedSessionSignalsStore(t *testing.T) {
	ctx := context.Background()

	first, err := New(ctx, testConfig(), zerolog.Nop())
	require.NoError(t, err)

	rotated := testConfig()
	rotated.Session.Secret = "another-stub-secret-9876543210"
	second, err := New(ctx, rotated, zerolog.Nop())
	require.NoError(t, err)

	var portalHandler swapHandler
	portalHandler.set(first.Handler())
	ts := httptest.NewServer(&portalHandler)
	t.Cleanup(ts.Close)

	api, store := newClient(t, ts.URL+"/api", "")
	_, err = store.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	// The second portal signs with another key, so the held session no longer verifies.
	portalHandler.set(second.Handler())

	_, err = api.ListCourses(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, session.StatusUnauthenticated, store.State().Status)
}

func TestClient_SessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()

	base := startStub(t)
	file := filepath.Join(t.TempDir(), "session.yaml")

	_, store := newClient(t, base, file)
	_, err := store.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	_, restarted := newClient(t, base, file)
	st := restarted.Probe(ctx)
	require.True(t, st.Authenticated())
	assert.Equal(t, models.RoleAdmin, st.Identity.Role)

	require.NoError(t, restarted.Logout(ctx))

	_, again := newClient(t, base, file)
	assert.False(t, again.Probe(ctx).Authenticated())
}

func TestClient_ShellAgainstStub(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig()
	cfg.Client.BaseURL = startStub(t)
	cfg.Client.SessionFile = ""

	var out bytes.Buffer
	client, err := bootstrap.BuildClient(cfg, shell.Options{In: strings.NewReader("secret1\n"), Out: &out}, zerolog.Nop())
	require.NoError(t, err)
	app := client.App

	require.NoError(t, app.RunCommand(ctx, "register ada ada@campus.edu"))
	assert.Contains(t, out.String(), "Registration successful! Please login.")

	require.NoError(t, app.RunCommand(ctx, "login ada@campus.edu secret1"))
	assert.Contains(t, out.String(), "Hi, ada (student)")

	out.Reset()
	require.NoError(t, app.RunCommand(ctx, "open /admin"))
	assert.Contains(t, out.String(), "403 Access Denied")

	out.Reset()
	require.NoError(t, app.RunCommand(ctx, "open /courses"))
	require.NoError(t, app.RunCommand(ctx, "enroll 1"))
	assert.Contains(t, out.String(), "Enrolled successfully!")

	out.Reset()
	assert.Error(t, app.RunCommand(ctx, "enroll 1"))
	assert.Contains(t, out.String(), "Error: Already enrolled in this course")
}

func TestClient_PortalOwnsInputLimits(t *testing.T) {
	ctx := context.Background()

	api, store := newClient(t, startStub(t), "")

	err := store.Register(ctx, dto.RegisterRequest{Username: "bob", Email: "bob@campus.edu", Password: "abc12"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr, "rejected by the portal, not locally")
	assert.Equal(t, "password must be at least 6 characters", apperrors.UserMessage(err, "Registration failed"))

	_, err = store.Login(ctx, "admin", "pw")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apperrors.UserMessage(err, "Login failed"))

	_, err = store.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	v := views.NewAdminView(api, zerolog.Nop())
	require.NoError(t, v.Mount(ctx))
	defer v.Unmount()
	before := v.Courses.Get()

	err = v.CreateCourse(ctx, models.CourseInput{CourseCode: "PHY101", CourseName: "Physics I", Credits: 31})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "credits must be at most 30", apperrors.UserMessage(err, "Failed to create course"))
	assert.Equal(t, before, v.Courses.Get())
}
