package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, UserAgent: "campushub-test"}, zerolog.Nop())
	require.NoError(t, err)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New(Options{BaseURL: "localhost:5000"}, zerolog.Nop())
	require.Error(t, err)
}

func TestClient_LoginThenCredentialIsAttached(t *testing.T) {
	t.Parallel()

	var sawCookie atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@campus.edu", body["email"])
		assert.Equal(t, "secret1", body["password"])

		http.SetCookie(w, &http.Cookie{Name: "campushub_session", Value: "tok", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"user":    map[string]any{"id": 3, "username": "ada", "email": "ada@campus.edu", "role": "student"},
		})
	})
	mux.HandleFunc("GET /student/courses", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("campushub_session")
		if err == nil && c.Value == "tok" {
			sawCookie.Store(true)
		}
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Equal(t, "campushub-test", r.Header.Get("User-Agent"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "course_code": "CS101", "course_name": "Intro", "credits": 3}})
	})

	c, _ := newTestClient(t, mux)

	id, err := c.Login(context.Background(), "ada@campus.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ada", id.Username)
	assert.Equal(t, models.RoleStudent, id.Role)
	assert.False(t, c.Credentials().Empty())

	courses, err := c.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].CourseCode)
	assert.True(t, sawCookie.Load())
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantMessage string
	}{
		{"conflict with message", http.StatusConflict, `{"error":"Already enrolled"}`, apperrors.ErrConflict, "Already enrolled"},
		{"bad request with message", http.StatusBadRequest, `{"error":"Already enrolled in this course"}`, apperrors.ErrValidationFailed, "Already enrolled in this course"},
		{"forbidden without body", http.StatusForbidden, ``, apperrors.ErrPermissionDenied, "Enrollment failed"},
		{"server error hides message", http.StatusInternalServerError, `{"error":"pq: relation missing"}`, apperrors.ErrUnexpected, "Enrollment failed"},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, apperrors.ErrUnexpected, "Enrollment failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := c.Enroll(context.Background(), 7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var apiErr *apperrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apperrors.UserMessage(err, "Enrollment failed"))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c, err := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.ListCourses(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Equal(t, "An error occurred", apperrors.UserMessage(err, "An error occurred"))
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))

	_, err := c.ListMyEnrollments(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnexpected)
}

func TestClient_EmptyBodyAllowedWithoutDestination(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/courses", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in models.CourseInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "CS101", in.CourseCode)
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.CreateCourse(context.Background(), models.CourseInput{CourseCode: "CS101", CourseName: "Intro", Credits: 3})
	require.NoError(t, err)
}

func TestClient_NullListBecomesEmpty(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))

	entries, err := c.ListAuditLogs(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestClient_RequestPaths(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Method + " " + r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	ctx := context.Background()

	require.NoError(t, c.Drop(ctx, 12))
	assert.Equal(t, "DELETE /student/drop/12", got.Load())

	require.NoError(t, c.UpdateCourse(ctx, 4, models.CourseInput{CourseCode: "CS1", CourseName: "A", Credits: 1}))
	assert.Equal(t, "PUT /admin/courses/4", got.Load())

	require.NoError(t, c.DeleteCourse(ctx, 4))
	assert.Equal(t, "DELETE /admin/courses/4", got.Load())

	require.NoError(t, c.Register(ctx, registerRequest()))
	assert.Equal(t, "POST /auth/register", got.Load())
}

func TestClient_BaseURLWithPathPrefix(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"authenticated": false})
	})
	mux.HandleFunc("GET /api/student/courses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized access"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api/", OnUnauthorized: func() { fired.Add(1) }}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, int32(0), fired.Load(), "auth endpoints do not signal")

	_, err = c.ListCourses(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, int32(1), fired.Load())
}

func TestClient_LogoutClearsCredentialEvenOnFailure(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "campushub_session", Value: "tok", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"username": "ada", "role": "student"}})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.yaml")
	jar, err := NewCredentialJar(srv.URL, path, zerolog.Nop())
	require.NoError(t, err)
	c, err := New(Options{BaseURL: srv.URL, Credentials: jar}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "ada@campus.edu", "secret1")
	require.NoError(t, err)
	require.FileExists(t, path)

	err = c.Logout(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnexpected))
	assert.True(t, jar.Empty())
	assert.NoFileExists(t, path)
}
