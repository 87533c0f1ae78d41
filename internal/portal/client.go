// Package portal is the HTTP client for the campus portal REST API.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Credentials holds the session credential. A memory-only jar is used when nil.
	Credentials *CredentialJar
	// OnUnauthorized is called when a non-auth endpoint answers 401.
	OnUnauthorized func()
	// Transport is the innermost RoundTripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client talks to the portal. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	creds     *CredentialJar
	userAgent string
	log       zerolog.Logger

	onUnauthorized atomic.Pointer[func()]
}

// New builds a Client whose transport runs the request id, credential, logging
// and auth signal stages in that order.
func New(opts Options, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("portal: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("portal: base url %q must be absolute", opts.BaseURL)
	}

	log = log.With().Str("component", "portal").Logger()

	creds := opts.Credentials
	if creds == nil {
		creds, err = NewCredentialJar(base.String(), "", log)
		if err != nil {
			return nil, err
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:   base,
		creds:     creds,
		userAgent: opts.UserAgent,
		log:       log,
	}
	if opts.OnUnauthorized != nil {
		c.OnUnauthorized(opts.OnUnauthorized)
	}

	c.http = &http.Client{
		Timeout: timeout,
		Transport: Chain(opts.Transport,
			RequestID(),
			Credentials(creds),
			Logging(log),
			AuthSignal(c.signalUnauthorized, c.isAuthEndpoint),
		),
	}
	return c, nil
}

// OnUnauthorized replaces the callback fired on 401 answers from non-auth endpoints.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized.Store(&fn)
}

// Credentials returns the jar holding the session credential.
func (c *Client) Credentials() *CredentialJar {
	return c.creds
}

func (c *Client) signalUnauthorized() {
	if fn := c.onUnauthorized.Load(); fn != nil && *fn != nil {
		(*fn)()
	}
}

func (c *Client) isAuthEndpoint(req *http.Request) bool {
	rel := strings.TrimPrefix(req.URL.Path, c.baseURL.Path)
	return strings.HasPrefix(rel, "/auth/")
}

// Me probes the current session. Anonymous callers get an *apperrors.APIError with status 401.
func (c *Client) Me(ctx context.Context) (*dto.SessionResponse, error) {
	var resp dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges email and password for a session and returns the server's identity.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp dto.LoginResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: login response without user", apperrors.ErrUnexpected)
	}
	return resp.User, nil
}

// Register creates an account. It does not sign the new user in.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Logout ends the session on the portal. The local credential is dropped even
// when the request fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.creds.Clear(); clearErr != nil {
		c.log.Warn().Err(clearErr).Msg("failed to clear session credential")
	}
	return err
}

// ListCourses returns the course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/student/courses", nil, &courses); err != nil {
		return nil, err
	}
	return nonNil(courses), nil
}

// ListMyEnrollments returns the current student's enrollments.
func (c *Client) ListMyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := c.do(ctx, http.MethodGet, "/student/my-enrollments", nil, &enrollments); err != nil {
		return nil, err
	}
	return nonNil(enrollments), nil
}

// Enroll enrolls the current student in courseID.
func (c *Client) Enroll(ctx context.Context, courseID int64) error {
	return c.do(ctx, http.MethodPost, "/student/enroll", dto.EnrollRequest{CourseID: courseID}, nil)
}

// Drop removes one of the current student's enrollments.
func (c *Client) Drop(ctx context.Context, enrollmentID int64) error {
	return c.do(ctx, http.MethodDelete, "/student/drop/"+strconv.FormatInt(enrollmentID, 10), nil, nil)
}

// ListAuditLogs returns the most recent audit entries.
func (c *Client) ListAuditLogs(ctx context.Context) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	if err := c.do(ctx, http.MethodGet, "/admin/audit-logs", nil, &entries); err != nil {
		return nil, err
	}
	return nonNil(entries), nil
}

// CreateCourse adds a course to the catalog.
func (c *Client) CreateCourse(ctx context.Context, in models.CourseInput) error {
	return c.do(ctx, http.MethodPost, "/admin/courses", in, nil)
}

// UpdateCourse replaces the fields of course id.
func (c *Client) UpdateCourse(ctx context.Context, id int64, in models.CourseInput) error {
	return c.do(ctx, http.MethodPut, "/admin/courses/"+strconv.FormatInt(id, 10), in, nil)
}

// DeleteCourse removes course id.
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/admin/courses/"+strconv.FormatInt(id, 10), nil, nil)
}

// do sends one request and classifies the answer. A nil out ignores the body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("portal: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("portal: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, method, path, ctxErr)
		}
		return fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %w", apperrors.ErrTransport, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
			Method:  method,
			Path:    path,
		}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("%w: %s %s: empty body", apperrors.ErrUnexpected, method, path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", apperrors.ErrUnexpected, method, path, err)
	}
	return nil
}

// errorMessage extracts the "error" field of a failure body, if any.
func errorMessage(raw []byte) string {
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
