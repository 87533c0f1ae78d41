// Package session owns the single process-wide session state.
//
// Store is the only writer. Everything else reads immutable State snapshots.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/pkg/validation"
)

// Status is the lifecycle phase of the session.
type Status int

const (
	// StatusLoading means the start-up probe has not answered yet.
	StatusLoading Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session. Identity is set only when Status is StatusAuthenticated.
type State struct {
	Status   Status
	Identity *models.Identity
}

// Authenticated reports whether the snapshot carries an identity.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

func loading() State         { return State{Status: StatusLoading} }
func unauthenticated() State { return State{Status: StatusUnauthenticated} }

func authenticated(id models.Identity) State {
	return State{Status: StatusAuthenticated, Identity: &id}
}

// API is the part of the portal client the store needs.
type API interface {
	Me(ctx context.Context) (*dto.SessionResponse, error)
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Register(ctx context.Context, req dto.RegisterRequest) error
	Logout(ctx context.Context) error
}

// Store holds the session state. It is safe for concurrent use.
type Store struct {
	api API
	log zerolog.Logger

	mu    sync.RWMutex
	state State

	probeOnce sync.Once
	ready     chan struct{}
}

// NewStore returns a store in StatusLoading.
func NewStore(api API, log zerolog.Logger) *Store {
	return &Store{
		api:   api,
		log:   log.With().Str("component", "session").Logger(),
		state: loading(),
		ready: make(chan struct{}),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Identity != nil {
		id := *st.Identity
		st.Identity = &id
	}
	return st
}

// Ready is closed once the start-up probe has settled the state.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Probe asks the portal whether a session already exists. Only the first call
// talks to the portal; later calls wait for it and return the current state.
// A failed probe is expected for anonymous users and is only logged.
func (s *Store) Probe(ctx context.Context) State {
	s.probeOnce.Do(func() {
		defer close(s.ready)

		next := unauthenticated()
		resp, err := s.api.Me(ctx)
		switch {
		case err != nil:
			s.log.Info().Err(err).Msg("no active session")
		case resp.Authenticated && resp.User != nil:
			next = authenticated(*resp.User)
		default:
			s.log.Info().Msg("portal reports no active session")
		}

		s.mu.Lock()
		// A login that finished while the probe was in flight wins.
		if s.state.Status == StatusLoading {
			s.state = next
		}
		s.mu.Unlock()

		s.log.Debug().Stringer("status", next.Status).Msg("session probe finished")
	})
	return s.State()
}

// Login signs in and, on success, stores the identity returned by the portal.
// On failure the state is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) (models.Identity, error) {
	req := dto.LoginRequest{Email: email, Password: password}
	if err := validation.Struct(req); err != nil {
		return models.Identity{}, err
	}

	id, err := s.api.Login(ctx, req.Email, req.Password)
	if err != nil {
		s.log.Info().Err(err).Str("email", email).Msg("login failed")
		return models.Identity{}, err
	}

	s.set(authenticated(*id))
	s.log.Info().Str("username", id.Username).Str("role", string(id.Role)).Msg("logged in")
	return *id, nil
}

// Register creates an account. The session state is not touched: the new user
// still has to log in.
func (s *Store) Register(ctx context.Context, req dto.RegisterRequest) error {
	req.ApplyDefaults()
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := s.api.Register(ctx, req); err != nil {
		s.log.Info().Err(err).Str("email", req.Email).Msg("registration failed")
		return err
	}
	return nil
}

// Logout ends the session. The state becomes StatusUnauthenticated even when the
// portal call fails; the error is returned so the caller can report it.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.set(unauthenticated())
	if err != nil {
		s.log.Warn().Err(err).Msg("logout request failed")
		return err
	}
	s.log.Info().Msg("logged out")
	return nil
}

// HandleUnauthorized is the auth-failure signal from the API client. An
// authenticated session is dropped; the guard acts on it at the next navigation.
func (s *Store) HandleUnauthorized() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusAuthenticated {
		return
	}
	s.state = unauthenticated()
	s.log.Info().Msg("session expired")
}

func (s *Store) set(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
