// Package views keeps client-side copies of server lists consistent with the
// portal by re-reading them after every successful write.
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer func(prompt string) bool

// Source is a server-backed list that a Syncer can refresh.
// It is implemented by *Resource.
type Source interface {
	Name() string
	fetch(ctx context.Context) (commit func(), err error)
	bind(mu *sync.RWMutex)
}

// Syncer reads a fixed set of sources together and swaps their caches in one step.
// At most one mutation runs at a time.
type Syncer struct {
	log     zerolog.Logger
	sources []Source

	// cacheMu guards the caches of every bound source so a commit is seen whole.
	cacheMu sync.RWMutex

	mu         sync.Mutex
	generation uint64
	mounted    bool
	pending    int

	mutating atomic.Bool
}

// NewSyncer binds sources to a new syncer.
func NewSyncer(log zerolog.Logger, sources ...Source) *Syncer {
	s := &Syncer{log: log, sources: sources}
	for _, src := range sources {
		src.bind(&s.cacheMu)
	}
	return s
}

// Mount marks the view as shown and performs the initial read.
func (s *Syncer) Mount(ctx context.Context) error {
	s.mu.Lock()
	s.mounted = true
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	return s.load(ctx, gen)
}

// Refresh re-reads every source.
func (s *Syncer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return apperrors.ErrViewClosed
	}
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	return s.load(ctx, gen)
}

// Unmount marks the view as gone. Reads still in flight are discarded when they land.
func (s *Syncer) Unmount() {
	s.mu.Lock()
	s.mounted = false
	s.generation++
	s.mu.Unlock()
}

// Mounted reports whether the view is currently shown.
func (s *Syncer) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// isLoading reports whether a read is in flight.
func (s *Syncer) isLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// isMutating reports whether a mutation, including its refetch, is in flight.
func (s *Syncer) isMutating() bool {
	return s.mutating.Load()
}

// Mutate runs one write and then re-reads every source. Nothing is cached from
// the write itself. When the write fails the caches are left untouched. When the
// write succeeds but the re-read fails the error wraps apperrors.ErrRefreshFailed.
// A call made while another mutation is running returns apperrors.ErrMutationPending
// without calling fn.
func (s *Syncer) Mutate(ctx context.Context, name string, fn func(context.Context) error) error {
	if !s.mutating.CompareAndSwap(false, true) {
		return apperrors.ErrMutationPending
	}
	defer s.mutating.Store(false)

	if !s.Mounted() {
		return apperrors.ErrViewClosed
	}

	log := s.log.With().Str("mutation", name).Logger()
	if err := fn(ctx); err != nil {
		log.Debug().Err(err).Msg("mutation failed")
		return err
	}
	log.Debug().Msg("mutation applied, refreshing")

	err := s.Refresh(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrViewClosed):
		return nil
	default:
		log.Warn().Err(err).Msg("refresh after mutation failed")
		return fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, err)
	}
}

func (s *Syncer) load(ctx context.Context, gen uint64) error {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
	}()

	commits := make([]func(), len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			commit, err := src.fetch(gctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name(), err)
			}
			commits[i] = commit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		s.log.Debug().Msg("discarding read for unmounted view")
		return apperrors.ErrViewClosed
	}
	if gen != s.generation {
		s.log.Debug().Uint64("generation", gen).Msg("discarding stale read")
		return nil
	}

	s.cacheMu.Lock()
	for _, commit := range commits {
		commit()
	}
	s.cacheMu.Unlock()
	return nil
}
