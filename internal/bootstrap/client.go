package bootstrap

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/campushub/internal/config"
	"github.com/yigit/campushub/internal/portal"
	"github.com/yigit/campushub/internal/session"
	"github.com/yigit/campushub/internal/shell"
)

// Client holds the wired campushub client
type Client struct {
	Portal *portal.Client
	Store  *session.Store
	App    *shell.App
}

// BuildClient wires the API client, the session store and the shell.
// A saved session credential is loaded so the startup probe can find it.
func BuildClient(cfg *config.Config, opts shell.Options, lgr zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	jar, err := portal.NewCredentialJar(cfg.Client.BaseURL, cfg.Client.SessionFile, lgr.With().Str("component", "credentials").Logger())
	if err != nil {
		return nil, err
	}
	if err := jar.Load(); err != nil {
		lgr.Warn().Err(err).Str("path", cfg.Client.SessionFile).Msg("Ignoring unreadable session file")
	}

	api, err := portal.New(portal.Options{
		BaseURL:     cfg.Client.BaseURL,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.Client.UserAgent,
		Credentials: jar,
	}, lgr.With().Str("component", "portal").Logger())
	if err != nil {
		return nil, err
	}

	store := session.NewStore(api, lgr.With().Str("component", "session").Logger())
	api.OnUnauthorized(store.HandleUnauthorized)

	app := shell.New(api, store, opts, lgr.With().Str("component", "shell").Logger())

	return &Client{Portal: api, Store: store, App: app}, nil
}
