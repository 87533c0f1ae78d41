// Package shell is the interactive portal client. Every navigation goes
// through the guard; only allowed views are mounted and fetch data.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/guard"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/session"
	"github.com/yigit/campushub/internal/views"
)

// API is everything the shell needs from the portal client.
type API interface {
	session.API
	views.EnrollmentAPI
	views.AdminAPI
}

// Options configures an App.
type Options struct {
	In  io.Reader
	Out io.Writer
	// Prompt prints a prompt before each command, for terminals.
	Prompt bool
	// ReadPassword reads a secret without echo. When nil the next input line is used.
	ReadPassword func(prompt string) (string, error)
}

// App is one interactive session against the portal.
type App struct {
	api   API
	store *session.Store
	log   zerolog.Logger

	in           *bufio.Scanner
	out          io.Writer
	prompt       bool
	readPassword func(prompt string) (string, error)

	route      guard.Route
	enrollment *views.EnrollmentView
	admin      *views.AdminView
}

var errQuit = errors.New("quit")

// New creates an App. The store must be backed by api.
func New(api API, store *session.Store, opts Options, log zerolog.Logger) *App {
	a := &App{
		api:          api,
		store:        store,
		log:          log.With().Str("component", "shell").Logger(),
		in:           bufio.NewScanner(opts.In),
		out:          opts.Out,
		prompt:       opts.Prompt,
		readPassword: opts.ReadPassword,
	}
	if a.out == nil {
		a.out = io.Discard
	}
	return a
}

// Run probes the session in the background, opens the start page and then
// executes commands until the input ends or the user quits.
func (a *App) Run(ctx context.Context) error {
	go a.store.Probe(ctx)

	if err := a.Navigate(ctx, "/"); err != nil {
		return err
	}

	for {
		if a.prompt {
			fmt.Fprintf(a.out, "%s> ", a.route.Path)
		}
		line, ok := a.readLine()
		if !ok {
			return a.in.Err()
		}

		err := a.Exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

// RunCommand settles the session and runs a single command line.
func (a *App) RunCommand(ctx context.Context, line string) error {
	a.store.Probe(ctx)
	err := a.Exec(ctx, line)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// RunArgs is RunCommand for arguments that were already split by the caller's shell.
// Commands that work on a page open it first, so "enroll 3" works on its own.
func (a *App) RunArgs(ctx context.Context, args []string) error {
	a.store.Probe(ctx)
	if err := a.openFor(ctx, args); err != nil {
		return err
	}
	err := a.execArgs(ctx, args)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// openFor navigates to the page a command works on. The guard still decides:
// when the page is refused the navigation outcome has been shown and an error is returned.
func (a *App) openFor(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[strings.ToLower(args[0])]
	if !ok || cmd.view == "" {
		return nil
	}
	if err := a.Navigate(ctx, cmd.view); err != nil {
		return err
	}
	if a.enrollment == nil && a.admin == nil {
		return fmt.Errorf("%s: cannot open %s", cmd.name, cmd.view)
	}
	return nil
}

// Exec runs one command line. Failures have already been reported to the user
// when an error is returned.
func (a *App) Exec(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %s\n", err)
		return err
	}
	return a.execArgs(ctx, args)
}

func (a *App) execArgs(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}

	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		err := fmt.Errorf("unknown command %q", name)
		fmt.Fprintf(a.out, "Error: %s. Type \"help\" for a list of commands.\n", err)
		return err
	}
	if len(args)-1 < cmd.minArgs {
		err := fmt.Errorf("usage: %s", cmd.usage)
		fmt.Fprintf(a.out, "Usage: %s\n", cmd.usage)
		return err
	}

	a.log.Debug().Str("command", name).Msg("exec")
	return cmd.run(ctx, a, args[1:])
}

// Navigate resolves path through the guard and renders the outcome.
func (a *App) Navigate(ctx context.Context, path string) error {
	route, d := guard.Resolve(a.store.State(), path)

	if d.Kind == guard.ShowLoading {
		fmt.Fprintln(a.out, "Loading session...")
		select {
		case <-a.store.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
		route, d = guard.Resolve(a.store.State(), path)
	}

	a.log.Debug().Str("path", path).Stringer("decision", d.Kind).Msg("navigate")

	switch d.Kind {
	case guard.Allow:
		return a.show(ctx, route)
	case guard.RedirectLogin:
		return a.show(ctx, guard.Lookup(d.Location))
	case guard.Deny:
		a.unmount()
		a.route = route
		a.renderNavbar()
		renderAccessDenied(a.out)
		return nil
	default:
		return fmt.Errorf("unexpected guard decision %s", d.Kind)
	}
}

// Route returns the route currently shown.
func (a *App) Route() guard.Route {
	return a.route
}

func (a *App) show(ctx context.Context, route guard.Route) error {
	a.unmount()
	a.route = route

	switch route.View {
	case guard.ViewLogin:
		renderLogin(a.out)
		return nil
	case guard.ViewDashboard:
		a.renderNavbar()
		st := a.store.State()
		if st.Identity != nil {
			renderDashboard(a.out, *st.Identity)
		}
		return nil
	case guard.ViewEnrollment:
		a.enrollment = views.NewEnrollmentView(a.api, a.log)
		return a.mount(ctx, a.enrollment.Syncer)
	case guard.ViewAdmin:
		a.admin = views.NewAdminView(a.api, a.log)
		return a.mount(ctx, a.admin.Syncer)
	default:
		return fmt.Errorf("no view for %s", route.Path)
	}
}

func (a *App) mount(ctx context.Context, s *views.Syncer) error {
	a.renderNavbar()
	fmt.Fprintln(a.out, "Loading...")
	if err := s.Mount(ctx); err != nil {
		a.log.Warn().Err(err).Str("path", a.route.Path).Msg("failed to fetch data")
		fmt.Fprintf(a.out, "Error: %s\n", apperrors.UserMessage(err, "Failed to fetch data"))
	}
	a.renderView()
	return nil
}

func (a *App) unmount() {
	if a.enrollment != nil {
		a.enrollment.Unmount()
		a.enrollment = nil
	}
	if a.admin != nil {
		a.admin.Unmount()
		a.admin = nil
	}
}

func (a *App) renderView() {
	switch {
	case a.enrollment != nil:
		if !a.enrollment.Courses.Loaded() {
			renderNotLoaded(a.out)
			return
		}
		renderEnrollment(a.out, a.enrollment.Courses.Get(), a.enrollment.Enrollments.Get())
	case a.admin != nil:
		if !a.admin.AuditLogs.Loaded() {
			renderNotLoaded(a.out)
			return
		}
		renderAdmin(a.out, a.admin.AuditLogs.Get(), a.admin.Courses.Get())
	}
}

func (a *App) renderNavbar() {
	st := a.store.State()
	if st.Identity == nil {
		return
	}
	renderNavbar(a.out, *st.Identity, guard.NavLinks(*st.Identity))
}

// fail reports err to the user, preferring the server's message over fallback.
func (a *App) fail(err error, fallback string) error {
	fmt.Fprintf(a.out, "Error: %s\n", apperrors.UserMessage(err, fallback))
	return err
}

func (a *App) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *App) secret(prompt string) (string, error) {
	if a.readPassword != nil {
		return a.readPassword(prompt)
	}
	fmt.Fprint(a.out, prompt)
	line, ok := a.readLine()
	if !ok {
		return "", io.ErrUnexpectedEOF
	}
	return line, nil
}

// confirm asks a yes/no question on the command input.
func (a *App) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	line, ok := a.readLine()
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
