package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/guard"
	"github.com/yigit/campushub/internal/pkg/apperrors"
	"github.com/yigit/campushub/internal/session"
)

type command struct {
	name    string
	usage   string
	help    string
	minArgs int
	// view is the page the command works on, opened first in one-shot mode.
	view string
	run  func(ctx context.Context, a *App, args []string) error
}

var (
	commandList []command
	commands    map[string]command
)

func init() {
	commandList = []command{
		{name: "open", usage: "open <path>", help: "navigate to /dashboard, /courses, /admin or /login", minArgs: 1, run: cmdOpen},
		{name: "login", usage: "login <email> [password]", help: "sign in", minArgs: 1, run: cmdLogin},
		{name: "register", usage: "register <username> <email> [student|teacher|admin]", help: "create an account", minArgs: 2, run: cmdRegister},
		{name: "logout", usage: "logout", help: "sign out", run: cmdLogout},
		{name: "whoami", usage: "whoami", help: "show the current session", run: cmdWhoami},
		{name: "refresh", usage: "refresh", help: "reload the current view", run: cmdRefresh},
		{name: "enroll", usage: "enroll <course-id>", help: "enroll in a course (My Courses)", minArgs: 1, view: "/courses", run: cmdEnroll},
		{name: "drop", usage: "drop <enrollment-id>", help: "drop an enrollment (My Courses)", minArgs: 1, view: "/courses", run: cmdDrop},
		{name: "new-course", usage: `new-course <code> "<name>" <credits> ["<description>"]`, help: "add a course (Admin Panel)", minArgs: 3, view: "/admin", run: cmdNewCourse},
		{name: "edit-course", usage: `edit-course <id> <code> "<name>" <credits> ["<description>"]`, help: "edit a course (Admin Panel)", minArgs: 4, view: "/admin", run: cmdEditCourse},
		{name: "delete-course", usage: "delete-course <id>", help: "delete a course (Admin Panel)", minArgs: 1, view: "/admin", run: cmdDeleteCourse},
		{name: "help", usage: "help", help: "list commands", run: cmdHelp},
		{name: "quit", usage: "quit", help: "leave the shell", run: cmdQuit},
	}

	commands = make(map[string]command, len(commandList)+1)
	for _, c := range commandList {
		commands[c.name] = c
	}
	commands["exit"] = commands["quit"]
}

func cmdOpen(ctx context.Context, a *App, args []string) error {
	return a.Navigate(ctx, args[0])
}

func cmdLogin(ctx context.Context, a *App, args []string) error {
	email := args[0]
	var password string
	if len(args) > 1 {
		password = args[1]
	} else {
		var err error
		if password, err = a.secret("Password: "); err != nil {
			return a.fail(err, "An error occurred")
		}
	}

	if _, err := a.store.Login(ctx, email, password); err != nil {
		return a.fail(err, "An error occurred")
	}
	return a.Navigate(ctx, "/dashboard")
}

func cmdRegister(ctx context.Context, a *App, args []string) error {
	req := dto.RegisterRequest{Username: args[0], Email: args[1], Role: models.RoleStudent}
	if len(args) > 2 {
		req.Role = models.Role(strings.ToLower(args[2]))
	}

	password, err := a.secret("Password: ")
	if err != nil {
		return a.fail(err, "An error occurred")
	}
	req.Password = password

	if err := a.store.Register(ctx, req); err != nil {
		return a.fail(err, "An error occurred")
	}
	fmt.Fprintln(a.out, "Registration successful! Please login.")
	return a.Navigate(ctx, guard.LoginPath)
}

func cmdLogout(ctx context.Context, a *App, _ []string) error {
	err := a.store.Logout(ctx)
	if err != nil {
		a.fail(err, "Logout failed on the server; the local session was cleared")
	}
	if navErr := a.Navigate(ctx, guard.LoginPath); navErr != nil {
		return navErr
	}
	return err
}

func cmdWhoami(_ context.Context, a *App, _ []string) error {
	st := a.store.State()
	switch {
	case st.Status == session.StatusLoading:
		fmt.Fprintln(a.out, "Loading session...")
	case st.Identity == nil:
		fmt.Fprintln(a.out, "Not logged in.")
	default:
		id := st.Identity
		if id.Email != "" {
			fmt.Fprintf(a.out, "%s <%s> (%s)\n", id.DisplayName(), id.Email, id.Role)
		} else {
			fmt.Fprintf(a.out, "%s (%s)\n", id.DisplayName(), id.Role)
		}
	}
	return nil
}

func cmdRefresh(ctx context.Context, a *App, _ []string) error {
	var err error
	switch {
	case a.enrollment != nil:
		err = a.enrollment.Refresh(ctx)
	case a.admin != nil:
		err = a.admin.Refresh(ctx)
	default:
		return a.Navigate(ctx, a.route.Path)
	}
	if err != nil {
		return a.fail(err, "Failed to fetch data")
	}
	a.renderView()
	return nil
}

func cmdEnroll(ctx context.Context, a *App, args []string) error {
	if a.enrollment == nil {
		return a.notOn("/courses")
	}
	courseID, err := parseID(args[0])
	if err != nil {
		return a.fail(err, "Enrollment failed")
	}

	if err := a.enrollment.Enroll(ctx, courseID); err != nil {
		if !errors.Is(err, apperrors.ErrRefreshFailed) {
			return a.fail(err, "Enrollment failed")
		}
		a.fail(err, "Enrollment failed")
	} else {
		fmt.Fprintln(a.out, "Enrolled successfully!")
	}
	a.renderView()
	return nil
}

func cmdDrop(ctx context.Context, a *App, args []string) error {
	if a.enrollment == nil {
		return a.notOn("/courses")
	}
	enrollmentID, err := parseID(args[0])
	if err != nil {
		return a.fail(err, "Drop failed")
	}

	err = a.enrollment.Drop(ctx, enrollmentID, a.confirm)
	switch {
	case errors.Is(err, apperrors.ErrNotConfirmed):
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	case errors.Is(err, apperrors.ErrRefreshFailed):
		a.fail(err, "Drop failed")
	case err != nil:
		return a.fail(err, "Drop failed")
	default:
		fmt.Fprintln(a.out, "Course dropped.")
	}
	a.renderView()
	return nil
}

func cmdNewCourse(ctx context.Context, a *App, args []string) error {
	if a.admin == nil {
		return a.notOn("/admin")
	}
	in, err := courseInput(args)
	if err != nil {
		return a.fail(err, "Failed to create course")
	}

	if err := a.admin.CreateCourse(ctx, in); err != nil {
		if !errors.Is(err, apperrors.ErrRefreshFailed) {
			return a.fail(err, "Failed to create course")
		}
		a.fail(err, "Failed to create course")
	} else {
		fmt.Fprintln(a.out, "Course Created!")
	}
	a.renderView()
	return nil
}

func cmdEditCourse(ctx context.Context, a *App, args []string) error {
	if a.admin == nil {
		return a.notOn("/admin")
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(err, "Failed to update course")
	}
	in, err := courseInput(args[1:])
	if err != nil {
		return a.fail(err, "Failed to update course")
	}

	if err := a.admin.UpdateCourse(ctx, id, in); err != nil {
		if !errors.Is(err, apperrors.ErrRefreshFailed) {
			return a.fail(err, "Failed to update course")
		}
		a.fail(err, "Failed to update course")
	} else {
		fmt.Fprintln(a.out, "Course updated.")
	}
	a.renderView()
	return nil
}

func cmdDeleteCourse(ctx context.Context, a *App, args []string) error {
	if a.admin == nil {
		return a.notOn("/admin")
	}
	id, err := parseID(args[0])
	if err != nil {
		return a.fail(err, "Failed to delete course")
	}

	err = a.admin.DeleteCourse(ctx, id, a.confirm)
	switch {
	case errors.Is(err, apperrors.ErrNotConfirmed):
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	case errors.Is(err, apperrors.ErrRefreshFailed):
		a.fail(err, "Failed to delete course")
	case err != nil:
		return a.fail(err, "Failed to delete course")
	default:
		fmt.Fprintln(a.out, "Course deleted.")
	}
	a.renderView()
	return nil
}

func cmdHelp(_ context.Context, a *App, _ []string) error {
	renderHelp(a.out, commandList)
	return nil
}

func cmdQuit(context.Context, *App, []string) error {
	return errQuit
}

func (a *App) notOn(path string) error {
	err := fmt.Errorf("open %s first", path)
	fmt.Fprintf(a.out, "Error: %s\n", err)
	return err
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("invalid id %q", raw))
	}
	return id, nil
}

func courseInput(args []string) (models.CourseInput, error) {
	if len(args) < 3 {
		return models.CourseInput{}, apperrors.NewBadRequestError("course code, name and credits are required")
	}
	credits, err := strconv.Atoi(args[2])
	if err != nil {
		return models.CourseInput{}, apperrors.NewBadRequestError(fmt.Sprintf("credits must be a number, got %q", args[2]))
	}
	in := models.CourseInput{
		CourseCode: args[0],
		CourseName: args[1],
		Credits:    credits,
	}
	if len(args) > 3 {
		in.Description = strings.Join(args[3:], " ")
	}
	return in, nil
}
