package shell

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/guard"
)

func renderNavbar(w io.Writer, id models.Identity, links []guard.Link) {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf("%s (%s)", l.Label, l.Path))
	}
	fmt.Fprintf(w, "CampusHub | %s | Hi, %s (%s)\n", strings.Join(parts, " | "), id.DisplayName(), id.Role)
}

func renderLogin(w io.Writer) {
	fmt.Fprintln(w, "== Login ==")
	fmt.Fprintln(w, "  login <email>                          sign in")
	fmt.Fprintln(w, "  register <username> <email> [role]     need an account? register")
}

func renderDashboard(w io.Writer, id models.Identity) {
	fmt.Fprintf(w, "Welcome, %s!\n", id.DisplayName())
	fmt.Fprintf(w, "Role: %s\n", strings.ToUpper(string(id.Role)))
	fmt.Fprintln(w, "Select a module from the navigation bar to get started.")
}

func renderAccessDenied(w io.Writer) {
	fmt.Fprintln(w, "403 Access Denied")
	fmt.Fprintln(w, "You do not have permission to view this page.")
}

func renderNotLoaded(w io.Writer) {
	fmt.Fprintln(w, `Nothing loaded yet. Type "refresh" to try again.`)
}

func renderEnrollment(w io.Writer, courses []models.Course, enrollments []models.Enrollment) {
	fmt.Fprintln(w, "== Available Courses ==")
	if len(courses) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, c := range courses {
		fmt.Fprintf(w, "  [%d] %s: %s (Credits: %d)\n", c.ID, c.CourseCode, c.CourseName, c.Credits)
		if c.Description != "" {
			fmt.Fprintf(w, "      %s\n", c.Description)
		}
	}

	fmt.Fprintln(w, "== My Enrollments ==")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOURSE\tSTATUS\tDATE")
	for _, e := range enrollments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.CourseName(), e.Status, e.EnrollmentDate)
	}
	tw.Flush()
}

func renderAdmin(w io.Writer, logs []models.AuditLogEntry, courses []models.Course) {
	fmt.Fprintln(w, "== Admin Panel ==")
	fmt.Fprintln(w, "System Audit Logs")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tTABLE\tDESCRIPTION")
	for _, l := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Timestamp, l.Action, l.Table, l.Description)
	}
	tw.Flush()

	fmt.Fprintln(w, "Courses")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tCREDITS")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", c.ID, c.CourseCode, c.CourseName, c.Credits)
	}
	tw.Flush()
}

func renderHelp(w io.Writer, cmds []command) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, c := range cmds {
		fmt.Fprintf(tw, "  %s\t%s\n", c.usage, c.help)
	}
	tw.Flush()
}
