package guard

import (
	"strings"

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/session"
)

// View names the screen a route renders.
type View string

const (
	ViewLogin      View = "login"
	ViewDashboard  View = "dashboard"
	ViewEnrollment View = "courses"
	ViewAdmin      View = "admin"
)

// Route is one navigable path.
type Route struct {
	Path   string
	View   View
	Public bool
	// Roles restricts the route to these roles. Empty means any authenticated user.
	Roles []models.Role
	// RedirectTo sends the navigation elsewhere after the guard allowed it.
	RedirectTo string
}

// Routes is the navigation table.
var Routes = []Route{
	{Path: LoginPath, View: ViewLogin, Public: true},
	{Path: "/", RedirectTo: "/dashboard"},
	{Path: "/dashboard", View: ViewDashboard},
	{Path: "/courses", View: ViewEnrollment, Roles: []models.Role{models.RoleStudent}},
	{Path: "/admin", View: ViewAdmin, Roles: []models.Role{models.RoleAdmin}},
}

// Lookup returns the route registered for path. Unknown paths fall back to a
// public redirect to the login page.
func Lookup(path string) Route {
	path = normalize(path)
	for _, r := range Routes {
		if r.Path == path {
			return r
		}
	}
	return Route{Path: path, Public: true, RedirectTo: LoginPath}
}

// Resolve checks every hop of a navigation, following static redirects, and
// returns the route that ends up rendered with its decision.
func Resolve(state session.State, path string) (Route, Decision) {
	r := Lookup(path)
	for range len(Routes) + 1 {
		d := Check(state, r)
		if d.Kind != Allow || r.RedirectTo == "" {
			return r, d
		}
		r = Lookup(r.RedirectTo)
	}
	return Lookup(LoginPath), Decision{Kind: RedirectLogin, Location: LoginPath}
}

// Link is one navigation bar entry.
type Link struct {
	Label string
	Path  string
}

// NavLinks returns the navigation bar for identity.
func NavLinks(identity models.Identity) []Link {
	links := []Link{{Label: "Dashboard", Path: "/dashboard"}}
	switch identity.Role {
	case models.RoleStudent:
		links = append(links, Link{Label: "My Courses", Path: "/courses"})
	case models.RoleAdmin:
		links = append(links, Link{Label: "Admin Panel", Path: "/admin"})
	}
	return links
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
