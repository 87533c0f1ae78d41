// Package guard decides whether a navigation may render its view.
package guard

import (

	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/session"
)

// Kind is the outcome of a guard check.
type Kind int

const (
	Allow Kind = iota
	ShowLoading
	RedirectLogin
	Deny
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case ShowLoading:
		return "show-loading"
	case RedirectLogin:
		return "redirect-login"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// LoginPath is where unauthenticated navigations are sent.
const LoginPath = "/login"

// Decision is what the caller should render. Location is set for RedirectLogin.
type Decision struct {
	Kind     Kind
	Location string
}

// Decide checks a session snapshot against the roles a view requires. An empty
// required list admits any authenticated user. The result depends only on the
// arguments.
func Decide(state session.State, required []models.Role) Decision {
	switch state.Status {
	case session.StatusLoading:
		return Decision{Kind: ShowLoading}
	case session.StatusAuthenticated:
		if state.Identity == nil {
			return Decision{Kind: RedirectLogin, Location: LoginPath}
		}
	default:
		return Decision{Kind: RedirectLogin, Location: LoginPath}
	}

	if len(required) > 0 && !state.Identity.HasRole(required...) {
		return Decision{Kind: Deny}
	}
	return Decision{Kind: Allow}
}

// Check applies Decide to a route. Public routes are always allowed.
func Check(state session.State, r Route) Decision {
	if r.Public {
		return Decision{Kind: Allow}
	}
	return Decide(state, r.Roles)
}
