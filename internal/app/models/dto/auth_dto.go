package dto

import "github.com/yigit/campushub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents an account creation request.
// The client checks presence and the role; everything else is up to the portal.
type RegisterRequest struct {
	Username string      `json:"username" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required,oneof=student teacher admin"`
}

// ApplyDefaults fills the fields a registration form may leave out
func (r *RegisterRequest) ApplyDefaults() {
	if r.Role == "" {
		r.Role = models.RoleStudent
	}
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Message string           `json:"message,omitempty"`
	User    *models.Identity `json:"user"`
}

// SessionResponse is the answer of the "who am I" probe
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *models.Identity `json:"user,omitempty"`
}
