package dto

import "github.com/yigit/campushub/internal/app/models"

// RegisterForm is the portal stub's binding for /auth/register
type RegisterForm struct {
	Username string      `json:"username" binding:"required,max=50"`
	Email    string      `json:"email" binding:"required,email,max=100"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"required,oneof=student teacher admin"`
}

// ApplyDefaults defaults the role to student
func (f *RegisterForm) ApplyDefaults() {
	if f.Role == "" {
		f.Role = models.RoleStudent
	}
}

// Request converts the bound form into a registration request
func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{
		Username: f.Username,
		Email:    f.Email,
		Password: f.Password,
		Role:     f.Role,
	}
}

// CourseForm is the portal stub's binding for course create and update
type CourseForm struct {
	CourseCode  string `json:"course_code" binding:"required,max=10"`
	CourseName  string `json:"course_name" binding:"required,max=100"`
	Credits     int    `json:"credits" binding:"min=1,max=30"`
	Description string `json:"description"`
}

// Input converts the bound form into a course input
func (f CourseForm) Input() models.CourseInput {
	return models.CourseInput{
		CourseCode:  f.CourseCode,
		CourseName:  f.CourseName,
		Credits:     f.Credits,
		Description: f.Description,
	}
}
