package dto

import "github.com/yigit/campushub/internal/app/models"

// EnrollRequest asks to enroll the current student in a course
type EnrollRequest struct {
	CourseID int64 `json:"course_id" binding:"required,min=1"`
}

// EnrollResponse is returned when an enrollment was created
type EnrollResponse struct {
	Message    string             `json:"message"`
	Enrollment *models.Enrollment `json:"enrollment"`
}

// CourseResponse is returned by course create and update
type CourseResponse struct {
	Message string         `json:"message"`
	Course  *models.Course `json:"course"`
}
