package models

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

// Enrollment captures a student's registration to a course.
// EnrollmentDate is kept in the server's date format (YYYY-MM-DD).
type Enrollment struct {
	ID             int64            `json:"id" db:"id"`
	StudentID      int64            `json:"student_id" db:"student_id"`
	CourseID       int64            `json:"course_id" db:"course_id"`
	Status         EnrollmentStatus `json:"status" db:"status"`
	EnrollmentDate string           `json:"enrollment_date" db:"enrollment_date"`
	Course         *Course          `json:"course"`
}

// CourseName returns the enrolled course's name, or an empty string when the
// course has been removed from the catalog.
func (e Enrollment) CourseName() string {
	if e.Course == nil {
		return ""
	}
	return e.Course.CourseName
}
