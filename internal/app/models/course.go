package models

// Course represents a catalog entry.
type Course struct {
	ID          int64  `json:"id" db:"id"`
	CourseCode  string `json:"course_code" db:"course_code"`
	CourseName  string `json:"course_name" db:"course_name"`
	Credits     int    `json:"credits" db:"credits"`
	Description string `json:"description" db:"description"`
}

// CourseInput is the payload for creating or editing a course.
// Only presence is checked locally; limits are the portal's to enforce.
type CourseInput struct {
	CourseCode  string `json:"course_code" binding:"required"`
	CourseName  string `json:"course_name" binding:"required"`
	Credits     int    `json:"credits"`
	Description string `json:"description"`
}

// Apply copies the input onto c, keeping the ID.
func (in CourseInput) Apply(c *Course) {
	c.CourseCode = in.CourseCode
	c.CourseName = in.CourseName
	c.Credits = in.Credits
	c.Description = in.Description
}

// Input returns the editable fields of c.
func (c Course) Input() CourseInput {
	return CourseInput{
		CourseCode:  c.CourseCode,
		CourseName:  c.CourseName,
		Credits:     c.Credits,
		Description: c.Description,
	}
}
