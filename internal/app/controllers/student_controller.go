package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
	"github.com/yigit/campushub/internal/pkg/apperrors"
)

// StudentController serves the course catalog and the enrollment module
type StudentController struct {
	courseService     *services.CourseService
	enrollmentService *services.EnrollmentService
	logger            zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(courseService *services.CourseService, enrollmentService *services.EnrollmentService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// ListCourses returns the catalog
// GET /student/courses
func (c *StudentController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// Enroll registers the current student to a course
// POST /student/enroll
func (c *StudentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), req.CourseID, middleware.Actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.EnrollResponse{
		Message:    "Enrolled successfully",
		Enrollment: enrollment,
	})
}

// MyEnrollments lists the current student's enrollments
// GET /student/my-enrollments
func (c *StudentController) MyEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ForStudent(ctx.Request.Context(), middleware.Actor(ctx).UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollments)
}

// Drop removes one of the current student's enrollments
// DELETE /student/drop/:id
func (c *StudentController) Drop(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.enrollmentService.Drop(ctx.Request.Context(), id, middleware.Actor(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Course dropped successfully"})
}

// pathID parses the :id path parameter, answering 404 when it is not a positive integer
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.ErrResourceNotFound)
		return 0, false
	}
	return id, true
}
