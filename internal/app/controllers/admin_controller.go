package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/app/services"
	"github.com/yigit/campushub/internal/middleware"
)

// AdminController serves the administration module
type AdminController struct {
	courseService *services.CourseService
	auditService  *services.AuditService
	logger        zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(courseService *services.CourseService, auditService *services.AuditService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		courseService: courseService,
		auditService:  auditService,
		logger:        logger,
	}
}

// CreateCourse adds a course to the catalog
// POST /admin/courses
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var form dto.CourseForm
	if !middleware.BindJSON(ctx, &form) {
		return
	}
	in := form.Input()

	course, err := c.courseService.Create(ctx.Request.Context(), in, middleware.Actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CourseResponse{Message: "Course created", Course: course})
}

// UpdateCourse edits a course
// PUT /admin/courses/:id
func (c *AdminController) UpdateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var form dto.CourseForm
	if !middleware.BindJSON(ctx, &form) {
		return
	}
	in := form.Input()

	course, err := c.courseService.Update(ctx.Request.Context(), id, in, middleware.Actor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CourseResponse{Message: "Course updated", Course: course})
}

// DeleteCourse removes a course together with its enrollments
// DELETE /admin/courses/:id
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), id, middleware.Actor(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Course deleted"})
}

// AuditLogs returns the latest audit entries, newest first
// GET /admin/audit-logs
func (c *AdminController) AuditLogs(ctx *gin.Context) {
	entries, err := c.auditService.Recent(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
