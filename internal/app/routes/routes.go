package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campushub/internal/app/controllers"
	"github.com/yigit/campushub/internal/app/models"
	"github.com/yigit/campushub/internal/app/models/dto"
	"github.com/yigit/campushub/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	Student *controllers.StudentController
	Admin   *controllers.AdminController
}

// SetupRouter configures all application routes under basePath
func SetupRouter(
	router *gin.Engine,
	basePath string,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group(basePath)
	api.Use(authMiddleware.LoadSession())

	// --- Authentication ---
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", ctrl.Auth.Register)
		authGroup.POST("/login", ctrl.Auth.Login)
		authGroup.POST("/logout", ctrl.Auth.Logout)
		authGroup.GET("/me", ctrl.Auth.Me)
	}

	// --- Student course enrollment module ---
	student := api.Group("/student")
	{
		// The catalog is readable by any signed-in user.
		student.GET("/courses", authMiddleware.SessionRequired(), ctrl.Student.ListCourses)

		enrolled := student.Group("", authMiddleware.RoleRequired(models.RoleStudent))
		enrolled.POST("/enroll", ctrl.Student.Enroll)
		enrolled.GET("/my-enrollments", ctrl.Student.MyEnrollments)
		enrolled.DELETE("/drop/:id", ctrl.Student.Drop)
	}

	// --- Administration ---
	admin := api.Group("/admin", authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/courses", ctrl.Admin.CreateCourse)
		admin.PUT("/courses/:id", ctrl.Admin.UpdateCourse)
		admin.DELETE("/courses/:id", ctrl.Admin.DeleteCourse)
		admin.GET("/audit-logs", ctrl.Admin.AuditLogs)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.SuccessResponse{Message: "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Not found"})
	})
}
