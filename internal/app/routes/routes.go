package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/canberk/labdrop/internal/app/controllers"
	"github.com/canberk/labdrop/internal/app/models/dto"
	"github.com/canberk/labdrop/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	workspaceController *controllers.WorkspaceController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/password", authController.ResetPassword)

		// Workspace routes operate on the caller's own student directory
		authenticated.GET("/me", workspaceController.Home)
		authenticated.POST("/me/uploads/:slot", workspaceController.Upload)
		authenticated.DELETE("/me/uploads/:slot/:filename", workspaceController.DeleteFile)

		// Admin routes require the admin account on top of a live session
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			sections := admin.Group("/sections")
			{
				sections.GET("", adminController.ListSections)
				sections.POST("", adminController.CreateSection)
				sections.DELETE("/:name", adminController.DeleteSection)
				sections.GET("/:name/students", adminController.ListSectionStudents)
			}

			students := admin.Group("/students")
			{
				students.GET("/:identifier", adminController.GetStudentWorkspace)
				students.POST("/:identifier/password", adminController.ResetStudentPassword)
				students.DELETE("/:identifier", adminController.DeleteStudent)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
