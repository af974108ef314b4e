package routes

import (
	"github.com/gin-gonic/gin"

	"journal-api/controllers"
	"journal-api/middleware"
	"journal-api/models"
	"journal-api/monitor"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)
			public.POST("/register", controllers.Register)

			// QR verification landing
			public.GET("/articles/:id/verify", controllers.VerifyArticle)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, monitor.Snapshot())
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetMyNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)
			protected.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead)

			// Manuscripts
			researches := protected.Group("/researches")
			{
				researches.GET("", controllers.GetResearches)
				researches.GET("/:id", controllers.GetResearchByID)

				// Researchers submit; editors/admins decide
				researches.POST("", middleware.RequireRole(models.RoleResearcher), controllers.SubmitResearch)
				researches.POST("/:id/file", controllers.UploadResearchFile)
				researches.PUT("/:id/status", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.UpdateResearchStatus)
				researches.DELETE("/:id", controllers.DeleteResearch)

				// Reviewer assignments
				researches.POST("/:id/reviewers", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.AssignReviewer)
				researches.GET("/:id/reviewers", controllers.GetResearchAssignments)

				// Reviews
				researches.POST("/:id/reviews", middleware.RequireRole(models.RoleReviewer), controllers.SubmitReview)
				researches.GET("/:id/reviews", controllers.GetResearchReviews)
				researches.GET("/:id/reviews/stats", controllers.GetReviewStats)

				// Revisions
				researches.POST("/:id/revisions", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.CreateRevision)
				researches.GET("/:id/revisions", controllers.GetResearchRevisions)
			}

			// Assignment status (reviewer accept/decline, editor force)
			protected.PUT("/assignments/:id/status", controllers.UpdateAssignmentStatus)
			protected.GET("/reviewers/:id/stats", controllers.GetReviewerStats)

			// Reviews
			reviews := protected.Group("/reviews")
			{
				reviews.PUT("/:id", controllers.UpdateReview)
				reviews.POST("/:id/file", middleware.RequireRole(models.RoleReviewer), controllers.UploadReviewFile)
				reviews.POST("/:id/restore-original", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.RestoreOriginalFile)
			}

			// Revisions
			revisions := protected.Group("/revisions")
			{
				revisions.POST("/:id/file", controllers.UploadRevisionFile)
				revisions.PUT("/:id/approve", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.ApproveRevision)
				revisions.PUT("/:id/reject", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.RejectRevision)
				revisions.DELETE("/:id", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.DeleteRevision)
			}

			// Issues
			issues := protected.Group("/issues")
			issues.Use(middleware.RequireRole(models.RoleEditor, models.RoleAdmin))
			{
				issues.POST("", controllers.CreateIssue)
				issues.GET("", controllers.GetIssues)
				issues.GET("/:id", controllers.GetIssueByID)
				issues.PUT("/:id", controllers.UpdateIssue)
				issues.POST("/:id/publish", controllers.PublishIssue)
				issues.DELETE("/:id", controllers.DeleteIssue)
			}

			// Articles
			articles := protected.Group("/articles")
			{
				articles.GET("", controllers.GetArticles)
				articles.GET("/:id", controllers.GetArticleByID)
				articles.POST("", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.CreateArticle)
				articles.PUT("/:id", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.UpdateArticle)
				articles.DELETE("/:id", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.DeleteArticle)
			}

			// Dashboard
			protected.GET("/dashboard/stats", middleware.RequireRole(models.RoleEditor, models.RoleAdmin), controllers.GetDashboardStats)
		}
	}
}
