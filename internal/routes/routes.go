package routes

import (
	"socialty-api/internal/handlers"
	"socialty-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(uploadDir string) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204) // This depends on the implementation of the frontend
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Server Socialty API is running in Health Check Endpoint",
		})
	})

	// Uploaded media is served straight from disk
	if uploadDir != "" {
		ginRouter.Static("/uploads", uploadDir)
	}

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/auth/signup", handlers.Signup)
		api.POST("/auth/login", handlers.Login)
		api.POST("/auth/logout", handlers.Logout)
		api.POST("/auth/forgot-password", handlers.ForgotPassword)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// User and follow-graph endpoints
		protectedRoutes.GET("/users", handlers.GetAllUsers)
		protectedRoutes.GET("/users/sidebar", handlers.GetUsersForSidebar)
		protectedRoutes.GET("/users/follow-requests", handlers.GetFollowRequests)
		protectedRoutes.DELETE("/users/me", handlers.DeleteAccount)
		protectedRoutes.GET("/users/:id", handlers.GetUserProfile)
		protectedRoutes.PUT("/users/:id", handlers.EditProfile)
		protectedRoutes.POST("/users/:id/follow-request", handlers.SendFollowRequest)
		protectedRoutes.POST("/users/:id/follow-request/accept", handlers.AcceptFollowRequest)
		protectedRoutes.POST("/users/:id/follow-request/reject", handlers.RejectFollowRequest)
		protectedRoutes.POST("/users/:id/unfollow", handlers.UnfollowUser)
		protectedRoutes.GET("/users/:id/follow-status", handlers.CheckFollowStatus)
		protectedRoutes.POST("/users/:id/block", handlers.BlockUser)
		protectedRoutes.GET("/users/:id/blocked", handlers.IsUserBlocked)

		// Post endpoints
		protectedRoutes.POST("/posts", handlers.CreatePost)
		protectedRoutes.GET("/posts", handlers.GetPosts)
		protectedRoutes.GET("/posts/user/:id", handlers.GetUserPosts)
		protectedRoutes.POST("/posts/:id/like", handlers.LikePost)
		protectedRoutes.POST("/posts/:id/comment", handlers.CommentPost)
		protectedRoutes.DELETE("/posts/:id", handlers.DeletePost)

		// Message endpoints
		protectedRoutes.POST("/messages/send/:id", handlers.SendMessage)
		protectedRoutes.GET("/messages/:id", handlers.GetMessages)
		protectedRoutes.GET("/messages/:id/last", handlers.GetLastMessage)
		protectedRoutes.POST("/messages/:id/like", handlers.LikeMessage)
		protectedRoutes.DELETE("/messages/:id", handlers.DeleteMessage)

		// Game endpoints
		protectedRoutes.POST("/games/request/:id", handlers.SendGameRequest)
		protectedRoutes.GET("/games/pending", handlers.GetPendingGameRequests)
		protectedRoutes.GET("/games/status/:id", handlers.CheckGameRequestStatus)
		protectedRoutes.POST("/games/:id/accept", handlers.AcceptGameRequest)
		protectedRoutes.POST("/games/:id/reject", handlers.RejectGameRequest)
		protectedRoutes.POST("/games/:id/mark", handlers.MarkCell)
		protectedRoutes.POST("/games/:id/stop", handlers.StopGame)

		// Realtime socket endpoint
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
