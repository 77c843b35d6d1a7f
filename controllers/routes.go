package controllers

import (
	"net/http"

	"Daybook/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middlewares.TokenAuthMiddleware(s.DB)

	v1 := s.Router.Group("/api/v1")
	{
		// Auth routes
		v1.POST("/login", middlewares.AuthRateLimitMiddleware(), s.Login)
		v1.POST("/password/forgot", middlewares.AuthRateLimitMiddleware(), s.ForgotPassword)
		v1.POST("/password/reset", middlewares.AuthRateLimitMiddleware(), s.ResetPassword)

		// Users routes
		v1.POST("/users", s.CreateUser)
		v1.GET("/users", s.GetUsers)
		v1.GET("/users/me", auth, s.GetMe)
		v1.GET("/users/search", s.SearchUsers)
		v1.GET("/users/:id", s.GetUser)
		v1.PUT("/users/:id", auth, s.UpdateUser)
		v1.PUT("/users/:id/avatar", auth, s.UpdateAvatar)
		v1.DELETE("/users/:id", auth, s.DeleteUser)
		v1.GET("/users/:id/posts", s.GetUserPosts)

		// Follow routes
		v1.POST("/users/:id/follow", auth, s.FollowUser)
		v1.DELETE("/users/:id/follow", auth, s.UnfollowUser)
		v1.GET("/users/:id/followers", s.GetFollowers)
		v1.GET("/users/:id/following", s.GetFollowing)
		v1.GET("/users/:id/relationship", auth, s.GetRelationship)

		// Post routes
		v1.POST("/posts", auth, s.CreatePost)
		v1.GET("/posts", s.GetPosts)
		v1.GET("/posts/feed", auth, s.GetFeed)
		v1.GET("/posts/:id", s.GetPost)
		v1.PUT("/posts/:id", auth, s.UpdatePost)
		v1.DELETE("/posts/:id", auth, s.DeletePost)

		// Like routes
		v1.POST("/posts/:id/like", auth, s.LikePost)
		v1.DELETE("/posts/:id/like", auth, s.UnlikePost)
		v1.GET("/posts/:id/likes", s.GetPostLikes)

		// Comment routes
		v1.POST("/posts/:id/comments", auth, s.CreateComment)
		v1.GET("/posts/:id/comments", s.GetComments)
		v1.GET("/comments/:id/replies", s.GetReplies)
		v1.PUT("/comments/:id", auth, s.UpdateComment)
		v1.DELETE("/comments/:id", auth, s.DeleteComment)

		// Notification routes
		v1.POST("/notifications", auth, s.CreateNotification)
		v1.GET("/notifications", auth, s.GetNotifications)
		v1.PATCH("/notifications/:id/read", auth, s.MarkNotificationRead)

		// Admin routes
		v1.DELETE("/admin/posts/:id", auth, middlewares.AdminOnlyMiddleware(), s.AdminDeletePost)
	}
}
