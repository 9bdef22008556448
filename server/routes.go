package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sinkedin/sinkedin/server/middlewares"
)

// Register mounts every route on the router. Read routes run with optional
// auth so anonymous visitors can browse, write routes require a viewer. The
// like toggle runs with optional auth on purpose: the ledger itself rejects
// anonymous toggles and its error carries the user-facing message.
func (s *Server) Register(router *gin.Engine) {
	auth := router.Group("/auth")
	auth.POST("/signup", s.handleSignUp)
	auth.POST("/signin", s.handleSignIn)
	auth.POST("/signout", middlewares.Auth(s.gateway, true), s.handleSignOut)
	auth.GET("/me", middlewares.Auth(s.gateway, true), s.handleMe)
	auth.PATCH("/profile", middlewares.Auth(s.gateway, true), s.handleUpdateProfile)
	auth.POST("/avatar", middlewares.Auth(s.gateway, true), s.handleUploadAvatar)

	stories := router.Group("/stories")
	stories.GET("", middlewares.Auth(s.gateway, false), s.handleListStories)
	stories.POST("", middlewares.Auth(s.gateway, true), s.handleCreateStory)
	stories.GET("/:id/comments", s.handleListComments)
	stories.POST("/:id/comments", middlewares.Auth(s.gateway, true), s.handleCreateComment)
	stories.POST("/:id/like", middlewares.Auth(s.gateway, false), s.handleToggleLike)

	me := router.Group("/me", middlewares.Auth(s.gateway, true))
	me.GET("/stories", s.handleMyStories)
	me.GET("/activity", s.handleMyActivity)
	me.GET("/stats", s.handleMyStats)

	router.GET("/ping", s.handlePing)
}
