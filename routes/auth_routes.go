package routes

import (
	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.Engine, private *gin.RouterGroup, h Handlers) {
	// Public account routes
	r.POST("/signup", h.Users.Signup)
	r.POST("/users", h.Users.Signup)
	r.POST("/profile", h.Users.Profile)

	private.GET("/checkpassword", h.Users.CheckPassword)
	private.GET("/users/profile", h.Users.GetProfile)
	private.PUT("/users/profile", h.Users.UpdateProfile)
	private.DELETE("/users/profile", h.Users.DeleteProfile)
	private.PUT("/users/password", h.Users.ChangePassword)
	private.POST("/send-email", h.Email.SendEmail)
}
