package user

import (
	"club-activity-system/internal/global/middleware"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")
	{
		// 注册与登录无需认证
		userGroup.POST("/register", Register)
		userGroup.POST("/login", Login)
	}

	authGroup := userGroup.Group("")
	authGroup.Use(middleware.Auth())
	{
		authGroup.POST("/logout", Logout)
		authGroup.GET("/profile", Profile)
		authGroup.PUT("/update", UpdateProfile)
	}

	adminGroup := userGroup.Group("")
	adminGroup.Use(middleware.Auth(), middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.GET("/list", ListUsers)
		adminGroup.PUT("/role", UpdateRole)
	}
}
