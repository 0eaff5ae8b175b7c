package club

import (
	"club-activity-system/internal/global/middleware"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleClub) InitRouter(r *gin.RouterGroup) {
	clubGroup := r.Group("/club")
	{
		// 社团列表与详情公开
		clubGroup.GET("/list", ListClubs)
		clubGroup.GET("/get/:id", GetClub)
	}

	authGroup := clubGroup.Group("")
	authGroup.Use(middleware.Auth())
	{
		authGroup.PUT("/update/:id", UpdateClub)
		authGroup.GET("/my", MyClub)
	}

	adminGroup := clubGroup.Group("")
	adminGroup.Use(middleware.Auth(), middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.POST("/create", CreateClub)
		adminGroup.PUT("/reassign/:id", ReassignLeader)
		adminGroup.DELETE("/delete/:id", DeleteClub)
	}
}
