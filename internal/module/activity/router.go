package activity

import (
	"club-activity-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	activityGroup := r.Group("/activity")
	{
		// 活动浏览公开
		activityGroup.GET("/list", ListActivities)
		activityGroup.GET("/get/:id", GetActivity)
	}

	authGroup := activityGroup.Group("")
	authGroup.Use(middleware.Auth())
	{
		authGroup.GET("/my", MyActivities)

		// 创建与编辑在 handler 内校验社团负责人身份
		authGroup.POST("/create", CreateActivity)
		authGroup.PUT("/update/:id", UpdateActivity)

		// 审核工作流在 handler 内校验管理员身份
		reviewGroup := authGroup.Group("/review/:id")
		{
			reviewGroup.POST("/approve", ApproveActivity)
			reviewGroup.POST("/reject", RejectActivity)
			reviewGroup.POST("/complete", CompleteActivity)
			reviewGroup.POST("/cancel", CancelActivity)
		}
	}
}
