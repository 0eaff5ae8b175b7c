package enrollment

import (
	"club-activity-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleEnrollment) InitRouter(r *gin.RouterGroup) {
	enrollmentGroup := r.Group("/enrollment")
	enrollmentGroup.Use(middleware.Auth())
	{
		enrollmentGroup.POST("/signup/:id", SignUp)
		enrollmentGroup.POST("/withdraw/:id", Withdraw)
		enrollmentGroup.GET("/status/:id", Status)
		enrollmentGroup.GET("/my", MyEnrollments)

		// 参与者名单仅活动所属社团负责人或管理员可见
		enrollmentGroup.GET("/list/:id", ListParticipants)
	}
}
