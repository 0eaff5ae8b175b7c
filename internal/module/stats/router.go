package stats

import (
	"club-activity-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleStats) InitRouter(r *gin.RouterGroup) {
	statsGroup := r.Group("/stats")
	statsGroup.Use(middleware.Auth())
	{
		statsGroup.GET("/activity/:id/brief", ActivityBrief)
		statsGroup.GET("/activity/:id/export", ExportParticipants)
		statsGroup.GET("/points/me", MyPoints)
		statsGroup.GET("/points/rank", PointsRank)
	}
}
