package module

import (
	"club-activity-system/internal/module/activity"
	"club-activity-system/internal/module/club"
	"club-activity-system/internal/module/enrollment"
	"club-activity-system/internal/module/notification"
	"club-activity-system/internal/module/ping"
	"club-activity-system/internal/module/stats"
	"club-activity-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&user.ModuleUser{},
		&club.ModuleClub{},
		&activity.ModuleActivity{},
		&enrollment.ModuleEnrollment{},
		&notification.ModuleNotification{},
		&stats.ModuleStats{},
	})
}
