package enrollment

import (
	"club-activity-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleEnrollment struct{}

func (m *ModuleEnrollment) GetName() string {
	return "Enrollment"
}

func (m *ModuleEnrollment) Init() {
	log = logger.New("Enrollment")
}
