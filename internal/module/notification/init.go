package notification

import (
	"club-activity-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleNotification struct{}

func (m *ModuleNotification) GetName() string {
	return "Notification"
}

func (m *ModuleNotification) Init() {
	log = logger.New("Notification")
}
