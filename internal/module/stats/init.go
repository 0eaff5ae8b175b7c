package stats

import (
	"club-activity-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleStats struct{}

func (m *ModuleStats) GetName() string {
	return "Stats"
}

func (m *ModuleStats) Init() {
	log = logger.New("Stats")
}
