package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointsRecord 积分流水，活动结项时按有效报名逐人写入
type PointsRecord struct {
	Model
	UserID     string `gorm:"type:varchar(20);not null;index" json:"user_id"` // 获得积分的学号
	ActivityID uint   `gorm:"not null;index" json:"activity_id"`              // 来源活动
	Count      int    `gorm:"not null" json:"count"`                          // 积分数
	Cause      string `gorm:"type:varchar(255);not null" json:"cause"`        // 积分来源说明
	MarkedBy   string `gorm:"type:varchar(20);not null" json:"marked_by"`     // 操作人学号
}

// TotalPoints 每人积分总账，由流水钩子维护
type TotalPoints struct {
	Model
	UserID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"user_id"`
	Points int    `gorm:"default:0;not null" json:"points"`
}

func (p *PointsRecord) AfterCreate(tx *gorm.DB) error {
	// 总账行不存在则插入，存在则累加
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points": gorm.Expr("points + ?", p.Count),
		}),
	}).Create(&TotalPoints{UserID: p.UserID, Points: p.Count}).Error
}
