package model

// 报名状态：退出报名只翻转状态不删记录，保留历史
const (
	EnrollmentStateActive    = 1 // 已报名
	EnrollmentStateWithdrawn = 2 // 已退出
)

type Enrollment struct {
	Model
	UserID     string `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_activity" json:"user_id"` // 报名人学号
	ActivityID uint   `gorm:"not null;uniqueIndex:idx_user_activity;index" json:"activity_id"`        // 活动ID
	State      int    `gorm:"default:1;not null" json:"state"`                                        // 报名状态

	User     User     `gorm:"foreignKey:UserID;references:StudentID" json:"user"`
	Activity Activity `gorm:"foreignKey:ActivityID;references:ID" json:"-"`
}
