package model

// 活动审核状态机：pending → approved/rejected，approved → completed/cancelled
const (
	ActivityStatusPending   = 0 // 待审核
	ActivityStatusApproved  = 1 // 审核通过
	ActivityStatusRejected  = 2 // 审核驳回
	ActivityStatusCompleted = 3 // 已结束
	ActivityStatusCancelled = 4 // 已取消
)

type Activity struct {
	Model
	ClubID           uint   `gorm:"not null;index" json:"club_id"`               // 所属社团
	Title            string `gorm:"type:varchar(100);not null" json:"title"`     // 活动名称
	Description      string `gorm:"type:varchar(255);" json:"description"`       // 活动描述
	Location         string `gorm:"type:varchar(100);" json:"location"`          // 活动地点
	StartTime        int64  `gorm:"not null" json:"start_time"`                  // 活动开始时间（毫秒时间戳）
	EndTime          int64  `gorm:"not null" json:"end_time"`                    // 活动结束时间（毫秒时间戳）
	MaxParticipants  int    `gorm:"not null" json:"max_participants"`            // 人数上限
	Points           int    `gorm:"default:0;not null" json:"points"`            // 完成活动获得的积分
	Status           int    `gorm:"default:0;not null;index" json:"status"`      // 审核状态
	ParticipantCount int    `gorm:"default:0;not null" json:"participant_count"` // 已报名人数，与有效报名记录数保持一致
	RejectReason     string `gorm:"type:varchar(255);" json:"reject_reason"`     // 驳回原因

	Club Club `gorm:"foreignKey:ClubID;references:ID" json:"club"`
}
