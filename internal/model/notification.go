package model

type Notification struct {
	Model
	UserID  string `gorm:"type:varchar(20);not null;index" json:"user_id"` // 接收人学号
	Title   string `gorm:"type:varchar(100);not null" json:"title"`
	Content string `gorm:"type:varchar(255);" json:"content"`
	IsRead  bool   `gorm:"default:false;not null" json:"is_read"`
}
