package model

type Club struct {
	Model
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 社团名称
	Description string `gorm:"type:varchar(255);" json:"description"`              // 社团简介
	Avatar      string `gorm:"type:varchar(255);" json:"avatar"`                   // 社团徽标URL
	LeaderID    string `gorm:"type:varchar(20);not null" json:"leader_id"`         // 负责人学号，外键指向用户表的学号

	Leader User `gorm:"foreignKey:LeaderID;references:StudentID" json:"leader"`
}
