package model

// 角色编号，注册默认为学生
const (
	RoleAdmin      = 0
	RoleStudent    = 1
	RoleClubLeader = 2
)

type User struct {
	Model
	StudentID string `gorm:"type:varchar(20);uniqueIndex;not null" json:"student_id"`
	Password  string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID    int    `gorm:"default:1;not null" json:"role_id"`
	NickName  string `gorm:"type:varchar(20);not null" json:"nick_name"`
	Avatar    string `gorm:"type:varchar(255);" json:"avatar"`
}
