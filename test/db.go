package test

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module"
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Setup 为单个测试准备独立的内存库并初始化所有模块。
// 连接数限制为1，写操作串行化，避免 sqlite 锁冲突
func Setup(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	for _, m := range module.Modules {
		m.Init()
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// NewUser 建一个测试用户，密码字段非加密值，仅供非登录用例使用
func NewUser(t *testing.T, db *gorm.DB, studentID string, roleID int) *model.User {
	t.Helper()
	user := &model.User{
		StudentID: studentID,
		Password:  "unused",
		RoleID:    roleID,
		NickName:  "用户" + studentID,
	}
	require.NoError(t, db.Create(user).Error)
	// RoleAdmin 为零值，Create 会被 default:1 覆盖，强制写入请求的角色
	require.NoError(t, db.Model(user).Update("role_id", roleID).Error)
	return user
}

// NewClub 建一个测试社团并把负责人提为社团负责人角色
func NewClub(t *testing.T, db *gorm.DB, name, leaderID string) *model.Club {
	t.Helper()
	require.NoError(t, db.Model(&model.User{}).
		Where("student_id = ?", leaderID).
		Update("role_id", model.RoleClubLeader).Error)
	club := &model.Club{
		Name:     name,
		LeaderID: leaderID,
	}
	require.NoError(t, db.Create(club).Error)
	return club
}

// NewActivity 建一个测试活动
func NewActivity(t *testing.T, db *gorm.DB, clubID uint, status, maxParticipants, points int) *model.Activity {
	t.Helper()
	activity := &model.Activity{
		ClubID:          clubID,
		Title:           "测试活动",
		StartTime:       1700000000000,
		EndTime:         1700003600000,
		MaxParticipants: maxParticipants,
		Points:          points,
		Status:          status,
	}
	require.NoError(t, db.Create(activity).Error)
	return activity
}
