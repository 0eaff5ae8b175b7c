package user

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListUsersReq 定义用户列表的查询参数结构体
type ListUsersReq struct {
	RoleID   *int   `form:"role_id"`   // 角色筛选，可选
	Keyword  string `form:"keyword"`   // 学号或昵称模糊查询
	Page     int    `form:"page"`      // 页码，默认为1
	PageSize int    `form:"page_size"` // 每页大小，默认为10
}

// ListUsers 管理员查询用户列表
func ListUsers(c *gin.Context) {
	var req ListUsersReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	query := database.DB.Model(&model.User{})
	if req.RoleID != nil {
		query = query.Where("role_id = ?", *req.RoleID)
	}
	if req.Keyword != "" {
		query = query.Where("student_id LIKE ? OR nick_name LIKE ?", "%"+req.Keyword+"%", "%"+req.Keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取用户总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var users []model.User
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("id").Offset(offset).Limit(req.PageSize).Find(&users).Error; err != nil {
		log.Error("获取用户列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"users":       users,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// UpdateRoleReq 定义调整角色请求的结构体
type UpdateRoleReq struct {
	StudentID string `json:"student_id" binding:"required"`
	RoleID    *int   `json:"role_id" binding:"required"` // 目标角色
}

// UpdateRole 管理员调整用户角色
func UpdateRole(c *gin.Context) {
	var req UpdateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定角色调整请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	roleID := *req.RoleID
	if roleID != model.RoleAdmin && roleID != model.RoleStudent && roleID != model.RoleClubLeader {
		response.Fail(c, response.ErrInvalidRequest.WithTips("未知角色"))
		return
	}

	var user model.User
	if err := database.DB.Where("student_id = ?", req.StudentID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("用户不存在", "student_id", req.StudentID)
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		log.Error("查询用户失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 仍在担任社团负责人的用户不可降级
	if user.RoleID == model.RoleClubLeader && roleID != model.RoleClubLeader {
		var count int64
		if err := database.DB.Model(&model.Club{}).Where("leader_id = ?", user.StudentID).Count(&count).Error; err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if count > 0 {
			response.Fail(c, response.ErrInvalidRequest.WithTips("该用户仍是社团负责人，请先移交社团"))
			return
		}
	}

	if err := database.DB.Model(&user).Update("role_id", roleID).Error; err != nil {
		log.Error("更新角色失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("角色调整成功", "student_id", req.StudentID, "role_id", roleID)
	response.Success(c)
}
