package club

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// IsLeaderOf 判断用户是否为指定社团的负责人，供活动与报名模块做权限判定
func IsLeaderOf(db *gorm.DB, studentID string, clubID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Club{}).
		Where("id = ? AND leader_id = ?", clubID, studentID).
		Count(&count).Error
	return count > 0, err
}

// pickLeader 校验目标用户是否可担任负责人：学生可被提拔，负责人可兼任
func pickLeader(tx *gorm.DB, studentID string) (*model.User, error) {
	var leader model.User
	err := tx.Where("student_id = ?", studentID).First(&leader).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrInvalidLeader.WithTips("负责人不存在")
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if leader.RoleID != model.RoleStudent && leader.RoleID != model.RoleClubLeader {
		return nil, response.ErrInvalidLeader
	}
	return &leader, nil
}

// CreateClubReq 定义创建社团请求的结构体
type CreateClubReq struct {
	Name        string `json:"name" binding:"required"`      // 社团名称
	Description string `json:"description"`                  // 社团简介
	Avatar      string `json:"avatar"`                       // 社团徽标URL
	LeaderID    string `json:"leader_id" binding:"required"` // 负责人学号
}

// CreateClub 管理员创建社团，必要时将负责人提拔为社团负责人角色，与建团同一事务
func CreateClub(c *gin.Context) {
	var req CreateClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建社团请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var existing model.Club
	err := database.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		log.Warn("社团已存在", "name", req.Name)
		response.Fail(c, response.ErrAlreadyExists.WithTips("社团已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var club model.Club
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		leader, err := pickLeader(tx, req.LeaderID)
		if err != nil {
			return err
		}

		if leader.RoleID == model.RoleStudent {
			if err := tx.Model(leader).Update("role_id", model.RoleClubLeader).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}

		club = model.Club{
			Name:        req.Name,
			Description: req.Description,
			Avatar:      req.Avatar,
			LeaderID:    req.LeaderID,
		}
		if err := tx.Create(&club).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		log.Error("创建社团失败", "error", err, "name", req.Name)
		response.Fail(c, err)
		return
	}

	log.Info("社团创建成功", "name", req.Name, "leader_id", req.LeaderID)
	response.Success(c, gin.H{
		"club_id": club.ID,
	})
}

// ListClubsReq 定义社团列表的查询参数结构体
type ListClubsReq struct {
	Name     string `form:"name"`      // 社团名称模糊查询
	Page     int    `form:"page"`      // 页码，默认为1
	PageSize int    `form:"page_size"` // 每页大小，默认为10
}

// ListClubs 获取社团列表
func ListClubs(c *gin.Context) {
	var req ListClubsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}

	query := database.DB.Model(&model.Club{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var clubs []model.Club
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Leader").Order("id").Offset(offset).Limit(req.PageSize).Find(&clubs).Error; err != nil {
		log.Error("获取社团列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"clubs":       clubs,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// GetClub 获取单个社团详情
func GetClub(c *gin.Context) {
	id := c.Param("id")

	var club model.Club
	if err := database.DB.Preload("Leader").First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("社团不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, club)
}

// MyClub 查询当前用户负责的社团
func MyClub(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var clubs []model.Club
	if err := database.DB.Where("leader_id = ?", payload.StudentID).Find(&clubs).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"clubs": clubs,
	})
}

// UpdateClubReq 使用指针类型支持部分更新，负责人不在此处变更
type UpdateClubReq struct {
	Name        *string `json:"name"`        // 社团名称，可选
	Description *string `json:"description"` // 社团简介，可选
	Avatar      *string `json:"avatar"`      // 社团徽标URL，可选
}

// UpdateClub 更新社团资料，管理员或该社团负责人可操作
func UpdateClub(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id := c.Param("id")

	var req UpdateClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var club model.Club
	if err := database.DB.First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("社团不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if payload.RoleID != model.RoleAdmin && club.LeaderID != payload.StudentID {
		log.Warn("无权限更新社团", "id", id, "student_id", payload.StudentID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限更新该社团"))
		return
	}

	if req.Name != nil {
		club.Name = *req.Name
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Avatar != nil {
		club.Avatar = *req.Avatar
	}

	if err := database.DB.Save(&club).Error; err != nil {
		log.Error("更新社团失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c)
}

// ReassignLeaderReq 定义移交负责人请求的结构体
type ReassignLeaderReq struct {
	LeaderID string `json:"leader_id" binding:"required"` // 新负责人学号
}

// ReassignLeader 管理员移交社团负责人：换人、提拔新负责人、
// 旧负责人不再负责任何社团时降回学生，三者同一事务
func ReassignLeader(c *gin.Context) {
	id := c.Param("id")

	var req ReassignLeaderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var club model.Club
		if err := tx.First(&club, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.ErrNotFound.WithTips("社团不存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}

		if club.LeaderID == req.LeaderID {
			return response.ErrInvalidRequest.WithTips("负责人未变化")
		}

		newLeader, err := pickLeader(tx, req.LeaderID)
		if err != nil {
			return err
		}

		oldLeaderID := club.LeaderID
		if err := tx.Model(&club).Update("leader_id", req.LeaderID).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}

		if newLeader.RoleID == model.RoleStudent {
			if err := tx.Model(newLeader).Update("role_id", model.RoleClubLeader).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}

		// 旧负责人若不再负责任何社团则降回学生
		var remaining int64
		if err := tx.Model(&model.Club{}).Where("leader_id = ?", oldLeaderID).Count(&remaining).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if remaining == 0 {
			if err := tx.Model(&model.User{}).
				Where("student_id = ? AND role_id = ?", oldLeaderID, model.RoleClubLeader).
				Update("role_id", model.RoleStudent).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("移交负责人失败", "error", err, "id", id)
		response.Fail(c, err)
		return
	}

	log.Info("负责人移交成功", "club_id", id, "leader_id", req.LeaderID)
	response.Success(c)
}

// DeleteClub 管理员删除社团（软删除），有未结束活动时拒绝
func DeleteClub(c *gin.Context) {
	id := c.Param("id")

	var club model.Club
	if err := database.DB.First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("社团不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var active int64
	if err := database.DB.Model(&model.Activity{}).
		Where("club_id = ? AND status IN ?", club.ID, []int{model.ActivityStatusPending, model.ActivityStatusApproved}).
		Count(&active).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if active > 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("该社团仍有进行中的活动"))
		return
	}

	if err := database.DB.Delete(&club).Error; err != nil {
		log.Error("删除社团失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("社团删除成功", "id", club.ID)
	response.Success(c)
}
