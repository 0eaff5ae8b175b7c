package activity

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/club"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateActivityReq 定义创建活动请求的结构体
type CreateActivityReq struct {
	ClubID          uint   `json:"club_id" binding:"required"`          // 所属社团
	Title           string `json:"title" binding:"required"`            // 活动名称
	Description     string `json:"description"`                         // 活动描述
	Location        string `json:"location"`                            // 活动地点
	StartTime       int64  `json:"start_time" binding:"required"`       // 活动开始时间（毫秒时间戳）
	EndTime         int64  `json:"end_time" binding:"required"`         // 活动结束时间（毫秒时间戳）
	MaxParticipants int    `json:"max_participants" binding:"required"` // 人数上限
	Points          int    `json:"points"`                              // 完成活动获得的积分
}

// validateFields 校验时间区间、人数上限与积分，全部在写库前完成
func (req *CreateActivityReq) validateFields() error {
	if req.StartTime >= req.EndTime {
		return response.ErrInvalidTimeRange
	}
	if req.MaxParticipants <= 0 {
		return response.ErrInvalidCapacity
	}
	if req.Points < 0 {
		return response.ErrInvalidRequest.WithTips("积分不能为负数")
	}
	return nil
}

// CreateActivity 社团负责人创建活动，初始为待审核状态
func CreateActivity(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req CreateActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if err := req.validateFields(); err != nil {
		response.Fail(c, err)
		return
	}

	var owningClub model.Club
	if err := database.DB.First(&owningClub, "id = ?", req.ClubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("社团不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 只有该社团的负责人可以创建活动
	isLeader, err := club.IsLeaderOf(database.DB, payload.StudentID, req.ClubID)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !isLeader {
		log.Warn("非社团负责人创建活动被拒绝", "club_id", req.ClubID, "student_id", payload.StudentID)
		response.Fail(c, response.ErrNotClubLeader)
		return
	}

	activity := model.Activity{
		ClubID:          req.ClubID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		Points:          req.Points,
		Status:          model.ActivityStatusPending,
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		log.Error("创建活动失败", "error", err, "title", req.Title)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动创建成功",
		"activity_id", activity.ID,
		"club_id", req.ClubID,
		"student_id", payload.StudentID,
	)

	response.Success(c, gin.H{
		"activity_id": activity.ID,
	})
}

// UpdateActivityReq 使用指针类型支持部分更新
type UpdateActivityReq struct {
	Title           *string `json:"title"`            // 活动名称，可选
	Description     *string `json:"description"`      // 活动描述，可选
	Location        *string `json:"location"`         // 活动地点，可选
	StartTime       *int64  `json:"start_time"`       // 活动开始时间，可选
	EndTime         *int64  `json:"end_time"`         // 活动结束时间，可选
	MaxParticipants *int    `json:"max_participants"` // 人数上限，可选
	Points          *int    `json:"points"`           // 积分，可选
}

// UpdateActivity 社团负责人编辑活动；已通过审核的活动编辑后退回待审核
func UpdateActivity(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id := c.Param("id")

	var req UpdateActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新活动请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var activity model.Activity
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&activity, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.ErrNotFound.WithTips("活动不存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}

		isLeader, err := club.IsLeaderOf(tx, payload.StudentID, activity.ClubID)
		if err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if !isLeader {
			log.Warn("无权限更新活动", "id", id, "student_id", payload.StudentID)
			return response.ErrNotClubLeader
		}

		// 已驳回/已结束/已取消的活动不可编辑
		if activity.Status != model.ActivityStatusPending && activity.Status != model.ActivityStatusApproved {
			return response.ErrInvalidTransition
		}

		// 只更新编辑过的列，报名计数由报名模块独占维护
		updates := map[string]any{}
		if req.Title != nil {
			activity.Title = *req.Title
			updates["title"] = *req.Title
		}
		if req.Description != nil {
			activity.Description = *req.Description
			updates["description"] = *req.Description
		}
		if req.Location != nil {
			activity.Location = *req.Location
			updates["location"] = *req.Location
		}
		if req.StartTime != nil {
			activity.StartTime = *req.StartTime
			updates["start_time"] = *req.StartTime
		}
		if req.EndTime != nil {
			activity.EndTime = *req.EndTime
			updates["end_time"] = *req.EndTime
		}
		if req.MaxParticipants != nil {
			activity.MaxParticipants = *req.MaxParticipants
			updates["max_participants"] = *req.MaxParticipants
		}
		if req.Points != nil {
			activity.Points = *req.Points
			updates["points"] = *req.Points
		}

		if activity.StartTime >= activity.EndTime {
			return response.ErrInvalidTimeRange
		}
		if activity.MaxParticipants <= 0 {
			return response.ErrInvalidCapacity
		}
		// 上限不可压到当前报名人数以下
		if activity.MaxParticipants < activity.ParticipantCount {
			return response.ErrInvalidCapacity.WithTips("人数上限不能低于当前报名人数")
		}
		if activity.Points < 0 {
			return response.ErrInvalidRequest.WithTips("积分不能为负数")
		}

		// 内容变更后需重新审核
		if activity.Status == model.ActivityStatusApproved {
			updates["status"] = model.ActivityStatusPending
		}
		if len(updates) == 0 {
			return nil
		}

		// 读取到落库之间可能有并发报名或状态变更，条件更新再拦一次
		result := tx.Model(&model.Activity{}).
			Where("id = ? AND status = ? AND participant_count <= ?",
				activity.ID, activity.Status, activity.MaxParticipants).
			Updates(updates)
		if result.Error != nil {
			return response.ErrDatabase.WithOrigin(result.Error)
		}
		if result.RowsAffected == 0 {
			var current model.Activity
			if err := tx.First(&current, "id = ?", activity.ID).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
			if current.ParticipantCount > activity.MaxParticipants {
				return response.ErrInvalidCapacity.WithTips("人数上限不能低于当前报名人数")
			}
			return response.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("活动更新成功", "id", activity.ID, "title", activity.Title)
	response.Success(c)
}

// ListActivitiesReq 定义活动列表的查询参数结构体
type ListActivitiesReq struct {
	Status    *int   `form:"status"`     // 审核状态筛选，可选
	ClubID    uint   `form:"club_id"`    // 社团筛选，可选
	StartFrom int64  `form:"start_from"` // 开始时间下界（毫秒），可选
	StartTo   int64  `form:"start_to"`   // 开始时间上界（毫秒），可选
	Title     string `form:"title"`      // 活动名称模糊查询
	Page      int    `form:"page"`       // 页码，默认为1
	PageSize  int    `form:"page_size"`  // 每页大小，默认为10
}

// ListActivities 获取活动列表（支持查询参数），按ID稳定排序
func ListActivities(c *gin.Context) {
	var req ListActivitiesReq
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

	query := database.DB.Model(&model.Activity{})

	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.ClubID != 0 {
		query = query.Where("club_id = ?", req.ClubID)
	}
	if req.StartFrom != 0 {
		query = query.Where("start_time >= ?", req.StartFrom)
	}
	if req.StartTo != 0 {
		query = query.Where("start_time <= ?", req.StartTo)
	}
	if req.Title != "" {
		query = query.Where("title LIKE ?", "%"+req.Title+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取活动总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var activities []model.Activity
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Club").Order("id").Offset(offset).Limit(req.PageSize).Find(&activities).Error; err != nil {
		log.Error("获取活动列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"activities":  activities,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": (total + int64(req.PageSize) - 1) / int64(req.PageSize),
	})
}

// GetActivity 获取单个活动详情
func GetActivity(c *gin.Context) {
	id := c.Param("id")

	var activity model.Activity
	if err := database.DB.Preload("Club").First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, activity)
}

// MyActivities 查询与我相关的活动：我报名的 + 我负责社团的
func MyActivities(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var enrolled []model.Activity
	if err := database.DB.Model(&model.Activity{}).
		Joins("JOIN enrollment ON enrollment.activity_id = activity.id").
		Where("enrollment.user_id = ? AND enrollment.state = ?", payload.StudentID, model.EnrollmentStateActive).
		Preload("Club").
		Order("activity.id").
		Find(&enrolled).Error; err != nil {
		log.Error("查询报名活动失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var owned []model.Activity
	if err := database.DB.Model(&model.Activity{}).
		Joins("JOIN club ON club.id = activity.club_id").
		Where("club.leader_id = ?", payload.StudentID).
		Preload("Club").
		Order("activity.id").
		Find(&owned).Error; err != nil {
		log.Error("查询负责活动失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"enrolled": enrolled,
		"owned":    owned,
	})
}
