package activity

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/notification"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// requireAdmin 审核操作只对管理员开放
func requireAdmin(c *gin.Context) (*jwt.Claims, bool) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return nil, false
	}
	if payload.RoleID != model.RoleAdmin {
		log.Warn("非管理员执行审核操作被拒绝", "student_id", payload.StudentID)
		response.Fail(c, response.ErrNotAdmin)
		return nil, false
	}
	return payload, true
}

// loadActivity 取活动及其社团，用于状态检查和通知
func loadActivity(c *gin.Context) (*model.Activity, bool) {
	id := c.Param("id")

	var activity model.Activity
	if err := database.DB.Preload("Club").First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return nil, false
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &activity, true
}

// transition 条件更新状态，当前状态不是 from 时不落库并返回 InvalidTransition
func transition(tx *gorm.DB, activityID uint, from, to int, extra map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	result := tx.Model(&model.Activity{}).
		Where("id = ? AND status = ?", activityID, from).
		Updates(updates)
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected == 0 {
		return response.ErrInvalidTransition
	}
	return nil
}

// ApproveActivity 审核通过：pending → approved
func ApproveActivity(c *gin.Context) {
	payload, ok := requireAdmin(c)
	if !ok {
		return
	}
	activity, ok := loadActivity(c)
	if !ok {
		return
	}

	if err := transition(database.DB, activity.ID, model.ActivityStatusPending, model.ActivityStatusApproved, nil); err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("活动审核通过", "activity_id", activity.ID, "admin", payload.StudentID)
	notification.Push(activity.Club.LeaderID,
		"活动审核通过",
		fmt.Sprintf("活动「%s」已通过审核，开放报名", activity.Title))
	response.Success(c)
}

// RejectReq 驳回必须给出原因
type RejectReq struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectActivity 审核驳回：pending → rejected，原因落库并通知负责人
func RejectActivity(c *gin.Context) {
	payload, ok := requireAdmin(c)
	if !ok {
		return
	}

	var req RejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("驳回原因不能为空"))
		return
	}

	activity, ok := loadActivity(c)
	if !ok {
		return
	}

	if err := transition(database.DB, activity.ID, model.ActivityStatusPending, model.ActivityStatusRejected,
		map[string]any{"reject_reason": req.Reason}); err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("活动审核驳回", "activity_id", activity.ID, "admin", payload.StudentID, "reason", req.Reason)
	notification.Push(activity.Club.LeaderID,
		"活动审核驳回",
		fmt.Sprintf("活动「%s」未通过审核：%s", activity.Title, req.Reason))
	response.Success(c)
}

// CompleteActivity 结项：approved → completed，并为所有有效报名者发放积分
func CompleteActivity(c *gin.Context) {
	payload, ok := requireAdmin(c)
	if !ok {
		return
	}
	activity, ok := loadActivity(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, activity.ID, model.ActivityStatusApproved, model.ActivityStatusCompleted, nil); err != nil {
			return err
		}

		if activity.Points <= 0 {
			return nil
		}

		var enrollments []model.Enrollment
		if err := tx.Where("activity_id = ? AND state = ?", activity.ID, model.EnrollmentStateActive).
			Find(&enrollments).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}

		// 逐条创建，钩子同步积分总账
		for _, e := range enrollments {
			record := model.PointsRecord{
				UserID:     e.UserID,
				ActivityID: activity.ID,
				Count:      activity.Points,
				Cause:      fmt.Sprintf("参加活动「%s」", activity.Title),
				MarkedBy:   payload.StudentID,
			}
			if err := tx.Create(&record).Error; err != nil {
				return response.ErrDatabase.WithOrigin(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("活动结项失败", "error", err, "activity_id", activity.ID)
		response.Fail(c, err)
		return
	}

	log.Info("活动结项", "activity_id", activity.ID, "admin", payload.StudentID, "points", activity.Points)
	notification.Push(activity.Club.LeaderID,
		"活动已结项",
		fmt.Sprintf("活动「%s」已结项，积分已发放", activity.Title))
	response.Success(c)
}

// CancelActivity 取消：approved → cancelled，已有报名记录保持原样但不再接受报名
func CancelActivity(c *gin.Context) {
	payload, ok := requireAdmin(c)
	if !ok {
		return
	}
	activity, ok := loadActivity(c)
	if !ok {
		return
	}

	if err := transition(database.DB, activity.ID, model.ActivityStatusApproved, model.ActivityStatusCancelled, nil); err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("活动取消", "activity_id", activity.ID, "admin", payload.StudentID)
	notification.Push(activity.Club.LeaderID,
		"活动已取消",
		fmt.Sprintf("活动「%s」已被取消", activity.Title))
	response.Success(c)
}
