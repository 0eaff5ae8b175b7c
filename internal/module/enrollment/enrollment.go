package enrollment

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/club"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func parseActivityID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID格式错误"))
		return 0, false
	}
	return uint(id), true
}

// SignUp 报名活动。名额检查与计数自增通过条件更新一步完成，
// 并发抢最后一个名额时只有更新成功的一方报名生效
func SignUp(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	activityID, ok := parseActivityID(c)
	if !ok {
		return
	}

	var participantCount int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var activity model.Activity
		if err := tx.First(&activity, "id = ?", activityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.ErrNotFound.WithTips("活动不存在")
			}
			return response.ErrDatabase.WithOrigin(err)
		}

		// 只有审核通过的活动可报名
		if activity.Status != model.ActivityStatusApproved {
			return response.ErrActivityNotApproved
		}

		var existing model.Enrollment
		err := tx.Where("user_id = ? AND activity_id = ?", payload.StudentID, activityID).
			First(&existing).Error
		switch {
		case err == nil && existing.State == model.EnrollmentStateActive:
			return response.ErrAlreadyEnrolled
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return response.ErrDatabase.WithOrigin(err)
		}

		// 条件自增是并发控制点：名额已满或状态已变时零行生效
		result := tx.Model(&model.Activity{}).
			Where("id = ? AND status = ? AND participant_count < max_participants",
				activityID, model.ActivityStatusApproved).
			UpdateColumn("participant_count", gorm.Expr("participant_count + 1"))
		if result.Error != nil {
			return response.ErrDatabase.WithOrigin(result.Error)
		}
		if result.RowsAffected == 0 {
			return response.ErrCapacityExceeded
		}

		// 首次报名插入记录，退出过的翻转回有效状态
		if errors.Is(err, gorm.ErrRecordNotFound) {
			enrollment := model.Enrollment{
				UserID:     payload.StudentID,
				ActivityID: activityID,
				State:      model.EnrollmentStateActive,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				// 唯一索引冲突说明同一用户并发重复报名，整个事务回滚
				return response.ErrAlreadyEnrolled.WithOrigin(err)
			}
		} else {
			// 翻转带状态条件，同一用户并发报名时只有先翻转的一方生效，落败方整体回滚
			flip := tx.Model(&existing).
				Where("state = ?", model.EnrollmentStateWithdrawn).
				Update("state", model.EnrollmentStateActive)
			if flip.Error != nil {
				return response.ErrDatabase.WithOrigin(flip.Error)
			}
			if flip.RowsAffected == 0 {
				return response.ErrAlreadyEnrolled
			}
		}

		if err := tx.First(&activity, "id = ?", activityID).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		participantCount = activity.ParticipantCount
		return nil
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("报名成功",
		"activity_id", activityID,
		"student_id", payload.StudentID,
		"participant_count", participantCount,
	)

	response.Success(c, gin.H{
		"participant_count": participantCount,
	})
}

// Withdraw 退出报名：翻转报名状态并同步回减计数，两者同一事务
func Withdraw(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	activityID, ok := parseActivityID(c)
	if !ok {
		return
	}

	var participantCount int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Enrollment{}).
			Where("user_id = ? AND activity_id = ? AND state = ?",
				payload.StudentID, activityID, model.EnrollmentStateActive).
			Update("state", model.EnrollmentStateWithdrawn)
		if result.Error != nil {
			return response.ErrDatabase.WithOrigin(result.Error)
		}
		if result.RowsAffected == 0 {
			return response.ErrNotEnrolled
		}

		if err := tx.Model(&model.Activity{}).
			Where("id = ? AND participant_count > 0", activityID).
			UpdateColumn("participant_count", gorm.Expr("participant_count - 1")).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}

		var activity model.Activity
		if err := tx.First(&activity, "id = ?", activityID).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		participantCount = activity.ParticipantCount
		return nil
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	log.Info("退出报名",
		"activity_id", activityID,
		"student_id", payload.StudentID,
		"participant_count", participantCount,
	)

	response.Success(c, gin.H{
		"participant_count": participantCount,
	})
}

// Status 查询当前用户对某活动的报名状态
func Status(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	activityID, ok := parseActivityID(c)
	if !ok {
		return
	}

	var count int64
	if err := database.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND activity_id = ? AND state = ?",
			payload.StudentID, activityID, model.EnrollmentStateActive).
		Count(&count).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"enrolled": count > 0,
	})
}

// MyEnrollments 查询当前用户的报名记录（含已退出的历史）
func MyEnrollments(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var enrollments []model.Enrollment
	if err := database.DB.Where("user_id = ?", payload.StudentID).
		Preload("Activity").
		Order("id DESC").
		Find(&enrollments).Error; err != nil {
		log.Error("查询报名记录失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"enrollments": enrollments,
	})
}

// ListParticipants 查询活动的有效参与者，管理员或该社团负责人可见
func ListParticipants(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	activityID, ok := parseActivityID(c)
	if !ok {
		return
	}

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", activityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if payload.RoleID != model.RoleAdmin {
		isLeader, err := club.IsLeaderOf(database.DB, payload.StudentID, activity.ClubID)
		if err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if !isLeader {
			response.Fail(c, response.ErrForbidden.WithTips("无权限查看参与者名单"))
			return
		}
	}

	var enrollments []model.Enrollment
	if err := database.DB.Where("activity_id = ? AND state = ?", activityID, model.EnrollmentStateActive).
		Preload("User").
		Order("id").
		Find(&enrollments).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"participants": enrollments,
		"total":        len(enrollments),
	})
}
