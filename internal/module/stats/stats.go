package stats

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/club"
	"club-activity-system/tools"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func loadActivity(c *gin.Context) (*model.Activity, bool) {
	id := c.Param("id")

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return nil, false
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &activity, true
}

// ActivityBrief 活动概况：名额、报名数、积分
func ActivityBrief(c *gin.Context) {
	activity, ok := loadActivity(c)
	if !ok {
		return
	}

	response.Success(c, gin.H{
		"activity_id":       activity.ID,
		"title":             activity.Title,
		"status":            activity.Status,
		"participant_count": activity.ParticipantCount,
		"max_participants":  activity.MaxParticipants,
		"points":            activity.Points,
	})
}

// participantRow 导出行，excel tag 作为表头
type participantRow struct {
	StudentID  string `excel:"学号"`
	NickName   string `excel:"昵称"`
	EnrolledAt string `excel:"报名时间"`
}

// ExportParticipants 导出活动参与者名单（xlsx），管理员或该社团负责人可操作
func ExportParticipants(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	activity, ok := loadActivity(c)
	if !ok {
		return
	}

	if payload.RoleID != model.RoleAdmin {
		isLeader, err := club.IsLeaderOf(database.DB, payload.StudentID, activity.ClubID)
		if err != nil {
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		if !isLeader {
			response.Fail(c, response.ErrForbidden.WithTips("无权限导出参与者名单"))
			return
		}
	}

	var enrollments []model.Enrollment
	if err := database.DB.Where("activity_id = ? AND state = ?", activity.ID, model.EnrollmentStateActive).
		Preload("User").
		Order("id").
		Find(&enrollments).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]participantRow, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, participantRow{
			StudentID:  e.UserID,
			NickName:   e.User.NickName,
			EnrolledAt: e.UpdatedAt.Format(time.DateTime),
		})
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Error("关闭导出文件失败", "error", err)
		}
	}()

	if err := tools.ExportToExcel(f, "参与者", rows); err != nil {
		log.Error("生成导出文件失败", "error", err, "activity_id", activity.ID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	tools.SendAttachmentHeaders(c, fmt.Sprintf("%s-参与者名单.xlsx", activity.Title), tools.ExcelContentType)
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Error("写出导出文件失败", "error", err, "activity_id", activity.ID)
	}
}

// MyPoints 查询当前用户积分总数与流水
func MyPoints(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var total model.TotalPoints
	if err := database.DB.Where("user_id = ?", payload.StudentID).First(&total).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var records []model.PointsRecord
	if err := database.DB.Where("user_id = ?", payload.StudentID).
		Order("id DESC").
		Find(&records).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"points":  total.Points,
		"records": records,
	})
}

// PointsRankReq 定义积分排行的查询参数结构体
type PointsRankReq struct {
	Limit int `form:"limit"` // 取前几名，默认为10
}

// PointsRank 积分排行榜
func PointsRank(c *gin.Context) {
	var req PointsRankReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 10
	}

	var totals []model.TotalPoints
	if err := database.DB.Order("points DESC, user_id").
		Limit(req.Limit).
		Find(&totals).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"rank": totals,
	})
}
