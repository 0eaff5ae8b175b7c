package notification

import (
	"club-activity-system/config"
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/httpclient"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

// Push 写入站内通知；配置了外部网关时异步同步推送一份
func Push(userID, title, content string) {
	n := model.Notification{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := database.DB.Create(&n).Error; err != nil {
		log.Error("写入通知失败", "error", err, "user_id", userID)
		return
	}

	webhook := config.Get().Notify.WebhookURL
	if webhook == "" || httpclient.Client == nil {
		return
	}
	go func() {
		_, err := httpclient.Client.R().
			SetBody(map[string]string{
				"user_id": userID,
				"title":   title,
				"content": content,
			}).
			Post(webhook)
		if err != nil {
			log.Warn("通知推送失败", "error", err, "user_id", userID)
		}
	}()
}

// ListNotificationsReq 定义通知列表的查询参数结构体
type ListNotificationsReq struct {
	UnreadOnly bool `form:"unread_only"` // 只看未读
	Page       int  `form:"page"`        // 页码，默认为1
	PageSize   int  `form:"page_size"`   // 每页大小，默认为10
}

// ListNotifications 查询当前用户的通知
func ListNotifications(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ListNotificationsReq
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

	query := database.DB.Model(&model.Notification{}).Where("user_id = ?", payload.StudentID)
	if req.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var notifications []model.Notification
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("id DESC").Offset(offset).Limit(req.PageSize).Find(&notifications).Error; err != nil {
		log.Error("查询通知失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"notifications": notifications,
		"total":         total,
		"page":          req.Page,
		"page_size":     req.PageSize,
	})
}

// MarkRead 将一条通知标记为已读，只能操作自己的通知
func MarkRead(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id := c.Param("id")

	result := database.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, payload.StudentID).
		Update("is_read", true)
	if result.Error != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		response.Fail(c, response.ErrNotFound.WithTips("通知不存在"))
		return
	}

	response.Success(c)
}

// MarkAllRead 将当前用户所有通知标记为已读
func MarkAllRead(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	if err := database.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", payload.StudentID, false).
		Update("is_read", true).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c)
}
