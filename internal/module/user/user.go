package user

import (
	"club-activity-system/internal/global/cache"
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/tools"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// User 定义登录请求的结构体
type User struct {
	StudentID string `json:"student_id" binding:"required"` // 学号，唯一标识用户
	Password  string `json:"password" binding:"required"`   // 密码，登录时验证，注册时加密
}

type registerReq struct {
	User
	NickName string `json:"nick_name" binding:"required"`
}

// validatePasswordStrength 验证密码强度
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("密码长度必须至少8字符")
	}

	hasLetter := false
	hasDigit := false
	hasSpecial := false
	specialChars := "!@#$%^&*-"

	for _, char := range password {
		switch {
		case strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", char):
			hasLetter = true
		case strings.ContainsRune("0123456789", char):
			hasDigit = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	if !hasLetter {
		return errors.New("密码必须包含至少一个字母")
	}
	if !hasDigit {
		return errors.New("密码必须包含至少一个数字")
	}
	if !hasSpecial {
		return errors.New("密码必须包含至少一个特殊字符（!@#$%^&*-）")
	}

	return nil
}

// Register 处理用户注册请求，新用户默认为学生角色
func Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 验证密码强度
	if err := validatePasswordStrength(req.Password); err != nil {
		log.Warn("密码强度验证失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	// 检查学号是否已存在
	var existingUser model.User
	err := database.DB.Where("student_id = ?", req.StudentID).First(&existingUser).Error
	if err == nil {
		log.Warn("用户已存在", "student_id", req.StudentID)
		response.Fail(c, response.ErrAlreadyExists.WithTips("该学号已注册"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	hash, err := tools.PasswordEncrypt(req.Password)
	if err != nil {
		log.Error("密码加密失败", "error", err)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	user := model.User{
		StudentID: req.StudentID,
		Password:  hash,
		RoleID:    model.RoleStudent,
		NickName:  req.NickName,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Error("创建用户失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "student_id", user.StudentID)
	response.Success(c, gin.H{
		"student_id": user.StudentID,
		"role_id":    user.RoleID,
	})
}

// Login 处理用户登录请求
func Login(c *gin.Context) {
	var req User
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 查询用户是否存在
	var user model.User
	err := database.DB.Where("student_id = ?", req.StudentID).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "student_id", req.StudentID)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "student_id", req.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 验证密码
	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "student_id", req.StudentID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功",
		"student_id", user.StudentID,
		"role_id", user.RoleID)

	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{
			StudentID: user.StudentID,
			RoleID:    user.RoleID,
		}),
		"student_id": user.StudentID,
		"role_id":    user.RoleID,
		"nick_name":  user.NickName,
	})
}

// Logout 注销当前令牌，剩余有效期内拉入黑名单
func Logout(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	token := c.GetString("token")

	ttl := time.Until(time.Unix(payload.ExpiresAt, 0))
	if err := cache.BlacklistToken(c.Request.Context(), token, ttl); err != nil {
		log.Error("令牌注销失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	log.Info("用户登出", "student_id", payload.StudentID)
	response.Success(c)
}

// Profile 查询当前用户资料与积分总数
func Profile(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var user model.User
	if err := database.DB.Where("student_id = ?", payload.StudentID).First(&user).Error; err != nil {
		log.Error("查询用户失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var total model.TotalPoints
	if err := database.DB.Where("user_id = ?", payload.StudentID).First(&total).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("查询积分总账失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"user":   user,
		"points": total.Points,
	})
}

// UpdateProfileReq 使用指针类型支持部分更新
type UpdateProfileReq struct {
	NickName *string `json:"nick_name"` // 昵称，可选
	Avatar   *string `json:"avatar"`    // 头像URL，可选
}

// UpdateProfile 更新当前用户资料，角色不可自改
func UpdateProfile(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新资料请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	if err := database.DB.Where("student_id = ?", payload.StudentID).First(&user).Error; err != nil {
		log.Error("查询用户失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if req.NickName != nil {
		user.NickName = *req.NickName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := database.DB.Save(&user).Error; err != nil {
		log.Error("更新用户失败", "error", err, "student_id", payload.StudentID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c)
}
