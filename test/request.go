package test

import (
	"bytes"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Option 在执行 handler 前修饰 gin.Context
type Option func(c *gin.Context)

// AsUser 注入认证载荷，相当于通过了 Auth 中间件
func AsUser(studentID string, roleID int) Option {
	return func(c *gin.Context) {
		c.Set("payload", &jwt.Claims{
			Payload: jwt.Payload{
				StudentID: studentID,
				RoleID:    roleID,
			},
		})
	}
}

// WithParam 设置路径参数
func WithParam(key, value string) Option {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: key, Value: value})
	}
}

// DoRequest 直接调用 handler：request 非空时作为 JSON 请求体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any, opts ...Option) (resp response.ResponseBody) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := bytes.NewReader(nil)
	if request != nil {
		requestBytes, err := json.Marshal(request)
		require.NoError(t, err)
		body = bytes.NewReader(requestBytes)
	}
	c.Request = httptest.NewRequest(http.MethodPost, "/test", body)
	c.Request.Header.Set("Content-Type", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// DoQueryRequest 以查询串方式调用 handler
func DoQueryRequest(t *testing.T, handlerFunc gin.HandlerFunc, rawQuery string, opts ...Option) (resp response.ResponseBody) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(http.MethodGet, "/test?"+rawQuery, nil)

	for _, opt := range opts {
		opt(c)
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// Data 取响应 data 字段（对象形式）
func Data(t *testing.T, resp response.ResponseBody) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "响应 data 不是对象: %v", resp.Data)
	return data
}
