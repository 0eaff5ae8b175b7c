package test

import (
	"club-activity-system/internal/global/response"
	"testing"

	"github.com/stretchr/testify/require"
)

// ErrorEqual 断言响应错误码与预期一致（WithTips 会拼接消息，只比较码）
func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, expected.Code, resp.Code)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, int32(200), resp.Code, "msg: %s", resp.Msg)
}
