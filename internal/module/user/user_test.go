package user_test

import (
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/user"
	"club-activity-system/test"
	"testing"

	"github.com/stretchr/testify/require"
)

func register(t *testing.T, studentID, password string) response.ResponseBody {
	t.Helper()
	return test.DoRequest(t, user.Register, map[string]string{
		"student_id": studentID,
		"password":   password,
		"nick_name":  "测试用户",
	})
}

func TestRegisterAndLogin(t *testing.T) {
	db := test.Setup(t)

	test.NoError(t, register(t, "202301001", "pass-w0rd!"))

	var stored model.User
	require.NoError(t, db.Where("student_id = ?", "202301001").First(&stored).Error)
	require.Equal(t, model.RoleStudent, stored.RoleID)
	require.NotEqual(t, "pass-w0rd!", stored.Password) // 密码不落明文

	resp := test.DoRequest(t, user.Login, map[string]string{
		"student_id": "202301001",
		"password":   "pass-w0rd!",
	})
	test.NoError(t, resp)
	require.NotEmpty(t, test.Data(t, resp)["token"])

	resp = test.DoRequest(t, user.Login, map[string]string{
		"student_id": "202301001",
		"password":   "wrong-pass1!",
	})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)
}

func TestRegisterDuplicate(t *testing.T) {
	test.Setup(t)

	test.NoError(t, register(t, "202301001", "pass-w0rd!"))
	resp := register(t, "202301001", "pass-w0rd!")
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestRegisterWeakPassword(t *testing.T) {
	test.Setup(t)

	for _, password := range []string{
		"short1!",       // 太短
		"alllowercase!", // 缺数字
		"12345678!",     // 缺字母
		"abcdefg123",    // 缺特殊字符
	} {
		resp := register(t, "202301001", password)
		test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	}
}

func TestUpdateRole(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "U001", model.RoleStudent)
	role := model.RoleClubLeader
	resp := test.DoRequest(t, user.UpdateRole, user.UpdateRoleReq{
		StudentID: "U001",
		RoleID:    &role,
	}, test.AsUser("A001", model.RoleAdmin))
	test.NoError(t, resp)

	var stored model.User
	require.NoError(t, db.Where("student_id = ?", "U001").First(&stored).Error)
	require.Equal(t, model.RoleClubLeader, stored.RoleID)
}

func TestUpdateRoleGuardsLeader(t *testing.T) {
	db := test.Setup(t)

	// 仍在负责社团的用户不可降级
	test.NewUser(t, db, "L001", model.RoleStudent)
	test.NewClub(t, db, "棋社", "L001")

	role := model.RoleStudent
	resp := test.DoRequest(t, user.UpdateRole, user.UpdateRoleReq{
		StudentID: "L001",
		RoleID:    &role,
	}, test.AsUser("A001", model.RoleAdmin))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	var stored model.User
	require.NoError(t, db.Where("student_id = ?", "L001").First(&stored).Error)
	require.Equal(t, model.RoleClubLeader, stored.RoleID)
}

func TestProfile(t *testing.T) {
	db := test.Setup(t)
	test.NewUser(t, db, "U001", model.RoleStudent)

	resp := test.DoQueryRequest(t, user.Profile, "", test.AsUser("U001", model.RoleStudent))
	test.NoError(t, resp)
	data := test.Data(t, resp)
	require.EqualValues(t, 0, data["points"].(float64))
}
