package club_test

import (
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/club"
	"club-activity-system/test"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateClubPromotesLeader(t *testing.T) {
	db := test.Setup(t)
	test.NewUser(t, db, "U001", model.RoleStudent)

	resp := test.DoRequest(t, club.CreateClub, club.CreateClubReq{
		Name:     "棋社",
		LeaderID: "U001",
	}, test.AsUser("A001", model.RoleAdmin))
	test.NoError(t, resp)

	// 学生负责人随建团提拔
	var leader model.User
	require.NoError(t, db.Where("student_id = ?", "U001").First(&leader).Error)
	require.Equal(t, model.RoleClubLeader, leader.RoleID)
}

func TestCreateClubInvalidLeader(t *testing.T) {
	db := test.Setup(t)
	test.NewUser(t, db, "A002", model.RoleAdmin)

	// 不存在的负责人
	resp := test.DoRequest(t, club.CreateClub, club.CreateClubReq{
		Name:     "棋社",
		LeaderID: "NOBODY",
	}, test.AsUser("A001", model.RoleAdmin))
	test.ErrorEqual(t, response.ErrInvalidLeader, resp)

	// 管理员不可担任负责人
	resp = test.DoRequest(t, club.CreateClub, club.CreateClubReq{
		Name:     "棋社",
		LeaderID: "A002",
	}, test.AsUser("A001", model.RoleAdmin))
	test.ErrorEqual(t, response.ErrInvalidLeader, resp)

	// 失败不落库
	var n int64
	require.NoError(t, db.Model(&model.Club{}).Count(&n).Error)
	require.EqualValues(t, 0, n)
}

func TestCreateClubDuplicateName(t *testing.T) {
	db := test.Setup(t)
	test.NewUser(t, db, "U001", model.RoleStudent)
	test.NewClub(t, db, "棋社", "U001")
	test.NewUser(t, db, "U002", model.RoleStudent)

	resp := test.DoRequest(t, club.CreateClub, club.CreateClubReq{
		Name:     "棋社",
		LeaderID: "U002",
	}, test.AsUser("A001", model.RoleAdmin))
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestReassignLeader(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	c := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "U002", model.RoleStudent)

	resp := test.DoRequest(t, club.ReassignLeader, club.ReassignLeaderReq{
		LeaderID: "U002",
	}, test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(c.ID))))
	test.NoError(t, resp)

	// 换人、提拔、降级在同一事务里完成
	var stored model.Club
	require.NoError(t, db.First(&stored, c.ID).Error)
	require.Equal(t, "U002", stored.LeaderID)

	var newLeader, oldLeader model.User
	require.NoError(t, db.Where("student_id = ?", "U002").First(&newLeader).Error)
	require.Equal(t, model.RoleClubLeader, newLeader.RoleID)
	require.NoError(t, db.Where("student_id = ?", "L001").First(&oldLeader).Error)
	require.Equal(t, model.RoleStudent, oldLeader.RoleID)
}

func TestReassignLeaderKeepsRoleWhenStillLeading(t *testing.T) {
	db := test.Setup(t)

	// L001 同时负责两个社团，移交其中一个后仍是负责人角色
	test.NewUser(t, db, "L001", model.RoleStudent)
	first := test.NewClub(t, db, "棋社", "L001")
	second := &model.Club{Name: "舞社", LeaderID: "L001"}
	require.NoError(t, db.Create(second).Error)
	test.NewUser(t, db, "U002", model.RoleStudent)

	resp := test.DoRequest(t, club.ReassignLeader, club.ReassignLeaderReq{
		LeaderID: "U002",
	}, test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(first.ID))))
	test.NoError(t, resp)

	var oldLeader model.User
	require.NoError(t, db.Where("student_id = ?", "L001").First(&oldLeader).Error)
	require.Equal(t, model.RoleClubLeader, oldLeader.RoleID)
}

func TestReassignLeaderInvalidTarget(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	c := test.NewClub(t, db, "棋社", "L001")

	resp := test.DoRequest(t, club.ReassignLeader, club.ReassignLeaderReq{
		LeaderID: "NOBODY",
	}, test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(c.ID))))
	test.ErrorEqual(t, response.ErrInvalidLeader, resp)

	// 事务回滚，负责人未变化
	var stored model.Club
	require.NoError(t, db.First(&stored, c.ID).Error)
	require.Equal(t, "L001", stored.LeaderID)
}

func TestIsLeaderOf(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	c := test.NewClub(t, db, "棋社", "L001")

	ok, err := club.IsLeaderOf(db, "L001", c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = club.IsLeaderOf(db, "U999", c.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUpdateClubAuthorization(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	c := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "U001", model.RoleStudent)

	desc := "每周三活动"
	resp := test.DoRequest(t, club.UpdateClub, club.UpdateClubReq{
		Description: &desc,
	}, test.AsUser("U001", model.RoleStudent),
		test.WithParam("id", strconv.Itoa(int(c.ID))))
	test.ErrorEqual(t, response.ErrForbidden, resp)

	resp = test.DoRequest(t, club.UpdateClub, club.UpdateClubReq{
		Description: &desc,
	}, test.AsUser("L001", model.RoleClubLeader),
		test.WithParam("id", strconv.Itoa(int(c.ID))))
	test.NoError(t, resp)
}
