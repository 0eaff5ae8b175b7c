package activity_test

import (
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/internal/module/activity"
	"club-activity-system/test"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createReq(clubID uint) activity.CreateActivityReq {
	return activity.CreateActivityReq{
		ClubID:          clubID,
		Title:           "迎新棋赛",
		StartTime:       1700000000000,
		EndTime:         1700003600000,
		MaxParticipants: 20,
		Points:          5,
	}
}

func countActivities(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&n).Error)
	return n
}

func TestCreateActivity(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")

	resp := test.DoRequest(t, activity.CreateActivity, createReq(club.ID),
		test.AsUser("L001", model.RoleClubLeader))
	test.NoError(t, resp)

	var stored model.Activity
	require.NoError(t, db.First(&stored, "club_id = ?", club.ID).Error)
	require.Equal(t, model.ActivityStatusPending, stored.Status)
	require.Equal(t, 0, stored.ParticipantCount)
}

func TestCreateActivityNotClubLeader(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "U001", model.RoleStudent)

	resp := test.DoRequest(t, activity.CreateActivity, createReq(club.ID),
		test.AsUser("U001", model.RoleStudent))
	test.ErrorEqual(t, response.ErrNotClubLeader, resp)
	// 校验失败不落库
	require.EqualValues(t, 0, countActivities(t, db))

	// 其他社团的负责人同样无权
	test.NewUser(t, db, "L002", model.RoleStudent)
	test.NewClub(t, db, "舞社", "L002")

	resp = test.DoRequest(t, activity.CreateActivity, createReq(club.ID),
		test.AsUser("L002", model.RoleClubLeader))
	test.ErrorEqual(t, response.ErrNotClubLeader, resp)
	require.EqualValues(t, 0, countActivities(t, db))
}

func TestCreateActivityValidation(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")

	req := createReq(club.ID)
	req.StartTime, req.EndTime = req.EndTime, req.StartTime
	resp := test.DoRequest(t, activity.CreateActivity, req,
		test.AsUser("L001", model.RoleClubLeader))
	test.ErrorEqual(t, response.ErrInvalidTimeRange, resp)

	req = createReq(club.ID)
	req.MaxParticipants = -3
	resp = test.DoRequest(t, activity.CreateActivity, req,
		test.AsUser("L001", model.RoleClubLeader))
	test.ErrorEqual(t, response.ErrInvalidCapacity, resp)

	req = createReq(club.ID)
	req.Points = -1
	resp = test.DoRequest(t, activity.CreateActivity, req,
		test.AsUser("L001", model.RoleClubLeader))
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	require.EqualValues(t, 0, countActivities(t, db))
}

func TestApproveWorkflow(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "A001", model.RoleAdmin)
	act := test.NewActivity(t, db, club.ID, model.ActivityStatusPending, 10, 0)
	idParam := test.WithParam("id", strconv.Itoa(int(act.ID)))

	// 非管理员不可审核
	resp := test.DoRequest(t, activity.ApproveActivity, nil,
		test.AsUser("L001", model.RoleClubLeader), idParam)
	test.ErrorEqual(t, response.ErrNotAdmin, resp)

	resp = test.DoRequest(t, activity.ApproveActivity, nil,
		test.AsUser("A001", model.RoleAdmin), idParam)
	test.NoError(t, resp)

	var stored model.Activity
	require.NoError(t, db.First(&stored, act.ID).Error)
	require.Equal(t, model.ActivityStatusApproved, stored.Status)

	// 已通过的不能再次通过
	resp = test.DoRequest(t, activity.ApproveActivity, nil,
		test.AsUser("A001", model.RoleAdmin), idParam)
	test.ErrorEqual(t, response.ErrInvalidTransition, resp)

	// 审核通过会通知社团负责人
	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ?", "L001").Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)
}

func TestRejectWorkflow(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "A001", model.RoleAdmin)
	act := test.NewActivity(t, db, club.ID, model.ActivityStatusPending, 10, 0)
	idParam := test.WithParam("id", strconv.Itoa(int(act.ID)))

	// 驳回必须给出原因
	resp := test.DoRequest(t, activity.RejectActivity, map[string]string{},
		test.AsUser("A001", model.RoleAdmin), idParam)
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, activity.RejectActivity,
		activity.RejectReq{Reason: "材料不全"},
		test.AsUser("A001", model.RoleAdmin), idParam)
	test.NoError(t, resp)

	var stored model.Activity
	require.NoError(t, db.First(&stored, act.ID).Error)
	require.Equal(t, model.ActivityStatusRejected, stored.Status)
	require.Equal(t, "材料不全", stored.RejectReason)

	// 已驳回的不能再通过
	resp = test.DoRequest(t, activity.ApproveActivity, nil,
		test.AsUser("A001", model.RoleAdmin), idParam)
	test.ErrorEqual(t, response.ErrInvalidTransition, resp)
}

func TestCompleteAwardsPoints(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "A001", model.RoleAdmin)
	act := test.NewActivity(t, db, club.ID, model.ActivityStatusApproved, 10, 5)

	for _, uid := range []string{"U001", "U002"} {
		test.NewUser(t, db, uid, model.RoleStudent)
		require.NoError(t, db.Create(&model.Enrollment{
			UserID:     uid,
			ActivityID: act.ID,
			State:      model.EnrollmentStateActive,
		}).Error)
	}
	// 退出的用户不发积分
	test.NewUser(t, db, "U003", model.RoleStudent)
	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     "U003",
		ActivityID: act.ID,
		State:      model.EnrollmentStateWithdrawn,
	}).Error)

	resp := test.DoRequest(t, activity.CompleteActivity, nil,
		test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(act.ID))))
	test.NoError(t, resp)

	var records int64
	require.NoError(t, db.Model(&model.PointsRecord{}).
		Where("activity_id = ?", act.ID).Count(&records).Error)
	require.EqualValues(t, 2, records)

	var total model.TotalPoints
	require.NoError(t, db.Where("user_id = ?", "U001").First(&total).Error)
	require.Equal(t, 5, total.Points)

	require.Error(t, db.Where("user_id = ?", "U003").First(&model.TotalPoints{}).Error)
}

func TestCancelWorkflow(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "A001", model.RoleAdmin)

	// pending 不能直接取消或结项
	pending := test.NewActivity(t, db, club.ID, model.ActivityStatusPending, 10, 0)
	resp := test.DoRequest(t, activity.CancelActivity, nil,
		test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(pending.ID))))
	test.ErrorEqual(t, response.ErrInvalidTransition, resp)

	resp = test.DoRequest(t, activity.CompleteActivity, nil,
		test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(pending.ID))))
	test.ErrorEqual(t, response.ErrInvalidTransition, resp)

	approved := test.NewActivity(t, db, club.ID, model.ActivityStatusApproved, 10, 0)
	resp = test.DoRequest(t, activity.CancelActivity, nil,
		test.AsUser("A001", model.RoleAdmin),
		test.WithParam("id", strconv.Itoa(int(approved.ID))))
	test.NoError(t, resp)

	var stored model.Activity
	require.NoError(t, db.First(&stored, approved.ID).Error)
	require.Equal(t, model.ActivityStatusCancelled, stored.Status)
}

func TestUpdateActivity(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	act := test.NewActivity(t, db, club.ID, model.ActivityStatusApproved, 10, 0)
	idParam := test.WithParam("id", strconv.Itoa(int(act.ID)))

	// 上限不可压到当前报名人数以下
	require.NoError(t, db.Model(&model.Activity{}).
		Where("id = ?", act.ID).
		Update("participant_count", 5).Error)

	newMax := 3
	resp := test.DoRequest(t, activity.UpdateActivity,
		activity.UpdateActivityReq{MaxParticipants: &newMax},
		test.AsUser("L001", model.RoleClubLeader), idParam)
	test.ErrorEqual(t, response.ErrInvalidCapacity, resp)

	// 已通过的活动编辑后退回待审核
	title := "改期棋赛"
	resp = test.DoRequest(t, activity.UpdateActivity,
		activity.UpdateActivityReq{Title: &title},
		test.AsUser("L001", model.RoleClubLeader), idParam)
	test.NoError(t, resp)

	var stored model.Activity
	require.NoError(t, db.First(&stored, act.ID).Error)
	require.Equal(t, "改期棋赛", stored.Title)
	require.Equal(t, model.ActivityStatusPending, stored.Status)
}

func TestListActivitiesFilter(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewActivity(t, db, club.ID, model.ActivityStatusApproved, 10, 0)
	test.NewActivity(t, db, club.ID, model.ActivityStatusPending, 10, 0)

	resp := test.DoQueryRequest(t, activity.ListActivities,
		"status="+strconv.Itoa(model.ActivityStatusApproved))
	test.NoError(t, resp)
	require.EqualValues(t, 1, test.Data(t, resp)["total"].(float64))

	resp = test.DoQueryRequest(t, activity.ListActivities, "")
	test.NoError(t, resp)
	require.EqualValues(t, 2, test.Data(t, resp)["total"].(float64))
}

// TestUpdateActivityKeepsConcurrentSignUp 编辑落库前有人报名成功，计数不被编辑覆盖
func TestUpdateActivityKeepsConcurrentSignUp(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "U001", model.RoleStudent)
	act := test.NewActivity(t, db, club.ID, model.ActivityStatusApproved, 10, 0)

	// 在编辑写库前插入一笔赢得名额的报名
	injected := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("concurrent_signup", func(d *gorm.DB) {
		if injected || d.Statement.Table != "activity" {
			return
		}
		injected = true
		s := d.Session(&gorm.Session{NewDB: true})
		s.Model(&model.Activity{}).
			Where("id = ? AND status = ? AND participant_count < max_participants",
				act.ID, model.ActivityStatusApproved).
			UpdateColumn("participant_count", gorm.Expr("participant_count + 1"))
		s.Create(&model.Enrollment{
			UserID:     "U001",
			ActivityID: act.ID,
			State:      model.EnrollmentStateActive,
		})
	}))

	title := "改期棋赛"
	resp := test.DoRequest(t, activity.UpdateActivity,
		activity.UpdateActivityReq{Title: &title},
		test.AsUser("L001", model.RoleClubLeader),
		test.WithParam("id", strconv.Itoa(int(act.ID))))
	test.NoError(t, resp)
	require.True(t, injected)

	var stored model.Activity
	require.NoError(t, db.First(&stored, act.ID).Error)
	require.Equal(t, "改期棋赛", stored.Title)

	var active int64
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("activity_id = ? AND state = ?", act.ID, model.EnrollmentStateActive).
		Count(&active).Error)
	require.EqualValues(t, active, stored.ParticipantCount)
	require.Equal(t, 1, stored.ParticipantCount)
}

// TestUpdateActivityCapacityRace 校验后挤进来的报名让新上限失效时整个编辑回滚
func TestUpdateActivityCapacityRace(t *testing.T) {
	db := test.Setup(t)

	test.NewUser(t, db, "L001", model.RoleStudent)
	club := test.NewClub(t, db, "棋社", "L001")
	test.NewUser(t, db, "U001", model.RoleStudent)
	test.NewUser(t, db, "U002", model.RoleStudent)
	act := test.NewActivity(t, db, club.ID, model.ActivityStatusApproved, 10, 0)

	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     "U001",
		ActivityID: act.ID,
		State:      model.EnrollmentStateActive,
	}).Error)
	require.NoError(t, db.Model(&model.Activity{}).
		Where("id = ?", act.ID).
		Update("participant_count", 1).Error)

	injected := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("concurrent_signup", func(d *gorm.DB) {
		if injected || d.Statement.Table != "activity" {
			return
		}
		injected = true
		s := d.Session(&gorm.Session{NewDB: true})
		s.Model(&model.Activity{}).
			Where("id = ? AND status = ? AND participant_count < max_participants",
				act.ID, model.ActivityStatusApproved).
			UpdateColumn("participant_count", gorm.Expr("participant_count + 1"))
		s.Create(&model.Enrollment{
			UserID:     "U002",
			ActivityID: act.ID,
			State:      model.EnrollmentStateActive,
		})
	}))

	// 校验时 1 人报名、压到上限 1 本可通过，落库前第二人抢进
	newMax := 1
	resp := test.DoRequest(t, activity.UpdateActivity,
		activity.UpdateActivityReq{MaxParticipants: &newMax},
		test.AsUser("L001", model.RoleClubLeader),
		test.WithParam("id", strconv.Itoa(int(act.ID))))
	test.ErrorEqual(t, response.ErrInvalidCapacity, resp)
	require.True(t, injected)

	var stored model.Activity
	require.NoError(t, db.First(&stored, act.ID).Error)
	require.Equal(t, 10, stored.MaxParticipants)
	require.Equal(t, model.ActivityStatusApproved, stored.Status)
}

func TestMyActivities(t *testing.T) {
	db := test.Setup(t)

	// L001 负责棋社，同时报名了舞社的活动
	test.NewUser(t, db, "L001", model.RoleStudent)
	owned := test.NewClub(t, db, "棋社", "L001")
	ownedAct := test.NewActivity(t, db, owned.ID, model.ActivityStatusPending, 10, 0)

	test.NewUser(t, db, "L002", model.RoleStudent)
	other := test.NewClub(t, db, "舞社", "L002")
	enrolledAct := test.NewActivity(t, db, other.ID, model.ActivityStatusApproved, 10, 0)
	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     "L001",
		ActivityID: enrolledAct.ID,
		State:      model.EnrollmentStateActive,
	}).Error)

	// 退出的报名不计入
	withdrawnAct := test.NewActivity(t, db, other.ID, model.ActivityStatusApproved, 10, 0)
	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     "L001",
		ActivityID: withdrawnAct.ID,
		State:      model.EnrollmentStateWithdrawn,
	}).Error)

	resp := test.DoQueryRequest(t, activity.MyActivities, "",
		test.AsUser("L001", model.RoleClubLeader))
	test.NoError(t, resp)
	data := test.Data(t, resp)

	enrolled := data["enrolled"].([]any)
	require.Len(t, enrolled, 1)
	require.EqualValues(t, enrolledAct.ID, enrolled[0].(map[string]any)["id"].(float64))

	ownedList := data["owned"].([]any)
	require.Len(t, ownedList, 1)
	require.EqualValues(t, ownedAct.ID, ownedList[0].(map[string]any)["id"].(float64))
}
