package response

// 通用错误
var (
	ErrInvalidRequest  = newError(40001, "请求参数错误")
	ErrInvalidPassword = newError(40002, "密码错误")
	ErrTokenInvalid    = newError(40101, "登录凭证无效或已过期")
	ErrUnauthorized    = newError(40102, "请先登录")
	ErrForbidden       = newError(40301, "没有操作权限")
	ErrNotFound        = newError(40401, "资源不存在")
	ErrAlreadyExists   = newError(40901, "资源已存在")
	ErrDatabase        = newError(50001, "数据库错误")
	ErrInternal        = newError(50000, "服务器内部错误")
)

// 角色与社团权限错误
var (
	ErrNotAdmin      = newError(40302, "需要管理员权限")
	ErrNotClubLeader = newError(40303, "只有社团负责人可以操作")
	ErrInvalidLeader = newError(40304, "指定的负责人不符合条件")
)

// 活动与报名业务错误
var (
	ErrInvalidTimeRange    = newError(42201, "活动开始时间必须早于结束时间")
	ErrInvalidCapacity     = newError(42202, "活动人数上限必须大于0")
	ErrActivityNotApproved = newError(42203, "活动未通过审核，暂不可报名")
	ErrAlreadyEnrolled     = newError(42204, "已报名该活动")
	ErrNotEnrolled         = newError(42205, "未报名该活动")
	ErrCapacityExceeded    = newError(42206, "活动名额已满")
	ErrInvalidTransition   = newError(42207, "当前状态不允许该操作")
)
