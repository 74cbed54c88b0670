package errx

// 跨服务统一的系统类错误码。
//
// 约束：
// - 只放“系统/技术类”错误码，便于告警与排障归一化
// - 业务域错误码（例如 CONTRADICTION）由各业务包自行定义

const (
	// CodeInternal 服务内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（DB/下游/网络异常等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求/依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeCanceled 调用方主动取消。
	CodeCanceled Code = "CANCELED"
	// CodeNotFound 目标资源不存在。
	CodeNotFound Code = "NOT_FOUND"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一哨兵错误（通过 WithData/WithCause 派生新对象，禁止原地修改）。
var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrCanceled    = NewBiz(CodeCanceled, "请求已取消")
	ErrNotFound    = NewBiz(CodeNotFound, "资源不存在")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)
