package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 对外业务码，HTTP/WS 响应体的 code 字段。
const (
	OK             = 0
	InvalidParam   = 400
	Unauthorized   = 401
	Forbidden      = 403
	NotFound       = 404
	Canceled       = 499
	SystemError    = 500
	Unavailable    = 503
	Timeout        = 504
	GenerateFailed = 1001 // 求解失败且兜底布局也失败
)
