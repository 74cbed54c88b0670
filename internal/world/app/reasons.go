package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 技术错误 reason，用于日志与排障。
	ReasonWorldIDAlloc    = NewReason("WORLD_ID_ALLOC_FAIL", "世界 id 分配失败")
	ReasonFallbackFail    = NewReason("FALLBACK_LAYOUT_FAIL", "兜底布局失败")
	ReasonWorldRepoUnread = NewReason("WORLD_REPO_UNAVAILABLE", "世界存储不可用")
)
