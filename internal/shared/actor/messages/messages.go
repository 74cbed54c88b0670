package messages

// FailResp actor 层的统一失败回复。
type FailResp struct {
	Code    int
	Message string
}

// GenerationMessage 所有路由到某个生成会话的消息。
type GenerationMessage interface {
	RequestID() string
}

type GenerationBaseMessage struct {
	ReqID string
}

func (m GenerationBaseMessage) RequestID() string {
	return m.ReqID
}
