package messages

// GenerateWorld 发起一次生成。Width/Height 已由调用方夹取到合法范围。
// Progress 在生成 actor 的 goroutine 上同步调用，不能阻塞。
type GenerateWorld struct {
	GenerationBaseMessage
	Width    int
	Height   int
	Seed     int64
	Progress func(message string, percent int)
}

// CancelGeneration 请求取消；只在两步之间生效。
type CancelGeneration struct {
	GenerationBaseMessage
	Reason string
}
