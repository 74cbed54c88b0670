package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是跨包复用的最小日志接口。
//
// 约束：
// - 只承载结构化字段 + ctx 透传（trace/span 等）
// - With 用于给一个生成会话固定 session_id 等字段
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

// Nop 返回丢弃全部输出的 Logger。
func Nop() Logger {
	return NewZapLogger(nil)
}
