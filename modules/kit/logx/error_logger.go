package logx

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// codeCanceled 客户端主动取消，不算异常。
const codeCanceled = 499

// BizLog 业务拒绝：参数非法、资源不存在这类可预期的失败。
type BizLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 技术错误：求解器异常、落库失败等。
type SysLog struct {
	Action string
	Err    error
}

func NewBizLog(action, reason, message string) BizLog {
	return BizLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// accessLevel 0 和 499 记 INFO，其余 <500 记 WARN，>=500 记 ERROR。
func accessLevel(bizCode int) zapcore.Level {
	switch {
	case bizCode == 0, bizCode == codeCanceled:
		return zapcore.InfoLevel
	case bizCode >= 500:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	all := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)
	emit(l.WithContext(ctx), accessLevel(bizCode), "access", all)
}

// ReportBizWithLoggerContext 业务拒绝记 INFO，不带栈。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, biz BizLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := orDefault(biz.Action, "biz_reject")
	all := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if biz.Reason != "" {
		all = append(all, zap.String("reason", biz.Reason))
	}
	if biz.Message != "" {
		all = append(all, zap.String("biz_message", biz.Message))
	}
	all = append(all, fields...)
	l.WithContext(ctx).Info(summary(action, "reason", biz.Reason, "msg", biz.Message), all...)
}

// ReportSysErrorWithLoggerContext 技术错误记 ERROR，附错误码、cause 链和发生处的栈。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := orDefault(sys.Action, "sys_error")
	meta := BuildErrorLog(sys.Err)

	all := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	all = append(all, meta.Fields()...)
	all = append(all, fields...)

	var msg string
	switch {
	case meta.Reason != "":
		msg = summary(action, "reason", meta.Reason, "error", meta.Error)
	default:
		msg = summary(action, "error", meta.Error, "msg", meta.Msg)
	}
	l.WithContext(ctx).Error(msg, all...)
}

func emit(l Logger, lvl zapcore.Level, msg string, fields []zap.Field) {
	switch lvl {
	case zapcore.ErrorLevel:
		l.Error(msg, fields...)
	case zapcore.WarnLevel:
		l.Warn(msg, fields...)
	default:
		l.Info(msg, fields...)
	}
}

// summary 拼成 "action, k1:v1, k2:v2"，空值跳过。kv 必须成对。
func summary(action string, kv ...string) string {
	var b strings.Builder
	b.WriteString(action)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		b.WriteString(", ")
		b.WriteString(kv[i])
		b.WriteByte(':')
		b.WriteString(kv[i+1])
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
