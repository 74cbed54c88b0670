package transport

import (
	"Wayfarer/modules/kit/logx"
	"Wayfarer/modules/kit/tracex"
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const spanName = "world"

// AccessLog 一次 HTTP 请求或一条 WS 消息的访问记录。
// 生成请求的进度回调会在 actor 协程里写字段，所以带锁。
type AccessLog struct {
	mu      sync.Mutex
	code    BizCode
	codeSet bool
	reason  string
	fields  []zap.Field
	start   time.Time
	action  string
}

type accessLogKey struct{}

// NewContext 挂上 AccessLog 与新的 trace_id，保留 parent 的取消信号。
func NewContext(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := parent
	if traceID := tracex.NewTraceID(); traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	ctx = tracex.WithSpanID(ctx, spanName)
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		code:   BizCode(SystemError),
		start:  time.Now(),
		action: action,
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.code, al.codeSet = code, true
		al.mu.Unlock()
	}
}

// BizCodeOf 返回已写入的业务码；未写入时 ok=false。
func BizCodeOf(ctx context.Context) (BizCode, bool) {
	al := FromContext(ctx)
	if al == nil {
		return 0, false
	}
	al.mu.Lock()
	defer al.mu.Unlock()
	return al.code, al.codeSet
}

func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.mu.Lock()
		al.reason = reason
		al.mu.Unlock()
	}
}

// AddFields 追加业务字段（world_id、seed 等），随访问日志一起输出。
func AddFields(ctx context.Context, fields ...zap.Field) {
	if al := FromContext(ctx); al != nil && len(fields) > 0 {
		al.mu.Lock()
		al.fields = append(al.fields, fields...)
		al.mu.Unlock()
	}
}

// CodeFromStatus 处理器没写业务码时按 HTTP 状态推断。
func CodeFromStatus(status int) BizCode {
	switch {
	case status < http.StatusBadRequest:
		return OK
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		return Forbidden
	case status == http.StatusNotFound:
		return NotFound
	case status < http.StatusInternalServerError:
		return InvalidParam
	case status == http.StatusServiceUnavailable:
		return Unavailable
	case status == http.StatusGatewayTimeout:
		return Timeout
	default:
		return SystemError
	}
}

func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	al.mu.Lock()
	code, reason := al.code, al.reason
	fields := append([]zap.Field{zap.Duration("latency", time.Since(al.start))}, al.fields...)
	al.mu.Unlock()

	if code == OK {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if reason != "" {
			fields = append(fields, zap.String("error_reason", reason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(code), fields...)
}
