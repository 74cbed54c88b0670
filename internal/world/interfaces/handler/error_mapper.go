package handler

import (
	"Wayfarer/internal/shared/transport"
	worldactor "Wayfarer/internal/world/actor"
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/errx"
	"Wayfarer/modules/kit/logx"
	"context"
	"errors"
)

const busyMessage = "系统繁忙，请稍后重试"

// ClientCode 把错误映射成对外业务码。
func ClientCode(err error) int {
	var re *worldactor.RuntimeError
	switch {
	case err == nil:
		return transport.OK
	case errors.Is(err, service.ErrConfiguration),
		errors.Is(err, app.ErrWorldNameInvalid),
		errors.Is(err, errx.ErrReqParamERR):
		return transport.InvalidParam
	case errors.Is(err, errx.ErrNotFound):
		return transport.NotFound
	case errors.Is(err, service.ErrGenerationCanceled),
		errors.Is(err, errx.ErrCanceled):
		return transport.Canceled
	case errors.Is(err, service.ErrGenerationFailed):
		return transport.GenerateFailed
	case errors.Is(err, errx.ErrUnavailable):
		return transport.Unavailable
	case errors.Is(err, errx.ErrTimeout):
		return transport.Timeout
	case errors.As(err, &re):
		return worldactor.CodeFromError(err)
	default:
		return transport.SystemError
	}
}

// HandleError 每个请求只调用一次：打日志、记 reason，返回对外的 code 和文案。
func HandleError(ctx context.Context, log logx.Logger, action string, err error) (int, string) {
	code := ClientCode(err)
	var e *errx.Error
	isErrx := errors.As(err, &e)
	if isErrx && e.Reason() != "" {
		transport.SetErrorReason(ctx, e.Reason())
	}

	if isErrx && !e.IsSys() {
		logx.ReportBizWithLoggerContext(ctx, log, logx.NewBizLog(action, string(e.Code()), e.Msg()))
		return code, e.Msg()
	}
	if code < transport.SystemError {
		// actor 层的参数类错误
		return code, err.Error()
	}
	logx.ReportSysErrorWithLoggerContext(ctx, log, logx.NewSysLog(action, err))
	return code, busyMessage
}
