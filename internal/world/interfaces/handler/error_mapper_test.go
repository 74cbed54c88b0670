package handler

import (
	"context"
	"errors"
	"testing"

	"Wayfarer/internal/shared/transport"
	worldactor "Wayfarer/internal/world/actor"
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/app/port"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
)

func TestClientCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, transport.OK},
		{"配置错误", service.ErrConfiguration.WithData("width", 0), transport.InvalidParam},
		{"名字非法", app.ErrWorldNameInvalid, transport.InvalidParam},
		{"不存在", port.ErrWorldNotFound, transport.NotFound},
		{"取消", service.ErrGenerationCanceled.WithCause(context.Canceled), transport.Canceled},
		{"失败", service.ErrGenerationFailed, transport.GenerateFailed},
		{"超时", &worldactor.RuntimeError{Code: transport.Timeout, Message: "t"}, transport.Timeout},
		{"未知", errors.New("boom"), transport.SystemError},
	}
	for _, c := range cases {
		if got := ClientCode(c.err); got != c.want {
			t.Fatalf("%s: got=%d want=%d", c.name, got, c.want)
		}
	}
}

func TestHandleError_业务错误透出文案系统错误隐藏(t *testing.T) {
	code, msg := HandleError(context.Background(), logx.Nop(), "test", app.ErrWorldNameInvalid)
	if code != transport.InvalidParam || msg != "世界名称不合法" {
		t.Fatalf("biz got=%d %q", code, msg)
	}
	code, msg = HandleError(context.Background(), logx.Nop(), "test", errors.New("db down"))
	if code != transport.SystemError || msg != busyMessage {
		t.Fatalf("sys got=%d %q", code, msg)
	}
}
