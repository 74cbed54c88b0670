package actors

import (
	"Wayfarer/internal/shared/actor/messages"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/internal/world/service"
	"errors"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// GenerateReply 生成会话的最终回复，Result 与 Err 恰有一个非空。
type GenerateReply struct {
	ReqID  string
	Result *service.Result
	Err    error
}

type GeneratorHandler struct{}

var GH = &GeneratorHandler{}

func (h *GeneratorHandler) HandleGenerateWorld(ctx actor.Context, p *GeneratorActor, req *messages.GenerateWorld) {
	if req == nil {
		respondFail(ctx, transport.InvalidParam, "request parameter error")
		return
	}
	if p.state != Init {
		respondFail(ctx, transport.SystemError, "generator already running")
		return
	}

	opts := p.opts
	opts.Width = req.Width
	opts.Height = req.Height
	opts.Seed = req.Seed
	d, err := service.NewDriver(p.catalogs, opts, nil, p.logger, req.Progress)
	if err != nil {
		ctx.Respond(&GenerateReply{ReqID: req.ReqID, Err: err})
		p.state = Finished
		ctx.Stop(ctx.Self())
		return
	}

	p.driver = d
	p.sender = ctx.Sender()
	p.state = Running
	p.logger.Info("generation started",
		zap.String("session_id", d.Session().ID),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
	)
	ctx.Send(ctx.Self(), stepTick{})
}

func (h *GeneratorHandler) HandleCancelGeneration(ctx actor.Context, p *GeneratorActor, req *messages.CancelGeneration) {
	if req == nil || p.driver == nil {
		return
	}
	var cause error
	if req.Reason != "" {
		cause = errors.New(req.Reason)
	}
	// 下一个 stepTick 里回复并退出
	p.driver.Cancel(cause)
}

func respondFail(ctx actor.Context, code int, reason string) {
	if ctx.Sender() == nil {
		return
	}
	ctx.Respond(&messages.FailResp{Code: code, Message: reason})
}
