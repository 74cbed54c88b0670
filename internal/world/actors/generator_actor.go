package actors

import (
	"Wayfarer/internal/shared/actor/messages"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
	"errors"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Running
	Finished
	Stopping
)

// GeneratorActor 一次生成会话的唯一持有者。每走一步给自己发一个 stepTick，
// 两步之间让出邮箱，取消消息因此能插进来。
type GeneratorActor struct {
	state      State
	reqID      string
	catalogs   *entity.Catalogs
	opts       service.Options
	logger     logx.Logger
	driver     *service.Driver
	sender     *actor.PID
	dispatcher *Dispatcher
}

type stepTick struct{}

func (stepTick) NotInfluenceReceiveTimeout() {}

var errGeneratorStopped = errors.New("generator actor stopped")

func NewGeneratorActor(reqID string, catalogs *entity.Catalogs, opts service.Options, logger logx.Logger) *GeneratorActor {
	if logger == nil {
		logger = logx.Nop()
	}
	return &GeneratorActor{
		state:      None,
		reqID:      reqID,
		catalogs:   catalogs,
		opts:       opts,
		logger:     logger.With(zap.String("req_id", reqID)),
		dispatcher: NewDispatcher(),
	}
}

func (p *GeneratorActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
	case *actor.Stopping:
		// 被外部停掉时仍要给调用方一个答复
		if p.state == Running {
			p.driver.Cancel(errGeneratorStopped)
			p.finish(ctx)
		}
		p.state = Stopping
	case stepTick:
		p.step(ctx)
	case messages.GenerationMessage:
		p.dispatcher.Dispatch(ctx, p, msg)
	}
}

func (p *GeneratorActor) step(ctx actor.Context) {
	if p.state != Running {
		return
	}
	if !p.driver.Done() {
		_ = p.driver.Step()
	}
	if p.driver.Done() {
		p.finish(ctx)
		ctx.Stop(ctx.Self())
		return
	}
	ctx.Send(ctx.Self(), stepTick{})
}

func (p *GeneratorActor) finish(ctx actor.Context) {
	reply := &GenerateReply{ReqID: p.reqID, Err: p.driver.Err()}
	if res, ok := p.driver.Result(); ok {
		reply.Result = res
	}
	if p.sender != nil {
		ctx.Send(p.sender, reply)
	}
	p.state = Finished
}
