package actor

import (
	"Wayfarer/internal/shared/actor/messages"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/internal/world/actors"
	"Wayfarer/internal/world/dc"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

const defaultAskTimeout = 10 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(catalogs *entity.Catalogs, opts service.Options, worldDC *dc.WorldDC, logger logx.Logger, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(catalogs, opts, worldDC, logger)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

// Generate 请求一次生成并等待结果。ctx 取消或超时时向会话发送取消消息，
// 会话在下一步之前结束并回复 GENERATION_CANCELED。
func (r *Runtime) Generate(ctx context.Context, req *messages.GenerateWorld) (*service.Result, error) {
	if req == nil {
		return nil, &RuntimeError{Code: transport.InvalidParam, Message: "生成请求为空"}
	}
	if req.ReqID == "" {
		req.ReqID = uuid.NewString()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ctx.Err(); err != nil {
		return nil, service.ErrGenerationCanceled.WithCause(err)
	}
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}

	// 先投递请求再监听 ctx，保证取消消息排在生成请求之后
	future := r.root.RequestFuture(r.manager, req, r.timeoutFromContext(ctx))
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.cancel(req.ReqID, ctx.Err().Error())
		case <-done:
		}
	}()

	res, err := futureResult(future)
	if err != nil {
		r.cancel(req.ReqID, "ask timeout")
		return nil, err
	}
	switch v := res.(type) {
	case *actors.GenerateReply:
		if v.Err != nil {
			return nil, v.Err
		}
		return v.Result, nil
	case *messages.FailResp:
		return nil, &RuntimeError{Code: v.Code, Message: v.Message}
	default:
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor 回复类型错误"}
	}
}

func (r *Runtime) cancel(reqID, reason string) {
	if r == nil || r.root == nil {
		return
	}
	r.root.Send(r.manager, &messages.CancelGeneration{
		GenerationBaseMessage: messages.GenerationBaseMessage{ReqID: reqID},
		Reason:                reason,
	})
}

func futureResult(future *protoactor.Future) (any, error) {
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
