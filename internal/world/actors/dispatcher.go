package actors

import (
	"Wayfarer/internal/shared/actor/messages"
	"Wayfarer/internal/shared/transport"
	"reflect"

	"github.com/asynkron/protoactor-go/actor"
)

type handlerFunc func(ctx actor.Context, p *GeneratorActor, req messages.GenerationMessage)

// Dispatcher 按消息的具体类型路由到 GeneratorHandler 的方法。注册只在构造时发生，之后只读。
type Dispatcher struct {
	handlers map[reflect.Type]handlerFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[reflect.Type]handlerFunc)}
	register(d, GH.HandleGenerateWorld)
	register(d, GH.HandleCancelGeneration)
	return d
}

// register Req 必须是指针类型，typed nil 的 reflect.TypeOf 仍能拿到具体类型。
func register[Req messages.GenerationMessage](d *Dispatcher, fn func(ctx actor.Context, p *GeneratorActor, req Req)) {
	var zero Req
	t := reflect.TypeOf(zero)
	if t == nil {
		panic("dispatcher: request type must be concrete")
	}
	if _, dup := d.handlers[t]; dup {
		panic("dispatcher: duplicate handler for " + t.String())
	}
	d.handlers[t] = func(ctx actor.Context, p *GeneratorActor, req messages.GenerationMessage) {
		fn(ctx, p, req.(Req))
	}
}

func (d *Dispatcher) Handles(req messages.GenerationMessage) bool {
	_, ok := d.handlers[reflect.TypeOf(req)]
	return ok
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *GeneratorActor, req messages.GenerationMessage) {
	if req == nil {
		respondFail(ctx, transport.InvalidParam, "nil request")
		return
	}
	h, ok := d.handlers[reflect.TypeOf(req)]
	if !ok {
		respondFail(ctx, transport.InvalidParam, "no handler for "+reflect.TypeOf(req).String())
		return
	}
	h(ctx, p, req)
}
