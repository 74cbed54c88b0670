package actors

import (
	"Wayfarer/internal/shared/actor/messages"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/internal/world/dc"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// ManagerActor 按请求 id 派生 GeneratorActor，并定时驱动 WorldDC 落盘。
type ManagerActor struct {
	catalogs   *entity.Catalogs
	opts       service.Options
	dc         *dc.WorldDC
	logger     logx.Logger
	generators map[string]*actor.PID
	flushStop  chan struct{}
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

// NewManagerActor worldDC 可为空，此时不启动定时落盘。
func NewManagerActor(catalogs *entity.Catalogs, opts service.Options, worldDC *dc.WorldDC, logger logx.Logger) *ManagerActor {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ManagerActor{
		catalogs:   catalogs,
		opts:       opts,
		dc:         worldDC,
		logger:     logger,
		generators: make(map[string]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		m.startFlushLoop(ctx)
	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
		m.stopFlushLoop()
	case *actor.Terminated:
		m.forget(msg.Who)
	case flushTick:
		if m.dc == nil {
			return
		}
		if err := m.dc.Flush(context.Background()); err != nil {
			m.logger.Error("world periodic flush failed", zap.Error(err))
		}
	case *messages.GenerateWorld:
		if msg == nil || msg.ReqID == "" {
			respondFail(ctx, transport.InvalidParam, "request id is empty")
			return
		}
		if _, dup := m.generators[msg.ReqID]; dup {
			respondFail(ctx, transport.InvalidParam, "duplicate request id")
			return
		}
		ctx.Forward(m.spawn(ctx, msg.ReqID))
	case *messages.CancelGeneration:
		if msg == nil {
			return
		}
		if pid, ok := m.generators[msg.ReqID]; ok && pid != nil {
			ctx.Forward(pid)
		}
	}
}

func (m *ManagerActor) spawn(ctx actor.Context, reqID string) *actor.PID {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGeneratorActor(reqID, m.catalogs, m.opts, m.logger)
	})
	pid := ctx.Spawn(props)
	m.generators[reqID] = pid
	return pid
}

func (m *ManagerActor) forget(who *actor.PID) {
	if who == nil {
		return
	}
	for id, pid := range m.generators {
		if pid.Id == who.Id && pid.Address == who.Address {
			delete(m.generators, id)
			return
		}
	}
}

func (m *ManagerActor) startFlushLoop(ctx actor.Context) {
	if m.flushStop != nil || m.dc == nil {
		return
	}
	interval := m.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	m.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(m.flushStop, interval)
}

func (m *ManagerActor) stopFlushLoop() {
	if m.flushStop == nil {
		return
	}
	close(m.flushStop)
	m.flushStop = nil
}
