package actors

import (
	"testing"

	"Wayfarer/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type unknownMsg struct{ messages.GenerationBaseMessage }

func TestDispatcher_注册的消息类型(t *testing.T) {
	d := NewDispatcher()
	if !d.Handles(&messages.GenerateWorld{}) || !d.Handles(&messages.CancelGeneration{}) {
		t.Fatalf("生成与取消消息都应有处理器")
	}
	if d.Handles(&unknownMsg{}) {
		t.Fatalf("未注册类型不应命中")
	}
	// 值类型与指针类型是不同的键
	if d.Handles(messages.GenerateWorld{}) {
		t.Fatalf("值类型不应命中")
	}
}

func TestDispatcher_重复注册panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("期望 panic")
		}
	}()
	d := NewDispatcher()
	register(d, func(actor.Context, *GeneratorActor, *messages.GenerateWorld) {})
}
