package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"Wayfarer/internal/shared/transport"
	"Wayfarer/internal/shared/transport/ws"
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/service"
	"Wayfarer/modules/kit/logx"
)

type pushed struct {
	name string
	data any
}

type fakeConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushes chan pushed
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, pushes: make(chan pushed, 64), done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(k string, v any) { c.mu.Lock(); c.props[k] = v; c.mu.Unlock() }
func (c *fakeConn) GetProperty(k string) any    { c.mu.Lock(); defer c.mu.Unlock(); return c.props[k] }
func (c *fakeConn) RemoveProperty(k string)     { c.mu.Lock(); delete(c.props, k); c.mu.Unlock() }
func (c *fakeConn) Addr() string                { return "fake" }
func (c *fakeConn) Push(name string, data any)  { c.pushes <- pushed{name, data} }
func (c *fakeConn) Close()                      { c.once.Do(func() { close(c.done) }) }
func (c *fakeConn) Done() <-chan struct{}       { return c.done }

// blockingWorlds 生成时先报一次进度，然后等 ctx 结束或 release。
type blockingWorlds struct {
	release chan struct{}
}

func (b *blockingWorlds) Generate(ctx context.Context, cmd app.GenerateCmd) (entity.WorldState, error) {
	cmd.Progress("seeding", 0)
	select {
	case <-ctx.Done():
		return entity.WorldState{}, service.ErrGenerationCanceled.WithCause(ctx.Err())
	case <-b.release:
		return entity.WorldState{WorldID: 5, Name: "Ok", Width: cmd.Width, Height: cmd.Height}, nil
	}
}

func (b *blockingWorlds) Get(ctx context.Context, id entity.WorldID) (entity.WorldState, error) {
	return entity.WorldState{}, nil
}

func (b *blockingWorlds) Rename(ctx context.Context, id entity.WorldID, name string) (entity.WorldState, error) {
	return entity.WorldState{}, nil
}

func dispatch(r *ws.Router, conn ws.WSConn, name string, msg any) *ws.RespBody {
	req := &ws.WsMsgReq{Body: &ws.ReqBody{Seq: 1, Name: name, Msg: msg}, Conn: conn}
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Seq: 1, Name: name}}
	r.Dispatch(req, resp)
	return resp.Body
}

func next(t *testing.T, c *fakeConn) pushed {
	t.Helper()
	select {
	case p := <-c.pushes:
		return p
	case <-time.After(3 * time.Second):
		t.Fatalf("等待推送超时")
		return pushed{}
	}
}

func setup() (*ws.Router, *blockingWorlds) {
	worlds := &blockingWorlds{release: make(chan struct{})}
	r := ws.NewRouter(logx.Nop())
	NewWsHandler(worlds, logx.Nop()).RegisterRoutes(r)
	return r, worlds
}

func TestGenerate_推送进度与世界帧(t *testing.T) {
	r, worlds := setup()
	conn := newFakeConn()

	resp := dispatch(r, conn, "world.generate", map[string]any{"req_id": "a", "width": 8, "height": 9})
	if resp.Code != transport.OK {
		t.Fatalf("code=%d msg=%v", resp.Code, resp.Msg)
	}
	p := next(t, conn)
	if p.name != FrameProgress || p.data.(ProgressFrame).ReqID != "a" {
		t.Fatalf("progress=%+v", p)
	}
	close(worlds.release)
	p = next(t, conn)
	frame := p.data.(WorldFrame)
	if p.name != FrameWorld || frame.Code != transport.OK || frame.World == nil || frame.World.Height != 9 {
		t.Fatalf("world frame=%+v", frame)
	}
}

func TestCancel_取消后推送取消结果(t *testing.T) {
	r, _ := setup()
	conn := newFakeConn()

	dispatch(r, conn, "world.generate", map[string]any{"req_id": "b", "width": 8, "height": 8})
	next(t, conn)

	resp := dispatch(r, conn, "world.cancel", map[string]any{"req_id": "b"})
	if resp.Code != transport.OK {
		t.Fatalf("cancel code=%d", resp.Code)
	}
	frame := next(t, conn).data.(WorldFrame)
	if frame.Code != transport.Canceled || frame.World != nil {
		t.Fatalf("frame=%+v", frame)
	}
}

func TestCancel_未知任务(t *testing.T) {
	r, _ := setup()
	resp := dispatch(r, newFakeConn(), "world.cancel", map[string]any{"req_id": "zzz"})
	if resp.Code != transport.NotFound {
		t.Fatalf("code=%d", resp.Code)
	}
}

func TestGenerate_连接断开即取消(t *testing.T) {
	r, _ := setup()
	conn := newFakeConn()

	dispatch(r, conn, "world.generate", map[string]any{"req_id": "c", "width": 8, "height": 8})
	next(t, conn)
	conn.Close()
	frame := next(t, conn).data.(WorldFrame)
	if frame.Code != transport.Canceled {
		t.Fatalf("frame=%+v", frame)
	}
}

func TestGenerate_重复req_id被拒绝(t *testing.T) {
	r, worlds := setup()
	conn := newFakeConn()

	dispatch(r, conn, "world.generate", map[string]any{"req_id": "d", "width": 8, "height": 8})
	resp := dispatch(r, conn, "world.generate", map[string]any{"req_id": "d", "width": 8, "height": 8})
	if resp.Code != transport.InvalidParam {
		t.Fatalf("code=%d", resp.Code)
	}
	close(worlds.release)
}
