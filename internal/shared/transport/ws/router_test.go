package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Wayfarer/internal/shared/security"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/modules/kit/logx"

	"github.com/gorilla/websocket"
)

func newReq(name string, msg any) (*WsMsgReq, *WsMsgResp) {
	return &WsMsgReq{Body: &ReqBody{Seq: 9, Name: name, Msg: msg}},
		&WsMsgResp{Body: &RespBody{Seq: 9, Name: name}}
}

func TestRouter_分发到处理器(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("echo", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		var in struct {
			Text string `json:"text"`
		}
		if err := Bind(req, &in); err != nil {
			t.Errorf("Bind err=%v", err)
		}
		resp.Body.Code = transport.OK
		resp.Body.Msg = in.Text
	})

	req, resp := newReq("world.echo", map[string]any{"text": "hi"})
	r.Dispatch(req, resp)
	if resp.Body.Code != transport.OK || resp.Body.Msg != "hi" {
		t.Fatalf("resp=%+v", resp.Body)
	}
}

func TestRouter_路由不存在(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world")

	for _, name := range []string{"world", "world.nope", "other.x", ".x"} {
		req, resp := newReq(name, nil)
		r.Dispatch(req, resp)
		if resp.Body.Code != transport.InvalidParam {
			t.Fatalf("name=%q code=%d", name, resp.Body.Code)
		}
	}
}

func TestRouter_未设置业务码时默认系统错误(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("noop", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	req, resp := newReq("world.noop", nil)
	r.Dispatch(req, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("code=%d", resp.Body.Code)
	}
}

func TestRouter_处理器panic被恢复(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("boom", func(context.Context, *WsMsgReq, *WsMsgResp) { panic("boom") })

	req, resp := newReq("world.boom", nil)
	r.Dispatch(req, resp)
	if resp.Body.Code != transport.SystemError {
		t.Fatalf("code=%d", resp.Body.Code)
	}
}

func TestServer_心跳与推送(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("world").Handle("ping", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		req.Conn.Push("world.pushed", "later")
		resp.Body.Code = transport.OK
		resp.Body.Msg = "pong"
	})
	srv := httptest.NewServer(NewServer(r, logx.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial err=%v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(ReqBody{Seq: 1, Name: HeartbeatMsg, Msg: map[string]any{"ctime": 5}}); err != nil {
		t.Fatalf("WriteJSON err=%v", err)
	}
	var hb struct {
		Seq  int64     `json:"seq"`
		Code int       `json:"code"`
		Msg  Heartbeat `json:"msg"`
	}
	if err := conn.ReadJSON(&hb); err != nil {
		t.Fatalf("ReadJSON err=%v", err)
	}
	if hb.Seq != 1 || hb.Msg.CTime != 5 || hb.Msg.STime == 0 {
		t.Fatalf("heartbeat=%+v", hb)
	}

	if err := conn.WriteJSON(ReqBody{Seq: 2, Name: "world.ping"}); err != nil {
		t.Fatalf("WriteJSON err=%v", err)
	}
	// 推送先于回复入队
	var pushed, reply RespBody
	if err := conn.ReadJSON(&pushed); err != nil {
		t.Fatalf("ReadJSON err=%v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON err=%v", err)
	}
	if pushed.Name != "world.pushed" || pushed.Seq != 0 {
		t.Fatalf("pushed=%+v", pushed)
	}
	if reply.Seq != 2 || reply.Code != transport.OK || reply.Msg != "pong" {
		t.Fatalf("reply=%+v", reply)
	}
}

func TestBind_数字与指针字段(t *testing.T) {
	var in struct {
		Width int    `json:"width"`
		Seed  *int64 `json:"seed"`
		Name  string `json:"name"`
	}
	req, _ := newReq("world.generate", map[string]any{"width": float64(9), "seed": float64(42), "name": "x"})
	if err := Bind(req, &in); err != nil {
		t.Fatalf("Bind err=%v", err)
	}
	if in.Width != 9 || in.Seed == nil || *in.Seed != 42 || in.Name != "x" {
		t.Fatalf("got=%+v", in)
	}

	if err := Bind(&WsMsgReq{}, &in); err != ErrEmptyBody {
		t.Fatalf("err=%v", err)
	}
}

type propConn struct {
	WSConn
	props map[string]any
}

func (c *propConn) GetProperty(k string) any { return c.props[k] }

func TestRouter_中间件顺序与scope校验(t *testing.T) {
	t.Setenv(security.SecretEnv, "ws-secret")
	r := NewRouter(logx.Nop())
	var order []string
	mark := func(tag string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
				order = append(order, tag)
				next(ctx, req, resp)
			}
		}
	}
	g := r.Group("world").Use(mark("group"))
	g.Handle("generate", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		order = append(order, "handler")
		resp.Body.Code = transport.OK
	}, mark("route"), RequireScope(security.ScopeWorldWrite))

	if got := r.Routes(); len(got) != 1 || got[0] != "world.generate" {
		t.Fatalf("routes=%v", got)
	}

	anon := &propConn{props: map[string]any{}}
	req, resp := newReq("world.generate", nil)
	req.Conn = anon
	r.Dispatch(req, resp)
	if resp.Body.Code != transport.Unauthorized {
		t.Fatalf("匿名连接 code=%d", resp.Body.Code)
	}

	viewer := &propConn{props: map[string]any{ConnKeyClaims: &security.Claims{}}}
	req, resp = newReq("world.generate", nil)
	req.Conn = viewer
	r.Dispatch(req, resp)
	if resp.Body.Code != transport.Forbidden {
		t.Fatalf("无 scope code=%d", resp.Body.Code)
	}

	order = nil
	writer := &propConn{props: map[string]any{ConnKeyClaims: &security.Claims{Scopes: []string{security.ScopeWorldWrite}}}}
	req, resp = newReq("world.generate", nil)
	req.Conn = writer
	r.Dispatch(req, resp)
	if resp.Body.Code != transport.OK {
		t.Fatalf("有 scope code=%d", resp.Body.Code)
	}
	if strings.Join(order, ",") != "group,route,handler" {
		t.Fatalf("order=%v", order)
	}
}

func TestServer_握手令牌无效被拒(t *testing.T) {
	t.Setenv(security.SecretEnv, "ws-secret")
	srv := httptest.NewServer(NewServer(NewRouter(logx.Nop()), logx.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatalf("期望握手失败")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("resp=%v", resp)
	}
}
