package ws

import (
	"Wayfarer/internal/shared/logs"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/modules/kit/logx"
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const busyMsg = "系统繁忙，请稍后重试"

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Middleware 包一层处理器，先注册的在最外层。
type Middleware func(next HandlerFunc) HandlerFunc

// Group 同一前缀下的一组处理器，消息名形如 world.generate。
type Group struct {
	prefix string
	router *Router
	mws    []Middleware
}

// Use 只作用于之后注册的处理器。
func (g *Group) Use(mws ...Middleware) *Group {
	g.mws = append(g.mws, mws...)
	return g
}

func (g *Group) Handle(name string, h HandlerFunc, mws ...Middleware) {
	chain := append(slices.Clone(g.mws), mws...)
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	g.router.routes[g.prefix+"."+name] = h
}

// Router 不加锁：所有 Handle 都在服务启动前完成。
type Router struct {
	groups map[string]*Group
	routes map[string]HandlerFunc
	log    logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logs.Kit()
	}
	return &Router{
		groups: make(map[string]*Group),
		routes: make(map[string]HandlerFunc),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	g, ok := r.groups[prefix]
	if !ok {
		g = &Group{prefix: prefix, router: r}
		r.groups[prefix] = g
	}
	return g
}

// Routes 已注册的消息名，按字典序。
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for name := range r.routes {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Dispatch 响应码先置为系统错误，处理器漏设时不会出现成功假象。
func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	ctx := transport.NewContext(context.Background(), action)
	resp.Body.Code, resp.Body.Msg = transport.SystemError, nil
	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
		transport.WriteAccessLog(ctx, r.log)
	}()

	if req == nil || req.Body == nil {
		fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	h, msg := r.lookup(req.Body.Name)
	if h == nil {
		fail(resp, transport.InvalidParam, msg)
		return
	}
	r.invoke(ctx, h, req, resp)
}

func (r *Router) lookup(name string) (HandlerFunc, string) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return nil, "路由参数有误"
	}
	if _, ok := r.groups[prefix]; !ok {
		return nil, "路由组不存在"
	}
	h, ok := r.routes[name]
	if !ok {
		return nil, "路由处理器不存在"
	}
	return h, ""
}

// invoke 处理器 panic 不能带走读循环。
func (r *Router) invoke(ctx context.Context, h HandlerFunc, req *WsMsgReq, resp *WsMsgResp) {
	defer func() {
		if p := recover(); p != nil {
			r.log.WithContext(ctx).Error("ws handler panic",
				zap.String("name", req.Body.Name),
				zap.String("panic", fmt.Sprint(p)),
			)
			fail(resp, transport.SystemError, busyMsg)
		}
	}()
	h(ctx, req, resp)
}

func fail(resp *WsMsgResp, code int, msg string) {
	resp.Body.Code = code
	resp.Body.Msg = msg
}
