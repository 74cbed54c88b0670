package ws

import (
	"Wayfarer/internal/shared/security"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/internal/shared/transport/ws"
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/interfaces/handler"
	"Wayfarer/internal/world/interfaces/handler/http/dto"
	"Wayfarer/modules/kit/logx"
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 推送帧名
const (
	FrameProgress = "progress"
	FrameWorld    = "world"
)

type GenerateReq struct {
	ReqID  string `json:"req_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   *int64 `json:"seed"`
	Name   string `json:"name"`
}

type GenerateAccepted struct {
	ReqID string `json:"req_id"`
}

type CancelReq struct {
	ReqID string `json:"req_id"`
}

type ProgressFrame struct {
	ReqID   string `json:"req_id"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// WorldFrame 每个生成请求恰好推送一次。
type WorldFrame struct {
	ReqID string        `json:"req_id"`
	Code  int           `json:"code"`
	Msg   string        `json:"msg,omitempty"`
	World *dto.WorldDTO `json:"world,omitempty"`
}

// WsHandler 生成在后台 goroutine 里跑，读循环不被阻塞，取消消息才能及时送达。
type WsHandler struct {
	worlds handler.WorldAPI
	log    logx.Logger

	mu   sync.Mutex
	jobs map[ws.WSConn]map[string]context.CancelFunc
}

func NewWsHandler(worlds handler.WorldAPI, log logx.Logger) *WsHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &WsHandler{
		worlds: worlds,
		log:    log,
		jobs:   make(map[ws.WSConn]map[string]context.CancelFunc),
	}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	worldGroup := r.Group("world")
	worldGroup.Handle("generate", h.Generate, ws.RequireScope(security.ScopeWorldWrite))
	worldGroup.Handle("cancel", h.Cancel)
}

func (h *WsHandler) Generate(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}

	var req GenerateReq
	if err := ws.Bind(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	if req.ReqID == "" {
		req.ReqID = uuid.NewString()
	}

	conn := wsReq.Conn
	jobCtx, cancel := context.WithCancel(context.Background())
	if !h.addJob(conn, req.ReqID, cancel) {
		cancel()
		h.fail(wsResp, transport.InvalidParam, "req_id 重复")
		return
	}

	go h.run(jobCtx, cancel, conn, req)
	h.ok(wsResp, GenerateAccepted{ReqID: req.ReqID})
}

func (h *WsHandler) Cancel(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	var req CancelReq
	if err := ws.Bind(wsReq, &req); err != nil || req.ReqID == "" {
		h.fail(wsResp, transport.InvalidParam, "参数有误")
		return
	}
	cancel, ok := h.job(wsReq.Conn, req.ReqID)
	if !ok {
		h.fail(wsResp, transport.NotFound, "生成任务不存在")
		return
	}
	cancel()
	h.ok(wsResp, GenerateAccepted{ReqID: req.ReqID})
}

func (h *WsHandler) run(ctx context.Context, cancel context.CancelFunc, conn ws.WSConn, req GenerateReq) {
	defer h.removeJob(conn, req.ReqID)
	defer cancel()

	// 连接断开即取消
	go func() {
		select {
		case <-conn.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	st, err := h.worlds.Generate(ctx, app.GenerateCmd{
		Width:  req.Width,
		Height: req.Height,
		Seed:   req.Seed,
		Name:   req.Name,
		Progress: func(message string, percent int) {
			conn.Push(FrameProgress, ProgressFrame{ReqID: req.ReqID, Message: message, Percent: percent})
		},
	})
	if err != nil {
		code, msg := handler.HandleError(ctx, h.log, "WS world.generate", err)
		conn.Push(FrameWorld, WorldFrame{ReqID: req.ReqID, Code: code, Msg: msg})
		return
	}
	world := dto.FromWorldState(st)
	h.log.Debug("ws world generated", zap.String("req_id", req.ReqID), zap.String("world_id", world.ID))
	conn.Push(FrameWorld, WorldFrame{ReqID: req.ReqID, Code: transport.OK, World: &world})
}

func (h *WsHandler) addJob(conn ws.WSConn, reqID string, cancel context.CancelFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	byID := h.jobs[conn]
	if byID == nil {
		byID = make(map[string]context.CancelFunc)
		h.jobs[conn] = byID
	}
	if _, dup := byID[reqID]; dup {
		return false
	}
	byID[reqID] = cancel
	return true
}

func (h *WsHandler) job(conn ws.WSConn, reqID string) (context.CancelFunc, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cancel, ok := h.jobs[conn][reqID]
	return cancel, ok
}

func (h *WsHandler) removeJob(conn ws.WSConn, reqID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.jobs[conn], reqID)
	if len(h.jobs[conn]) == 0 {
		delete(h.jobs, conn)
	}
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}
