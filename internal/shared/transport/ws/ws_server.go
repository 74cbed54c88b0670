package ws

import (
	"Wayfarer/internal/shared/transport"
	"Wayfarer/modules/kit/logx"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueueSize = 256
	writeWait    = 10 * time.Second
)

type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *RespBody
	property map[string]any
	sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger) *WsServer {
	if l == nil {
		l = logx.Nop()
	}
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *RespBody, outQueueSize),
		property: make(map[string]any),
		done:     make(chan struct{}),
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(name string, data any) {
	s.enqueue(&RespBody{Name: name, Code: transport.OK, Msg: data})
}

func (s *WsServer) enqueue(body *RespBody) {
	select {
	case s.outChan <- body:
	case <-s.done:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			s.log.Warn("ws_server readMsgLoop unmarshal json error", zap.Error(err))
			s.enqueue(&RespBody{Code: transport.InvalidParam, Msg: "消息格式错误"})
			continue
		}

		// req 和 resp 的 Seq 必须一致
		req := WsMsgReq{Body: &reqBody, Conn: s}
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = Bind(&req, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Code = transport.OK
			resp.Body.Msg = h
		} else {
			s.log.Debug("ws_server read msg", zap.String("name", reqBody.Name), zap.Int64("seq", reqBody.Seq))
			s.router.Dispatch(&req, &resp)
		}

		s.enqueue(resp.Body)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *RespBody) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("ws_server write marshal json error", zap.Error(err))
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warn("ws_server write error", zap.Error(err))
		s.Close()
	}
}
