package ws

import (
	"Wayfarer/modules/kit/logx"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			// 跨域由前置网关控制，这里不拦
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	claims, err := authenticate(req)
	if err != nil {
		s.log.Warn("websocket handshake rejected", zap.String("addr", req.RemoteAddr), zap.Error(err))
		http.Error(resp, "token 无效", http.StatusUnauthorized)
		return
	}
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.Info("websocket upgrade success", zap.String("addr", wsConn.RemoteAddr().String()))

	wsServer := NewWsServer(wsConn, s.log)
	if claims != nil {
		wsServer.SetProperty(ConnKeyClaims, claims)
	}
	wsServer.Router(s.router)
	wsServer.Run()
}
