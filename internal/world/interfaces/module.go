package interfaces

import (
	transporthttp "Wayfarer/internal/shared/transport/http"
	"Wayfarer/internal/shared/transport/ws"
	"Wayfarer/internal/world/interfaces/handler"
	"Wayfarer/internal/world/interfaces/handler/http"
	ws2 "Wayfarer/internal/world/interfaces/handler/ws"
	"Wayfarer/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(worlds handler.WorldAPI, log logx.Logger) *Module {
	return &Module{
		wsHandler:   ws2.NewWsHandler(worlds, log),
		httpHandler: http.NewHttpHandler(worlds, log),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
