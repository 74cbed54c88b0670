package http

import (
	"Wayfarer/internal/shared/security"
	"Wayfarer/internal/shared/transport"
	"Wayfarer/internal/shared/transport/http/middleware"
	"Wayfarer/internal/world/app"
	"Wayfarer/internal/world/entity"
	"Wayfarer/internal/world/interfaces/handler"
	"Wayfarer/internal/world/interfaces/handler/http/dto"
	"Wayfarer/modules/kit/logx"
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HttpHandler struct {
	worlds handler.WorldAPI
	log    logx.Logger
}

func NewHttpHandler(worlds handler.WorldAPI, log logx.Logger) *HttpHandler {
	if log == nil {
		log = logx.Nop()
	}
	return &HttpHandler{worlds: worlds, log: log}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	worldGroup := group.Group("/worlds")
	worldGroup.POST("", middleware.BearerAuth(security.ScopeWorldWrite), h.Generate)
	worldGroup.GET("/:id", h.Get)
	worldGroup.PATCH("/:id", middleware.BearerAuth(security.ScopeWorldWrite), h.Rename)
}

func (h *HttpHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateWorldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}

	st, err := h.worlds.Generate(ctx, app.GenerateCmd{
		Width:  req.Width,
		Height: req.Height,
		Seed:   req.Seed,
		Name:   req.Name,
	})
	if err != nil {
		h.error(ctx, c, "world.generate", err)
		return
	}
	transport.AddFields(ctx,
		zap.Int64("world_id", int64(st.WorldID)),
		zap.Int64("seed", st.Seed),
		zap.Bool("fallback", st.Fallback),
	)
	h.ok(c, dto.FromWorldState(st))
}

func (h *HttpHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseWorldID(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "世界 id 有误")
		return
	}
	st, err := h.worlds.Get(ctx, id)
	if err != nil {
		h.error(ctx, c, "world.get", err)
		return
	}
	h.ok(c, dto.FromWorldState(st))
}

func (h *HttpHandler) Rename(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseWorldID(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "世界 id 有误")
		return
	}
	var req dto.RenameWorldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "参数有误")
		return
	}
	st, err := h.worlds.Rename(ctx, id, req.Name)
	if err != nil {
		h.error(ctx, c, "world.rename", err)
		return
	}
	h.ok(c, dto.FromWorldState(st))
}

func parseWorldID(c *gin.Context) (entity.WorldID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return entity.WorldID(id), true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	transport.SetBizCode(c.Request.Context(), transport.OK)
	c.JSON(nethttp.StatusOK, dto.Success(transport.OK, data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	transport.SetBizCode(c.Request.Context(), transport.BizCode(code))
	c.JSON(nethttp.StatusOK, dto.Error(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, action string, err error) {
	code, msg := handler.HandleError(ctx, h.log, action, err)
	h.fail(c, code, msg)
}
