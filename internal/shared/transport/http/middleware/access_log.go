package middleware

import (
	"Wayfarer/internal/shared/transport"
	"Wayfarer/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 每个请求一条访问日志。业务码由处理器写进 ctx，没写的按 HTTP 状态推断；
// 不截获响应体，世界网格可能很大。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx := transport.NewContext(c.Request.Context(), c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if _, ok := transport.BizCodeOf(ctx); !ok {
			transport.SetBizCode(ctx, transport.CodeFromStatus(c.Writer.Status()))
		}
		transport.AddFields(ctx,
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
		)
		transport.WriteAccessLog(ctx, log)
	}
}
