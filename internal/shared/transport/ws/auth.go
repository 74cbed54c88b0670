package ws

import (
	"Wayfarer/internal/shared/security"
	"Wayfarer/internal/shared/transport"
	"context"
	"net/http"
	"strings"
)

// handshakeToken 浏览器 WebSocket 不能带自定义头，所以也接受 ?token=。
func handshakeToken(r *http.Request) string {
	if raw, ok := strings.CutPrefix(strings.TrimSpace(r.Header.Get("Authorization")), "Bearer "); ok {
		return strings.TrimSpace(raw)
	}
	return r.URL.Query().Get("token")
}

// authenticate 没带令牌时匿名接入（claims 为 nil）；带了但校验失败直接拒绝握手。
func authenticate(r *http.Request) (*security.Claims, error) {
	token := handshakeToken(r)
	if token == "" || !security.Enabled() {
		return nil, nil
	}
	return security.ParseToken(token)
}

// RequireScope 要求连接握手时的令牌带 scope；未配置 JWT_SECRET 时放行。
func RequireScope(scope string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
			if !security.Enabled() {
				next(ctx, req, resp)
				return
			}
			claims, _ := req.Conn.GetProperty(ConnKeyClaims).(*security.Claims)
			switch {
			case claims == nil:
				transport.SetErrorReason(ctx, "TOKEN_MISSING")
				fail(resp, transport.Unauthorized, "token 无效")
			case !claims.HasScope(scope):
				transport.SetErrorReason(ctx, "SCOPE_MISSING")
				fail(resp, transport.Forbidden, "权限不足")
			default:
				next(ctx, req, resp)
			}
		}
	}
}
