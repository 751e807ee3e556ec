package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/response"
	"github.com/mosakai/sns-sdk/service"
)

const (
	// ContextUserIDKey gin context 里保存 user id 的 key
	ContextUserIDKey = "user_id"
	ContextTokenKey  = "token"
)

// AuthOptions 可选配置。
type AuthOptions struct {
	// HeaderKey 默认 Authorization
	HeaderKey string
	// QueryKey 默认 token
	QueryKey string
	// UserIDKey 默认 user_id
	UserIDKey string
	// TokenKey 默认 token
	TokenKey string
}

func (o *AuthOptions) withDefaults() AuthOptions {
	if o == nil {
		return AuthOptions{HeaderKey: "Authorization", QueryKey: "token", UserIDKey: ContextUserIDKey, TokenKey: ContextTokenKey}
	}
	out := *o
	if out.HeaderKey == "" {
		out.HeaderKey = "Authorization"
	}
	if out.QueryKey == "" {
		out.QueryKey = "token"
	}
	if out.UserIDKey == "" {
		out.UserIDKey = ContextUserIDKey
	}
	if out.TokenKey == "" {
		out.TokenKey = ContextTokenKey
	}
	return out
}

func extractToken(c *gin.Context, cfg AuthOptions) string {
	// 1) header bearer
	ah := strings.TrimSpace(c.GetHeader(cfg.HeaderKey))
	if ah != "" {
		parts := strings.SplitN(ah, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	// 2) query fallback
	return strings.TrimSpace(c.Query(cfg.QueryKey))
}

/*
	GinAuthMiddleware Gin 鉴权中间件（强制登录）：

- 优先从 Authorization: Bearer <token> 读取
- 如果没有，再从 query 参数读取（默认 token=xxx）
- 校验 token -> userID（Redis + 账号状态）成功后，写入 gin.Context
- 缺失/无效 token 返回 401，账号被禁用返回 403

使用：router.Use(middleware.GinAuthMiddleware(authService, nil))
*/
func GinAuthMiddleware(auth *service.AuthService, opt *AuthOptions) gin.HandlerFunc {
	cfg := opt.withDefaults()

	return func(c *gin.Context) {
		if auth == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
				Code: response.CodeInternalError,
				Msg:  "auth service is nil",
			})
			return
		}

		token := extractToken(c, cfg)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Code: response.CodeTokenInvalid,
				Msg:  "缺少认证令牌",
			})
			return
		}

		uid, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, service.ErrTargetDisabled) {
				status = http.StatusForbidden
			}
			c.AbortWithStatusJSON(status, *response.FromError(err))
			return
		}

		c.Set(cfg.UserIDKey, uid)
		c.Set(cfg.TokenKey, token)
		c.Next()
	}
}

// GinOptionalAuthMiddleware 可选鉴权中间件：
// token 缺失或无效不拦截请求，降级为匿名访问者（不写 user_id）。
// 动态流、评论列表等容忍匿名的只读接口用它。
func GinOptionalAuthMiddleware(auth *service.AuthService, opt *AuthOptions) gin.HandlerFunc {
	cfg := opt.withDefaults()

	return func(c *gin.Context) {
		if auth == nil {
			c.Next()
			return
		}

		token := extractToken(c, cfg)
		if token == "" {
			c.Next()
			return
		}

		viewer := auth.AuthenticateOptional(c.Request.Context(), token)
		if !viewer.Anonymous {
			c.Set(cfg.UserIDKey, viewer.ID)
			c.Set(cfg.TokenKey, token)
		}
		c.Next()
	}
}
