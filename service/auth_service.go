package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/mosakai/sns-sdk/models"
	"github.com/mosakai/sns-sdk/response"
	"gorm.io/gorm"
)

var (
	ErrMissingToken = &Error{response.CodeTokenInvalid, "缺少认证令牌"}
	ErrTokenInvalid = &Error{response.CodeTokenInvalid, "认证令牌无效"}
)

// AuthService 提供鉴权核心能力，供中间件/拦截器使用。
// - 解析 token（Bearer 优先，其次 query）
// - 校验 token -> userID（Redis），并确认账号存在且未被禁用
//
// Gin 中间件作为单独适配层，内部调用该 service。
type AuthService struct {
	token   *TokenService
	userDao *models.UserDAO
}

func NewAuthService(rdb *redis.Client, db *gorm.DB) *AuthService {
	return &AuthService{token: NewTokenService(rdb), userDao: models.NewUserDAO(db)}
}

// ExtractToken 从 HTTP 请求中提取 token：优先 Authorization: Bearer，其次 query: token。
func (a *AuthService) ExtractToken(r *http.Request) string {
	if r == nil {
		return ""
	}

	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah != "" {
		parts := strings.SplitN(ah, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// Authenticate 根据 token 获取 userID。
// token 无效/过期返回 ErrTokenInvalid，账号被禁用返回 ErrTargetDisabled。
func (a *AuthService) Authenticate(ctx context.Context, token string) (uint64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, ErrMissingToken
	}

	uid, err := a.token.GetUserIDByToken(ctx, token)
	if err != nil {
		if err == redis.Nil {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}

	u, err := a.userDao.FindByID(uid)
	if err != nil {
		if a.userDao.IsNotFound(err) {
			return 0, ErrTokenInvalid
		}
		return 0, err
	}
	if u.Status == models.UserStatusDisabled {
		return 0, ErrTargetDisabled
	}
	return uid, nil
}

// AuthenticateOptional 可选鉴权：任何失败都降级为匿名访问者，不报错。
// 只读接口（动态流、评论列表）用它。
func (a *AuthService) AuthenticateOptional(ctx context.Context, token string) Viewer {
	uid, err := a.Authenticate(ctx, token)
	if err != nil {
		return AnonymousViewer
	}
	return AuthedViewer(uid)
}

// RevokeToken 注销单个 token。
func (a *AuthService) RevokeToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return a.token.RevokeToken(ctx, token)
}
