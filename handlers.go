package sns_sdk

/* @title           SNS SDK API
@version         1.0
@description     SNS SDK API documentation
@host            localhost:6789
@BasePath        /api/v1
@securityDefinitions.apikey BearerAuth
@in header
@name Authorization
*/

/* Handlers are split into:
- handler_user.go
- handler_follow.go
- handler_like.go
- handler_post.go
- handler_comment.go
*/

import (
	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/middleware"
	"github.com/mosakai/sns-sdk/service"
)

// viewerFrom 从 gin.Context 取访问者身份；可选鉴权路由里未登录即匿名。
func viewerFrom(ctx *gin.Context) service.Viewer {
	if uid, exists := ctx.Get(middleware.ContextUserIDKey); exists {
		return service.AuthedViewer(uid.(uint64))
	}
	return service.AnonymousViewer
}
