package sns_sdk

import (
	"log"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/mosakai/sns-sdk/middleware"
	model "github.com/mosakai/sns-sdk/models"
	"github.com/mosakai/sns-sdk/service"
)

type SocialEngine struct {
	config *Config

	UserService      *service.UserService
	FollowService    *service.FollowService
	LikeService      *service.LikeService
	PostService      *service.PostService
	CommentService   *service.CommentService
	AuthService      *service.AuthService // 鉴权服务
	ReconcileService *service.ReconcileService
}

var (
	Instance *SocialEngine
	once     sync.Once
)

// NewEngine 创建实例
// 使用选项模式传入配置，Option回调
func NewEngine(opts ...Option) *SocialEngine {
	once.Do(func() {
		c := &Config{
			TablePrefix: "sns_", // Default
		}
		for _, opt := range opts {
			opt(c)
		}

		Instance = &SocialEngine{config: c}

		// 初始化基础 Service
		baseService := &service.Service{
			DB:          c.DB,
			RDB:         c.RDB,
			TablePrefix: c.TablePrefix,
		}

		// 初始化各个 Service
		// LikeService 被动态/评论列表复用（isLiked 标注），先建
		Instance.LikeService = service.NewLikeService(baseService)
		Instance.UserService = service.NewUserService(baseService)
		Instance.FollowService = service.NewFollowService(baseService)
		Instance.PostService = service.NewPostService(baseService, Instance.LikeService)
		Instance.CommentService = service.NewCommentService(baseService, Instance.LikeService)
		Instance.ReconcileService = service.NewReconcileService(baseService)
		Instance.AuthService = service.NewAuthService(c.RDB, c.DB) // 初始化鉴权服务

		// 迁移表
		if err := Instance.AutoMigrate(); err != nil {
			log.Printf("AutoMigrate failed: %v", err)
		}
	})

	return Instance
}

func (c *SocialEngine) AutoMigrate() error {
	db := c.config.DB
	log.Println("AutoMigrate...")
	return db.AutoMigrate(
		&model.User{},
		&model.Follow{},
		&model.Like{},
		&model.Post{},
		&model.Comment{},
	)
}

// ReconcileCounters 计数对账：比对冗余计数和活跃边 COUNT，repair 为 true 时修复。
// 建议低峰期由调用方定时触发。
func (c *SocialEngine) ReconcileCounters(repair bool) ([]service.CounterDivergence, error) {
	return c.ReconcileService.Run(repair)
}

// GinAuthMiddleware 返回配置好的 Gin 鉴权中间件（强制登录）
// 使用 SocialEngine 内部的 AuthService 和 Redis 配置
//
// 使用示例:
//
//	engine := sns_sdk.NewEngine(...)
//	r := gin.Default()
//	r.Use(engine.GinAuthMiddleware(nil)) // 使用默认配置
//	// 或自定义配置
//	r.Use(engine.GinAuthMiddleware(&middleware.AuthOptions{
//	    HeaderKey: "X-Token",
//	    QueryKey: "access_token",
//	}))
func (c *SocialEngine) GinAuthMiddleware(opt *middleware.AuthOptions) gin.HandlerFunc {
	return middleware.GinAuthMiddleware(c.AuthService, opt)
}

// GinOptionalAuthMiddleware 返回可选鉴权中间件：未登录降级为匿名访问者。
func (c *SocialEngine) GinOptionalAuthMiddleware(opt *middleware.AuthOptions) gin.HandlerFunc {
	return middleware.GinOptionalAuthMiddleware(c.AuthService, opt)
}
