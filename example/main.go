package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sns_sdk "github.com/mosakai/sns-sdk"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 1. 初始化数据库连接
	dsn := "root:password@tcp(127.0.0.1:3306)/sns_db?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("数据库连接失败:", err)
	}

	// 2. 初始化 Redis（登录 token 存储）
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})

	// 3. 初始化 Social Engine（单例模式，全局只需调用一次）
	engine := sns_sdk.NewEngine(
		sns_sdk.WithDB(db),
		sns_sdk.WithRDB(rdb),
		sns_sdk.WithTablePrefix("sns_"), // 自定义表前缀
	)

	// 4. 创建 Gin 路由
	r := gin.Default()

	// 设置 CORS（如果需要）
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 注册 Swagger UI
	sns_sdk.RegisterSwagger(r, "/swagger/*any")

	// 5. API 路由组
	api := r.Group("/api/v1")

	// 用户模块（注册/登录免鉴权）
	userAPI := api.Group("/user")
	{
		userAPI.POST("/register", engine.GinHandleUserRegister)
		userAPI.POST("/login", engine.GinHandleUserLogin)
		userAPI.GET("/info", engine.GinAuthMiddleware(nil), engine.GinHandleGetUserInfo)
	}

	// 关注模块
	followAPI := api.Group("/follow", engine.GinAuthMiddleware(nil))
	{
		followAPI.POST("", engine.GinHandleFollowUser)
		followAPI.DELETE("", engine.GinHandleUnfollowUser)
	}

	// 点赞模块
	likeAPI := api.Group("/like", engine.GinAuthMiddleware(nil))
	{
		likeAPI.POST("", engine.GinHandleLike)
		likeAPI.DELETE("", engine.GinHandleUnlike)
	}

	// 动态模块（动态流可匿名访问，未登录只看公开内容）
	postAPI := api.Group("/post")
	{
		postAPI.POST("/create", engine.GinAuthMiddleware(nil), engine.GinHandleCreatePost)
		postAPI.DELETE("", engine.GinAuthMiddleware(nil), engine.GinHandleDeletePost)
		postAPI.GET("/feed", engine.GinOptionalAuthMiddleware(nil), engine.GinHandleGetFeed)
	}

	// 评论模块（列表可匿名访问）
	commentAPI := api.Group("/comment")
	{
		commentAPI.POST("/create", engine.GinAuthMiddleware(nil), engine.GinHandleCreateComment)
		commentAPI.DELETE("", engine.GinAuthMiddleware(nil), engine.GinHandleDeleteComment)
		commentAPI.GET("/list", engine.GinOptionalAuthMiddleware(nil), engine.GinHandleGetComments)
		commentAPI.GET("/replies", engine.GinOptionalAuthMiddleware(nil), engine.GinHandleGetReplies)
	}

	// 6. 启动服务器
	log.Println("SNS Server 启动在 :8080")
	log.Println("Swagger UI: http://localhost:8080/swagger/index.html")
	if err := r.Run(":8080"); err != nil {
		log.Fatal("服务器启动失败:", err)
	}
}
