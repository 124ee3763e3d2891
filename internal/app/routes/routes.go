package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/dananjarukshan/CBC-Website/docs"
	"github.com/dananjarukshan/CBC-Website/internal/app/controllers"
	"github.com/dananjarukshan/CBC-Website/internal/app/middleware"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services/container"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化认证中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// 身份提取对所有路由生效：无令牌的请求以未认证身份继续，
	// 携带无效令牌的请求在进入处理器前被拒绝
	api := r.Group("/")
	api.Use(middleware.ExtractIdentity())

	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册仅限管理员的路由
	registerAdminRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 添加兼容Docker健康检查的路由

	// 健康状态路由组
	healthGroup := api.Group("/health")
	healthGroup.GET("/status", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Second}), controllers.HandleHealthFunc(container, "status"))
	healthGroup.GET("/cache-stats", controllers.HandleHealthFunc(container, "cacheStats"))

	// 用户路由：注册与登录
	api.POST("/users", controllers.HandleUserFunc(container, "register"))
	// 登录路由附加更严格的路径限流，配合登录守卫抵御暴力破解
	api.POST("/users/login", middleware.PathRateLimiter(5, 10), controllers.HandleUserFunc(container, "login"))

	// 商品读取路由：所有人可访问，可见范围由角色决定
	api.GET("/products", controllers.HandleProductFunc(container, "getProducts"))
	api.GET("/products/:id", controllers.HandleProductFunc(container, "getProduct"))
}

// registerAdminRoutes 注册仅限管理员的路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加管理员权限中间件
	admin := api.Group("/")
	admin.Use(middleware.RequireAdmin())

	// 添加通用限流中间件 - 每秒30个请求，最多突发50个请求
	admin.Use(middleware.IPRateLimiter(30, 50))

	// 商品写入路由
	admin.POST("/products", controllers.HandleProductFunc(container, "createProduct"))
	admin.PUT("/products/:id", controllers.HandleProductFunc(container, "updateProduct"))
	admin.DELETE("/products/:id", controllers.HandleProductFunc(container, "deleteProduct"))
	admin.GET("/products/export", controllers.HandleProductFunc(container, "exportProducts"))
}
