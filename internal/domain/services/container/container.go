package container

import (
	"sync"

	"gorm.io/gorm"

	"github.com/dananjarukshan/CBC-Website/internal/domain/services"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
	"github.com/dananjarukshan/CBC-Website/pkg/logger"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 目录事件服务
	eventService services.InterfaceCatalogEventService

	// 业务服务
	userService    services.InterfaceUserService
	productService services.InterfaceProductService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config)

	// Redis不可用时商品服务直接访问数据库
	cache := c.redisService
	if err := c.redisService.Ping(); err != nil {
		logger.Warning("Redis连接测试失败: %v，将不使用Redis缓存", err)
		cache = nil
	}

	// 初始化目录事件服务
	if c.config.MQTTEnabled {
		c.eventService = services.NewCatalogEventService(c.config)
		if err := c.eventService.Connect(); err != nil {
			logger.Warning("MQTT服务连接失败: %v", err)
		}
	}

	// 初始化业务服务
	c.userService = services.NewUserService(c.db, c.config)
	c.productService = services.NewProductService(c.db, c.config, cache, c.eventService)
}

// GetService 根据名称获取服务实例
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "event":
		return c.eventService
	case "user":
		return c.userService
	case "product":
		return c.productService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	return c.config
}
