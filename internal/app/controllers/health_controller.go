package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dananjarukshan/CBC-Website/internal/app/middleware"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services"
	"github.com/dananjarukshan/CBC-Website/internal/domain/services/container"
	"github.com/dananjarukshan/CBC-Website/internal/error/code"
	"github.com/dananjarukshan/CBC-Website/internal/error/response"
)

// HealthController 健康检查控制器
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		case "cacheStats":
			controller.CacheStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1 Ping 健康检查端点
func (c *HealthController) Ping() {
	response.Success(c.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// 2 Status 返回各依赖组件的健康状态
func (c *HealthController) Status() {
	dbStatus := "up"
	sqlDB, err := c.Container.GetDB().DB()
	if err != nil {
		dbStatus = "down"
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "down"
		}
	}

	redisStatus := "up"
	redisService := c.Container.GetService("redis").(services.InterfaceRedisService)
	if err := redisService.Ping(); err != nil {
		redisStatus = "down"
	}

	mqttStatus := "disabled"
	if c.Container.GetConfig().MQTTEnabled {
		mqttStatus = "enabled"
	}

	response.Success(c.Ctx, gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
		"mqtt":     mqttStatus,
		"time":     time.Now().Format(time.RFC3339),
	})
}

// 3 CacheStats 返回响应缓存统计
func (c *HealthController) CacheStats() {
	response.Success(c.Ctx, middleware.CacheStats())
}
