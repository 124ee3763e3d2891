package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
	"github.com/dananjarukshan/CBC-Website/pkg/logger"
)

// 目录事件主题常量
const (
	// TopicProductCreated 商品创建事件主题
	TopicProductCreated = "store/products/created"

	// TopicProductUpdated 商品更新事件主题
	TopicProductUpdated = "store/products/updated"

	// TopicProductDeleted 商品删除事件主题
	TopicProductDeleted = "store/products/deleted"
)

// CatalogEvent 目录变更事件消息
type CatalogEvent struct {
	Action    string          `json:"action"`
	Timestamp int64           `json:"timestamp"`
	Product   *models.Product `json:"product"`
}

// InterfaceCatalogEventService 目录事件服务接口
type InterfaceCatalogEventService interface {
	Connect() error
	Disconnect()
	PublishProductEvent(action string, product *models.Product) error
}

// CatalogEventService 通过MQTT发布商品目录变更事件。
// 发布是尽力而为的：失败不影响触发它的写操作。
type CatalogEventService struct {
	Config       *config.Config
	Client       mqtt.Client
	IsConnected  bool
	publishMutex sync.Mutex // 用于保护MQTT消息发布
}

// NewCatalogEventService 创建一个新的目录事件服务
func NewCatalogEventService(cfg *config.Config) InterfaceCatalogEventService {
	s := &CatalogEventService{
		Config:      cfg,
		IsConnected: false,
	}
	s.setupMQTTClient()
	return s
}

// setupMQTTClient 配置MQTT客户端
func (s *CatalogEventService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	opts.SetClientID(s.Config.MQTTClientID)
	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)

	// 回调在paho自己的协程中触发，连接状态必须通过锁写入
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("MQTT连接断开: %v", err)
		s.setConnected(false)
	})

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("MQTT已连接: %s", s.Config.MQTTBrokerURL)
		s.setConnected(true)
	})

	s.Client = mqtt.NewClient(opts)
}

// Connect 连接到MQTT服务器
func (s *CatalogEventService) Connect() error {
	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()
	return s.connectLocked()
}

// connectLocked 执行连接，调用方必须持有publishMutex
func (s *CatalogEventService) connectLocked() error {
	if s.IsConnected && s.Client.IsConnected() {
		return nil
	}

	token := s.Client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("MQTT连接超时: %s", s.Config.MQTTBrokerURL)
	}
	if token.Error() != nil {
		return token.Error()
	}

	s.IsConnected = true
	return nil
}

// setConnected 在锁保护下更新连接状态
func (s *CatalogEventService) setConnected(v bool) {
	s.publishMutex.Lock()
	s.IsConnected = v
	s.publishMutex.Unlock()
}

// Disconnect 断开MQTT连接
func (s *CatalogEventService) Disconnect() {
	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.IsConnected = false
}

// PublishProductEvent 发布一条目录变更事件
func (s *CatalogEventService) PublishProductEvent(action string, product *models.Product) error {
	var topic string
	switch action {
	case "created":
		topic = TopicProductCreated
	case "updated":
		topic = TopicProductUpdated
	case "deleted":
		topic = TopicProductDeleted
	default:
		return fmt.Errorf("未知的目录事件类型: %s", action)
	}

	event := CatalogEvent{
		Action:    action,
		Timestamp: time.Now().UnixMilli(),
		Product:   product,
	}
	return s.publishMessage(topic, event)
}

// publishMessage 序列化并发布消息，未连接时先尝试重连
func (s *CatalogEventService) publishMessage(topic string, payload interface{}) error {
	s.publishMutex.Lock()
	defer s.publishMutex.Unlock()

	if !s.IsConnected || !s.Client.IsConnected() {
		if err := s.connectLocked(); err != nil {
			return err
		}
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	qos := byte(s.Config.MQTTQoS)
	token := s.Client.Publish(topic, qos, s.Config.MQTTRetained, jsonData)
	if !token.WaitTimeout(3 * time.Second) {
		return fmt.Errorf("发布到主题 %s 超时", topic)
	}
	return token.Error()
}
