package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dananjarukshan/CBC-Website/internal/domain/models"
	"github.com/dananjarukshan/CBC-Website/internal/infrastructure/config"
)

func newTestEventService(t *testing.T) *CatalogEventService {
	t.Helper()
	service, ok := NewCatalogEventService(&config.Config{
		MQTTBrokerURL: "tcp://127.0.0.1:1",
		MQTTClientID:  "event-test",
	}).(*CatalogEventService)
	require.True(t, ok)
	return service
}

func TestPublishProductEventUnknownAction(t *testing.T) {
	service := newTestEventService(t)

	err := service.PublishProductEvent("archived", &models.Product{ProductID: "CBC-001"})
	assert.Error(t, err)
}

// 连接状态由paho回调协程与发布方并发读写，必须经过锁
func TestConnectionStateConcurrency(t *testing.T) {
	service := newTestEventService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(v bool) {
			defer wg.Done()
			service.setConnected(v)
		}(i%2 == 0)
		go func() {
			defer wg.Done()
			service.Disconnect()
		}()
	}
	wg.Wait()

	service.Disconnect()
	assert.False(t, service.IsConnected)
}
