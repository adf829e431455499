package notify

import (
	"sync"

	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"
)

// client 单个websocket连接，写操作需要串行
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(notification *model.NotificationModel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(notification)
}

// Hub 按用户维护实时通知连接，推送通过协程池异步执行
type Hub struct {
	mu      sync.RWMutex
	clients map[int64][]*client
	pool    *ants.Pool
}

// NewHub 创建通知Hub
func NewHub(workers int) (*Hub, error) {
	if workers <= 0 {
		workers = 16
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	return &Hub{
		clients: make(map[int64][]*client),
		pool:    pool,
	}, nil
}

// Register 注册用户连接，返回注销函数
func (h *Hub) Register(userId int64, conn *websocket.Conn) func() {
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[userId] = append(h.clients[userId], c)
	h.mu.Unlock()

	logger.Debug("User %d connected to notification hub", userId)

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		conns := h.clients[userId]
		for i, existing := range conns {
			if existing == c {
				h.clients[userId] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.clients[userId]) == 0 {
			delete(h.clients, userId)
		}
	}
}

// Publish 向用户的所有在线连接推送通知，离线用户直接丢弃
func (h *Hub) Publish(userId int64, notification *model.NotificationModel) {
	h.mu.RLock()
	conns := make([]*client, len(h.clients[userId]))
	copy(conns, h.clients[userId])
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	for _, c := range conns {
		c := c
		if err := h.pool.Submit(func() {
			if err := c.send(notification); err != nil {
				logger.Warn("Failed to push notification to user %d: %v", userId, err)
			}
		}); err != nil {
			logger.Warn("Notification pool rejected task: %v", err)
		}
	}
}

// Close 关闭协程池与所有连接
func (h *Hub) Close() {
	h.pool.Release()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for _, c := range conns {
			c.conn.Close()
		}
	}
	h.clients = make(map[int64][]*client)
}
