package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS在网关层处理
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationHandler 通知处理器
type NotificationHandler struct {
	notifLogic *logic.NotificationLogic
	hub        *notify.Hub
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(notifLogic *logic.NotificationLogic, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{
		notifLogic: notifLogic,
		hub:        hub,
	}
}

// GetNotifications 获取通知列表
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	notifications, total, err := h.notifLogic.GetUserNotifications(currentUserId(c), page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"notifications": notifications,
		"pagination":    NewPagination(page, pageSize, total),
	})
}

// MarkRead 标记通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的通知ID"))
		return
	}

	if err := h.notifLogic.MarkRead(id, currentUserId(c)); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "通知已读", nil)
}

// Subscribe 建立websocket连接接收实时通知
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userId := currentUserId(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Failed to upgrade websocket for user %d: %v", userId, err)
		return
	}

	unregister := h.hub.Register(userId, conn)

	// 读循环只用于感知连接关闭
	go func() {
		defer func() {
			unregister()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
