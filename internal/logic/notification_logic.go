package logic

import (
	"errors"
	"fmt"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"gorm.io/gorm"
)

// Publisher 实时通知推送通道
type Publisher interface {
	Publish(userId int64, notification *model.NotificationModel)
}

// NotificationLogic 通知业务逻辑
type NotificationLogic struct {
	db        *gorm.DB
	publisher Publisher
}

// NewNotificationLogic 创建通知业务逻辑
func NewNotificationLogic(db *gorm.DB, publisher Publisher) *NotificationLogic {
	return &NotificationLogic{db: db, publisher: publisher}
}

// Notify 持久化通知并尽力实时推送，推送失败只记日志
func (n *NotificationLogic) Notify(userId int64, notifType model.NotificationType, title, message string) {
	notification := model.NotificationModel{
		UserId:  userId,
		Type:    notifType,
		Title:   title,
		Message: message,
	}

	if err := n.db.Create(&notification).Error; err != nil {
		logger.Error("Failed to persist notification for user %d: %v", userId, err)
		return
	}

	if n.publisher != nil {
		n.publisher.Publish(userId, &notification)
	}
}

// GetUserNotifications 获取用户通知列表
func (n *NotificationLogic) GetUserNotifications(userId int64, page, pageSize int) ([]model.NotificationModel, int64, error) {
	var total int64
	if err := n.db.Model(&model.NotificationModel{}).
		Where("user_id = ?", userId).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取通知总数失败: %w", err)
	}

	var notifications []model.NotificationModel
	offset := (page - 1) * pageSize
	if err := n.db.Where("user_id = ?", userId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("获取通知列表失败: %w", err)
	}

	return notifications, total, nil
}

// MarkRead 标记通知为已读
func (n *NotificationLogic) MarkRead(notificationId, userId int64) error {
	var notification model.NotificationModel
	if err := n.db.First(&notification, notificationId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NotFound("通知不存在")
		}
		return fmt.Errorf("获取通知失败: %w", err)
	}
	if notification.UserId != userId {
		return errs.Forbidden("不能操作他人的通知")
	}

	if err := n.db.Model(&notification).Update("read", true).Error; err != nil {
		return fmt.Errorf("更新通知失败: %w", err)
	}
	return nil
}
