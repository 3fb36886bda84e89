package repository

import (
	"aral_lms_backend/internal/model"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const unreadCountKeyPrefix = "notify_unread:"

type NotificationRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewNotificationRepository(db *gorm.DB, rdb *redis.Client) *NotificationRepository {
	return &NotificationRepository{DB: db, Redis: rdb}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	if err := r.DB.Create(n).Error; err != nil {
		return err
	}
	r.invalidateUnreadCount(n.UserID)
	return nil
}

func (r *NotificationRepository) FindWithPagination(userID uint, offset, limit int) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := r.DB.Model(&model.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// UnreadCount reads through a short-lived redis cache; counting is the only
// hot read on this table.
func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	ctx := context.Background()
	key := unreadCountKey(userID)

	if r.Redis != nil {
		if val, err := r.Redis.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.ParseInt(val, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.Redis != nil {
		r.Redis.Set(ctx, key, count, 5*time.Minute)
	}
	return count, nil
}

func (r *NotificationRepository) MarkAsRead(id, userID uint) error {
	err := r.DB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
	if err != nil {
		return err
	}
	r.invalidateUnreadCount(userID)
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(userID uint) error {
	err := r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return err
	}
	r.invalidateUnreadCount(userID)
	return nil
}

func (r *NotificationRepository) invalidateUnreadCount(userID uint) {
	if r.Redis == nil {
		return
	}
	r.Redis.Del(context.Background(), unreadCountKey(userID))
}

func unreadCountKey(userID uint) string {
	return fmt.Sprintf("%s%d", unreadCountKeyPrefix, userID)
}
