package repository

import (
	"context"
	"time"

	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository is the append-only fan-out log
type NotificationRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewNotificationRepository creates a repository bound to the given handle
func NewNotificationRepository(db *gorm.DB, timeout time.Duration) *NotificationRepository {
	return &NotificationRepository{db: db, timeout: timeout}
}

// Create appends a notification to the log
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return errors.StoreUnavailable("notification fan-out", err)
	}
	return nil
}

// ListByRecipient returns the recipient's notifications newest first, with
// the from-user summary resolved
func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Preload("From").
		Where("to_user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.StoreUnavailable("notification list", err)
	}
	return notifications, nil
}

// MarkAllRead flips every notification owned by the recipient to read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_user_id = ?", userID).
		UpdateColumn("read", true).Error
	if err != nil {
		return errors.StoreUnavailable("notification mark read", err)
	}
	return nil
}

// GetByID fetches a single notification
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, translate("notification lookup", "notification", err)
	}
	return &notification, nil
}

// DeleteByID removes a single notification
func (r *NotificationRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error; err != nil {
		return errors.StoreUnavailable("notification delete", err)
	}
	return nil
}

// DeleteAllFor removes every notification owned by the recipient
func (r *NotificationRepository) DeleteAllFor(ctx context.Context, userID string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Delete(&models.Notification{}).Error
	if err != nil {
		return errors.StoreUnavailable("notification delete all", err)
	}
	return nil
}

// CountByRecipientAndSender is used by reconciliation tooling and tests
func (r *NotificationRepository) CountByRecipientAndSender(ctx context.Context, toUserID, fromUserID string, nType models.NotificationType) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("to_user_id = ? AND from_user_id = ? AND type = ?", toUserID, fromUserID, nType).
		Count(&count).Error
	if err != nil {
		return 0, errors.StoreUnavailable("notification count", err)
	}
	return count, nil
}
