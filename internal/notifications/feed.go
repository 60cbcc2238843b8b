// Package notifications is the pull-based delivery side of the fan-out log
package notifications

import (
	"context"

	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/repository"
)

// Feed reads and prunes a recipient's notification log
type Feed struct {
	notifs *repository.NotificationRepository
}

// NewFeed creates the notification feed
func NewFeed(notifs *repository.NotificationRepository) *Feed {
	return &Feed{notifs: notifs}
}

// List returns the recipient's notifications newest first, each with the
// from-user summary resolved, and then marks all of them read. The returned
// records carry the read flags as they were stored before this call; a
// second List immediately after returns the same records all read. The
// mark-read side effect is part of the contract — use Peek for a pure read.
func (f *Feed) List(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := f.notifs.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := f.notifs.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}

	return notifications, nil
}

// Peek returns the recipient's notifications without marking anything read
func (f *Feed) Peek(ctx context.Context, userID string) ([]models.Notification, error) {
	return f.notifs.ListByRecipient(ctx, userID)
}

// DeleteOne removes a single notification. Only the recipient may delete it.
func (f *Feed) DeleteOne(ctx context.Context, userID, notificationID string) error {
	notification, err := f.notifs.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.ToUserID != userID {
		return errors.Forbidden("you cannot delete this notification")
	}
	return f.notifs.DeleteByID(ctx, notificationID)
}

// DeleteAll removes every notification owned by the caller
func (f *Feed) DeleteAll(ctx context.Context, userID string) error {
	return f.notifs.DeleteAllFor(ctx, userID)
}
