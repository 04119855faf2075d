package repository

import (
	"context"

	"course-subscription-platform/internal/domain/model"
)

// NotificationRepository persists in-app notification records.
type NotificationRepository interface {
	Save(ctx context.Context, tx Tx, n *model.Notification) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.Notification, error)
}
