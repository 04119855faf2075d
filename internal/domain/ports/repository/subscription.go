package repository

import (
	"context"
	"time"

	"course-subscription-platform/internal/domain/model"
)

// SubscriptionRepository is the port for entitlement rows.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindActiveByUserAndCourse(ctx context.Context, tx Tx, userID, courseID string) (*model.Subscription, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Subscription, error)

	// AcquireGrantLock serializes concurrent grants for one (user, course)
	// pair for the remainder of the enclosing transaction. Implementations
	// back this with a transaction-scoped advisory lock; callers must hold a
	// live tx.
	AcquireGrantLock(ctx context.Context, tx Tx, userID, courseID string) error

	// MarkExpired flips stored active rows whose EndsAt has passed to
	// expired and returns how many were updated. Storage hygiene only;
	// entitlement checks always re-compare EndsAt.
	MarkExpired(ctx context.Context, tx Tx, now time.Time) (int64, error)

	// CountActiveByCourse returns active subscription counts keyed by course id.
	CountActiveByCourse(ctx context.Context, tx Tx) (map[string]int, error)
}
