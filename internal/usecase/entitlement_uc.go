package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain"
	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/infra/metrics"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase is the subscription ledger: it turns a successful payment
// into a time-bounded access grant, extending in place when a usable
// subscription already exists.
type EntitlementUseCase interface {
	// Grant creates or extends the subscription for (userID, courseID) by
	// durationDays. Concurrent grants for the same pair serialize on a
	// transaction-scoped lock, so two payments always extend additively.
	// Must run inside the caller's transaction.
	Grant(ctx context.Context, tx repository.Tx, userID, courseID string, durationDays int) (*model.Subscription, error)
	// HasAccess reports whether the user currently holds a usable
	// subscription for the course. Expiry is evaluated against the clock,
	// not trusted from stored status.
	HasAccess(ctx context.Context, userID, courseID string) (bool, error)
}

type entitlementUC struct {
	subs repository.SubscriptionRepository
	log  *zerolog.Logger
}

func NewEntitlementUseCase(subs repository.SubscriptionRepository, logger *zerolog.Logger) *entitlementUC {
	compLog := logger.With().Str("component", "EntitlementUC").Logger()
	return &entitlementUC{subs: subs, log: &compLog}
}

func (u *entitlementUC) Grant(ctx context.Context, tx repository.Tx, userID, courseID string, durationDays int) (*model.Subscription, error) {
	if userID == "" || courseID == "" || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}

	if err := u.subs.AcquireGrantLock(ctx, tx, userID, courseID); err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := u.subs.FindActiveByUserAndCourse(ctx, tx, userID, courseID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if existing != nil && existing.Usable(now) {
		if err := existing.Extend(durationDays, now); err != nil {
			return nil, err
		}
		if err := u.subs.Save(ctx, tx, existing); err != nil {
			return nil, err
		}
		metrics.IncSubscriptionGrant("extend")
		u.log.Debug().Str("subscription_id", existing.ID).Time("ends_at", existing.EndsAt).
			Msg("subscription extended")
		return existing, nil
	}

	// A stale active row is superseded, never deleted.
	if existing != nil {
		existing.Status = model.SubscriptionStatusExpired
		existing.UpdatedAt = now
		if err := u.subs.Save(ctx, tx, existing); err != nil {
			return nil, err
		}
	}

	sub, err := model.NewSubscription(ulid.Make().String(), userID, courseID, durationDays, now)
	if err != nil {
		return nil, err
	}
	if err := u.subs.Save(ctx, tx, sub); err != nil {
		return nil, err
	}
	metrics.IncSubscriptionGrant("create")
	u.log.Debug().Str("subscription_id", sub.ID).Time("ends_at", sub.EndsAt).
		Msg("subscription created")
	return sub, nil
}

func (u *entitlementUC) HasAccess(ctx context.Context, userID, courseID string) (bool, error) {
	sub, err := u.subs.FindActiveByUserAndCourse(ctx, repository.NoTX, userID, courseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.Usable(time.Now()), nil
}
