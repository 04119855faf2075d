package usecase

import (
	"context"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// StatsUseCase serves the read-only admin dashboard numbers.
type StatsUseCase interface {
	Totals(ctx context.Context) (users int, purchasesByStatus map[model.PurchaseStatus]int, activeByCourse map[string]int, err error)
	Revenue(ctx context.Context) (week, month, year int64, err error)
}

type statsUC struct {
	users     repository.UserRepository
	purchases repository.PurchaseRepository
	subs      repository.SubscriptionRepository
}

func NewStatsUseCase(users repository.UserRepository, purchases repository.PurchaseRepository, subs repository.SubscriptionRepository) *statsUC {
	return &statsUC{users: users, purchases: purchases, subs: subs}
}

func (u *statsUC) Totals(ctx context.Context) (int, map[model.PurchaseStatus]int, map[string]int, error) {
	users, err := u.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, nil, err
	}
	byStatus, err := u.purchases.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, nil, err
	}
	byCourse, err := u.subs.CountActiveByCourse(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, nil, err
	}
	return users, byStatus, byCourse, nil
}

func (u *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	week, err := u.purchases.SumPaidByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	month, err := u.purchases.SumPaidByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	year, err := u.purchases.SumPaidByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return week, month, year, nil
}
