package repository

import (
	"context"

	"course-subscription-platform/internal/domain/model"
)

// PurchaseRepository is the port for purchase rows. The webhook state machine
// is the sole writer; reads inside a transaction take a row lock so concurrent
// provider retries serialize on the purchase.
type PurchaseRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Purchase) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Purchase, error)
	FindByProviderTxnID(ctx context.Context, tx Tx, txnID string) (*model.Purchase, error)

	// --- Admin/stats read-only methods ---
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Purchase, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.PurchaseStatus]int, error)
	SumPaidByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}
