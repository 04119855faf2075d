package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"course-subscription-platform/internal/domain"
	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*purchaseRepo)(nil)

type purchaseRepo struct{ pool *pgxpool.Pool }

func NewPurchaseRepo(pool *pgxpool.Pool) *purchaseRepo {
	return &purchaseRepo{pool: pool}
}

const purchaseCols = `id, user_id, course_id, amount, status, provider_txn_id, provider_txn_time, perform_time, cancel_time, cancel_reason, created_at, updated_at`

func (r *purchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	const q = `
INSERT INTO purchases (
  id, user_id, course_id, amount, status, provider_txn_id, provider_txn_time, perform_time, cancel_time, cancel_reason, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
  status=$5, provider_txn_id=$6, provider_txn_time=$7, perform_time=$8, cancel_time=$9, cancel_reason=$10, updated_at=$12;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.CourseID, p.Amount, p.Status, p.ProviderTxnID, p.ProviderTxnTime, p.PerformTime, p.CancelTime, p.CancelReason, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		var pgErr *pgconn.PgError
		// provider_txn_id carries a unique index: one provider transaction
		// maps to exactly one purchase.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *purchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	q := `SELECT ` + purchaseCols + ` FROM purchases WHERE id=$1`
	if inTx(tx) {
		q += ` FOR UPDATE`
	}
	return r.queryOne(ctx, tx, q+";", id)
}

func (r *purchaseRepo) FindByProviderTxnID(ctx context.Context, tx repository.Tx, txnID string) (*model.Purchase, error) {
	q := `SELECT ` + purchaseCols + ` FROM purchases WHERE provider_txn_id=$1`
	if inTx(tx) {
		q += ` FOR UPDATE`
	}
	return r.queryOne(ctx, tx, q+";", txnID)
}

func (r *purchaseRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Purchase, error) {
	const q = `
SELECT ` + purchaseCols + `
  FROM purchases
 ORDER BY created_at DESC
 OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	var out []*model.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *purchaseRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.PurchaseStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM purchases GROUP BY status;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.PurchaseStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.PurchaseStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *purchaseRepo) SumPaidByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	var interval string
	switch period {
	case "week":
		interval = "7 days"
	case "month":
		interval = "30 days"
	case "year":
		interval = "365 days"
	default:
		return 0, domain.ErrInvalidArgument
	}
	q := `SELECT COALESCE(SUM(amount),0) FROM purchases WHERE status='paid' AND perform_time >= NOW() - INTERVAL '` + interval + `';`
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *purchaseRepo) queryOne(ctx context.Context, tx repository.Tx, sql string, args ...any) (*model.Purchase, error) {
	row, err := pickRow(ctx, r.pool, tx, sql, args...)
	if err != nil {
		return nil, err
	}
	p := &model.Purchase{}
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &status, &p.ProviderTxnID, &p.ProviderTxnTime, &p.PerformTime, &p.CancelTime, &p.CancelReason, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.PurchaseStatus(status)
	return p, nil
}

func scanPurchase(rows pgx.Rows) (*model.Purchase, error) {
	p := &model.Purchase{}
	var status string
	if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &status, &p.ProviderTxnID, &p.ProviderTxnTime, &p.PerformTime, &p.CancelTime, &p.CancelReason, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.PurchaseStatus(status)
	return p, nil
}
