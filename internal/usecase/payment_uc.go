package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain"
	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase is the webhook transaction state machine. It is the sole
// writer of Purchase rows: pending is the only initial state, paid and failed
// are terminal, and every method is safe to retry with the same identifiers.
type PaymentUseCase interface {
	// CheckPerform verifies that the order can accept a payment of the given
	// amount. Read-only.
	CheckPerform(ctx context.Context, orderID string, amount int64) error
	// Create links a provider transaction to the order. Re-creating with the
	// same transaction id is acknowledged idempotently; a different id for an
	// already-linked order is a conflict.
	Create(ctx context.Context, txnID, orderID string, txnTime, amount int64) (*model.Purchase, error)
	// Perform captures the payment and grants the entitlement exactly once.
	Perform(ctx context.Context, txnID string) (*model.Purchase, error)
	// Cancel fails a pending purchase. Unknown transactions and already-paid
	// purchases are acknowledged as a no-op success; the returned purchase is
	// nil when nothing matched.
	Cancel(ctx context.Context, txnID string, reason int) (*model.Purchase, error)
}

type paymentUC struct {
	purchases repository.PurchaseRepository
	courses   repository.CourseRepository
	ledger    EntitlementUseCase
	effects   SideEffectsUseCase
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewPaymentUseCase(
	purchases repository.PurchaseRepository,
	courses repository.CourseRepository,
	ledger EntitlementUseCase,
	effects SideEffectsUseCase,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *paymentUC {
	compLog := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		purchases: purchases,
		courses:   courses,
		ledger:    ledger,
		effects:   effects,
		tm:        tm,
		log:       &compLog,
	}
}

func (u *paymentUC) CheckPerform(ctx context.Context, orderID string, amount int64) error {
	p, err := u.purchases.FindByID(ctx, repository.NoTX, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrOrderNotFound
		}
		return err
	}
	if p.Status == model.PurchaseStatusPaid {
		return domain.ErrOrderAlreadyPaid
	}
	course, err := u.courses.FindByID(ctx, repository.NoTX, p.CourseID)
	if err != nil {
		return err
	}
	if amount != course.Price {
		return domain.ErrInvalidAmount
	}
	return nil
}

func (u *paymentUC) Create(ctx context.Context, txnID, orderID string, txnTime, amount int64) (*model.Purchase, error) {
	var out *model.Purchase
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.purchases.FindByID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		// Provider retry of an already-acknowledged create.
		if p.LinkedTo(txnID) {
			out = p
			return nil
		}
		if p.ProviderTxnID != nil {
			return domain.ErrTransactionConflict
		}
		if p.Status == model.PurchaseStatusPaid {
			return domain.ErrOrderAlreadyPaid
		}

		course, err := u.courses.FindByID(ctx, tx, p.CourseID)
		if err != nil {
			return err
		}
		if amount != course.Price {
			return domain.ErrInvalidAmount
		}

		now := time.Now()
		p.ProviderTxnID = &txnID
		p.ProviderTxnTime = txnTime
		p.UpdatedAt = now
		if err := u.purchases.Save(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *paymentUC) Perform(ctx context.Context, txnID string) (*model.Purchase, error) {
	var (
		out     *model.Purchase
		granted *model.Subscription
	)
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.purchases.FindByProviderTxnID(ctx, tx, txnID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}

		switch p.Status {
		case model.PurchaseStatusPaid:
			// Retry of a committed capture: re-acknowledge the original
			// perform time without touching the ledger.
			out = p
			return nil
		case model.PurchaseStatusFailed:
			return domain.ErrPurchaseCancelled
		}

		course, err := u.courses.FindByID(ctx, tx, p.CourseID)
		if err != nil {
			return err
		}

		now := time.Now()
		p.Status = model.PurchaseStatusPaid
		p.PerformTime = &now
		p.UpdatedAt = now
		if err := u.purchases.Save(ctx, tx, p); err != nil {
			return err
		}

		// Same transaction as the status flip: a crash can never leave a
		// paid-but-unentitled purchase behind.
		granted, err = u.ledger.Grant(ctx, tx, p.UserID, p.CourseID, course.DurationDays)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if granted != nil {
		metrics.IncPayment(string(model.PurchaseStatusPaid))
		metrics.AddPaymentRevenue(out.Amount)
		u.log.Info().Str("purchase_id", out.ID).Str("txn_id", txnID).
			Str("subscription_id", granted.ID).Msg("payment captured")
		u.effects.DispatchPaymentEffects(context.WithoutCancel(ctx), out, granted)
	}
	return out, nil
}

func (u *paymentUC) Cancel(ctx context.Context, txnID string, reason int) (*model.Purchase, error) {
	var out *model.Purchase
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.purchases.FindByProviderTxnID(ctx, tx, txnID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Nothing to cancel is a successful no-op for the provider.
				return nil
			}
			return err
		}

		switch p.Status {
		case model.PurchaseStatusPaid:
			// A captured payment is only reversed administratively, never
			// through this pathway. Acknowledge without mutating.
			return nil
		case model.PurchaseStatusFailed:
			out = p
			return nil
		}

		now := time.Now()
		p.Status = model.PurchaseStatusFailed
		p.CancelTime = &now
		p.CancelReason = &reason
		p.UpdatedAt = now
		if err := u.purchases.Save(ctx, tx, p); err != nil {
			return err
		}
		metrics.IncPayment(string(model.PurchaseStatusFailed))
		u.log.Info().Str("purchase_id", p.ID).Str("txn_id", txnID).Int("reason", reason).
			Msg("transaction cancelled")
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
