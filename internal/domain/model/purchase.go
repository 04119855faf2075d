package model

import "time"

type PurchaseStatus string

const (
	PurchaseStatusPending PurchaseStatus = "pending" // created by checkout; awaiting provider
	PurchaseStatusPaid    PurchaseStatus = "paid"    // captured by provider; entitlement granted
	PurchaseStatusFailed  PurchaseStatus = "failed"  // cancelled by provider before capture
)

// Purchase records one attempted payment for one course by one user.
// It is driven exclusively by the webhook transaction state machine:
// pending is the sole initial state, paid and failed are terminal.
type Purchase struct {
	ID       string // UUID, referenced by the provider as account.order_id
	UserID   string // UUID
	CourseID string // UUID
	Amount   int64  // price snapshot in tiyin (integer), to avoid float errors

	Status PurchaseStatus

	// Provider transaction linkage; set once by CreateTransaction and unique
	// across all purchases.
	ProviderTxnID   *string
	ProviderTxnTime int64 // provider-supplied creation time (unix ms), echoed on retries

	PerformTime  *time.Time // set iff status = paid
	CancelTime   *time.Time // set iff status = failed
	CancelReason *int       // provider reason code, set with CancelTime

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the purchase can no longer change state
// through the webhook pathway.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusPaid || p.Status == PurchaseStatusFailed
}

// LinkedTo reports whether the purchase already carries the given provider
// transaction id.
func (p *Purchase) LinkedTo(txnID string) bool {
	return p.ProviderTxnID != nil && *p.ProviderTxnID == txnID
}
