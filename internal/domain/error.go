package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")

	// Webhook protocol errors, mapped to provider error codes at the HTTP edge
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderAlreadyPaid    = errors.New("order already paid")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionConflict = errors.New("order is linked to another transaction")
	ErrInvalidAmount       = errors.New("amount does not match course price")
	ErrPurchaseCancelled   = errors.New("transaction was cancelled and cannot be performed")
)
