// Package payme implements the payment provider's merchant-facing JSON-RPC
// webhook: Basic-auth gate, method dispatch and the wire representation of
// transaction state.
package payme

import "encoding/json"

// Transaction states on the wire.
const (
	StateCreated   = 1  // transaction created, not yet captured
	StatePerformed = 2  // captured
	StateCancelled = -1 // cancelled before capture
)

// Protocol error codes.
const (
	CodeUnauthorized        = -32504
	CodeUnknownMethod       = -32601
	CodeInvalidParams       = -32602
	CodeInternal            = -32400
	CodeInvalidAmount       = -31001
	CodeTransactionNotFound = -31003
	CodeCannotPerform       = -31008
	CodeOrderNotFound       = -31050
	CodeOrderAlreadyPaid    = -31051
	CodeOrderBusy           = -31099
)

// Supported methods.
const (
	MethodCheckPerform = "CheckPerformTransaction"
	MethodCreate       = "CreateTransaction"
	MethodPerform      = "PerformTransaction"
	MethodCancel       = "CancelTransaction"
)

// Request is the JSON-RPC envelope the provider posts. The id is echoed back
// verbatim.
type Request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Account carries the merchant-side order reference.
type Account struct {
	OrderID string `json:"order_id" validate:"required"`
}

type CheckPerformParams struct {
	Amount  int64   `json:"amount" validate:"required,gt=0"`
	Account Account `json:"account"`
}

type CreateParams struct {
	ID      string  `json:"id" validate:"required"`
	Time    int64   `json:"time" validate:"required,gt=0"`
	Amount  int64   `json:"amount" validate:"required,gt=0"`
	Account Account `json:"account"`
}

type PerformParams struct {
	ID string `json:"id" validate:"required"`
}

type CancelParams struct {
	ID     string `json:"id" validate:"required"`
	Reason int    `json:"reason"`
}

type CheckPerformResult struct {
	Allow bool `json:"allow"`
}

type CreateResult struct {
	CreateTime  int64  `json:"create_time"`
	Transaction string `json:"transaction"`
	State       int    `json:"state"`
}

type PerformResult struct {
	Transaction string `json:"transaction"`
	PerformTime int64  `json:"perform_time"`
	State       int    `json:"state"`
}

type CancelResult struct {
	Transaction string `json:"transaction"`
	CancelTime  int64  `json:"cancel_time"`
	State       int    `json:"state"`
}
