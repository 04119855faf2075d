package payme

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain"
	"course-subscription-platform/internal/infra/metrics"
	"course-subscription-platform/internal/usecase"
)

// Handler serves the provider's webhook endpoint. Protocol-level failures are
// reported in the JSON body with HTTP 200; only the auth gate answers 401.
type Handler struct {
	auth     *Authenticator
	payments usecase.PaymentUseCase
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewHandler(auth *Authenticator, payments usecase.PaymentUseCase, logger *zerolog.Logger) *Handler {
	compLog := logger.With().Str("component", "PaymeHandler").Logger()
	return &Handler{
		auth:     auth,
		payments: payments,
		validate: validator.New(),
		log:      &compLog,
	}
}

// Register attaches the webhook route.
func (h *Handler) Register(r chi.Router, path string) {
	r.Post(path, h.HandleWebhook)
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusOK, Response{Error: &Error{Code: CodeInvalidParams, Message: "malformed request body"}})
		return
	}

	if err := h.auth.Authenticate(r); err != nil {
		metrics.IncWebhookRequest(req.Method, "unauthorized")
		writeResponse(w, http.StatusUnauthorized, Response{ID: req.ID, Error: &Error{Code: CodeUnauthorized, Message: "invalid credentials"}})
		return
	}

	start := time.Now()
	resp := h.dispatch(r, &req)
	resp.ID = req.ID
	metrics.ObserveWebhookDuration(req.Method, time.Since(start).Seconds())

	outcome := "ok"
	if resp.Error != nil {
		outcome = "error"
	}
	metrics.IncWebhookRequest(req.Method, outcome)
	writeResponse(w, http.StatusOK, resp)
}

func (h *Handler) dispatch(r *http.Request, req *Request) Response {
	ctx := r.Context()

	switch req.Method {
	case MethodCheckPerform:
		var p CheckPerformParams
		if !h.decodeParams(req.Params, &p) {
			return errResponse(CodeInvalidParams, "invalid params")
		}
		if err := h.payments.CheckPerform(ctx, p.Account.OrderID, p.Amount); err != nil {
			return h.errorFrom(req.Method, err)
		}
		return Response{Result: CheckPerformResult{Allow: true}}

	case MethodCreate:
		var p CreateParams
		if !h.decodeParams(req.Params, &p) {
			return errResponse(CodeInvalidParams, "invalid params")
		}
		purchase, err := h.payments.Create(ctx, p.ID, p.Account.OrderID, p.Time, p.Amount)
		if err != nil {
			return h.errorFrom(req.Method, err)
		}
		return Response{Result: CreateResult{
			CreateTime:  purchase.ProviderTxnTime,
			Transaction: purchase.ID,
			State:       StateCreated,
		}}

	case MethodPerform:
		var p PerformParams
		if !h.decodeParams(req.Params, &p) {
			return errResponse(CodeInvalidParams, "invalid params")
		}
		purchase, err := h.payments.Perform(ctx, p.ID)
		if err != nil {
			return h.errorFrom(req.Method, err)
		}
		return Response{Result: PerformResult{
			Transaction: purchase.ID,
			PerformTime: purchase.PerformTime.UnixMilli(),
			State:       StatePerformed,
		}}

	case MethodCancel:
		var p CancelParams
		if !h.decodeParams(req.Params, &p) {
			return errResponse(CodeInvalidParams, "invalid params")
		}
		purchase, err := h.payments.Cancel(ctx, p.ID, p.Reason)
		if err != nil {
			return h.errorFrom(req.Method, err)
		}
		if purchase == nil {
			// Nothing to cancel: acknowledged as a no-op success.
			return Response{Result: CancelResult{
				Transaction: p.ID,
				CancelTime:  time.Now().UnixMilli(),
				State:       StateCancelled,
			}}
		}
		return Response{Result: CancelResult{
			Transaction: purchase.ID,
			CancelTime:  purchase.CancelTime.UnixMilli(),
			State:       StateCancelled,
		}}

	default:
		return errResponse(CodeUnknownMethod, "method not found")
	}
}

func (h *Handler) decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return h.validate.Struct(out) == nil
}

// errorFrom maps domain sentinels to protocol codes; anything unexpected is
// logged with full context and reported as the generic internal code so the
// provider's retry policy takes over.
func (h *Handler) errorFrom(method string, err error) Response {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return errResponse(CodeOrderNotFound, "order not found")
	case errors.Is(err, domain.ErrOrderAlreadyPaid):
		return errResponse(CodeOrderAlreadyPaid, "order already paid")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return errResponse(CodeTransactionNotFound, "transaction not found")
	case errors.Is(err, domain.ErrTransactionConflict):
		return errResponse(CodeOrderBusy, "order is linked to another transaction")
	case errors.Is(err, domain.ErrInvalidAmount):
		return errResponse(CodeInvalidAmount, "invalid amount")
	case errors.Is(err, domain.ErrPurchaseCancelled):
		return errResponse(CodeCannotPerform, "unable to perform operation")
	case errors.Is(err, domain.ErrInvalidArgument):
		return errResponse(CodeInvalidParams, "invalid params")
	default:
		h.log.Error().Err(err).Str("method", method).Msg("webhook internal error")
		return errResponse(CodeInternal, "internal error")
	}
}

func errResponse(code int, msg string) Response {
	return Response{Error: &Error{Code: code, Message: msg}}
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
