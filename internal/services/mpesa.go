package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/mpesa"
	"github.com/markjakearzadon/mindcare-gobackend/internal/store"
	"github.com/markjakearzadon/mindcare-gobackend/internal/validation"
)

const DefaultPaymentDescription = "Payment"

// MaxSTKAmount is the largest amount the transaction store can hold.
const MaxSTKAmount = "99999999.99"

// Gateway is the part of the M-Pesa client the payment flow depends on.
type Gateway interface {
	Initiate(ctx context.Context, phone string, amount decimal.Decimal, referenceCode, description string) (*mpesa.Acceptance, error)
}

// STKPushRequest is the client body of POST /initiate.
type STKPushRequest struct {
	PhoneNumber   string          `json:"phoneNumber"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceCode string          `json:"referenceCode"`
	Description   *string         `json:"description"`

	amountNotNumber bool
}

// UnmarshalJSON only accepts a JSON number for amount; any other shape is
// reported by ValidateSTKPush.
func (r *STKPushRequest) UnmarshalJSON(data []byte) error {
	type plain STKPushRequest
	var aux struct {
		plain
		Amount json.RawMessage `json:"amount"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = STKPushRequest(aux.plain)

	raw := bytes.TrimSpace(aux.Amount)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
		r.amountNotNumber = true
		return nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		r.amountNotNumber = true
		return nil
	}
	r.Amount = d
	return nil
}

// STKPush is a validated STKPushRequest.
type STKPush struct {
	PhoneNumber   string          `json:"phoneNumber" validate:"required,kephone"`
	Amount        decimal.Decimal `json:"amount" validate:"required,decimal_min=1,decimal_max=99999999.99"`
	ReferenceCode string          `json:"referenceCode" validate:"required,max=50"`
	Description   string          `json:"description" validate:"min=1,max=255"`
}

// ValidateSTKPush fills defaults and checks every field. Exactly one of the
// results is non-nil.
func ValidateSTKPush(req STKPushRequest) (*STKPush, []apperr.FieldIssue) {
	out := STKPush{
		PhoneNumber:   req.PhoneNumber,
		Amount:        req.Amount,
		ReferenceCode: req.ReferenceCode,
		Description:   DefaultPaymentDescription,
	}
	if req.Description != nil {
		out.Description = *req.Description
	}
	issues := validation.Struct(out)
	if req.amountNotNumber {
		issues = append(withoutField(issues, "amount"), apperr.FieldIssue{Field: "amount", Message: "Expected number"})
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return &out, nil
}

func withoutField(issues []apperr.FieldIssue, field string) []apperr.FieldIssue {
	out := issues[:0]
	for _, is := range issues {
		if is.Field != field {
			out = append(out, is)
		}
	}
	return out
}

// ValidateCallback checks the provider envelope shape.
func ValidateCallback(cb mpesa.Callback) (*mpesa.StkCallback, []apperr.FieldIssue) {
	if issues := validation.Struct(cb); len(issues) > 0 {
		return nil, issues
	}
	return cb.Body.StkCallback, nil
}

type MpesaService struct {
	gateway Gateway
	store   store.TransactionStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewMpesaService(gateway Gateway, st store.TransactionStore, logger *slog.Logger) *MpesaService {
	return &MpesaService{
		gateway: gateway,
		store:   st,
		logger:  logger.With(slog.String("service", "mpesa")),
		now:     time.Now,
	}
}

// InitiatePayment sends the STK push and records a pending transaction once
// the provider accepted it. Nothing is written on any failure path.
func (s *MpesaService) InitiatePayment(ctx context.Context, req STKPush) (*mpesa.Acceptance, error) {
	acc, err := s.gateway.Initiate(ctx, req.PhoneNumber, req.Amount, req.ReferenceCode, req.Description)
	if err != nil {
		var authErr *mpesa.AuthError
		var reqErr *mpesa.RequestError
		switch {
		case errors.As(err, &authErr):
			s.logger.ErrorContext(ctx, "mpesa authentication failed", "err", err)
			return nil, apperr.GatewayAuthErr(err)
		case errors.As(err, &reqErr):
			s.logger.ErrorContext(ctx, "stk push rejected", "status", reqErr.StatusCode, "code", reqErr.Code, "message", reqErr.Message)
			return nil, apperr.GatewayRequestErr(reqErr.Message, err)
		default:
			s.logger.ErrorContext(ctx, "stk push failed", "err", err)
			return nil, apperr.Wrap(err)
		}
	}

	if !acc.Accepted() {
		msg := acc.ResponseDescription
		if msg == "" {
			msg = "Failed to initiate payment"
		}
		s.logger.WarnContext(ctx, "stk push not accepted",
			"response_code", acc.ResponseCode, "checkout_request_id", acc.CheckoutRequestID)
		return nil, apperr.GatewayRequestErr(msg, nil)
	}

	// logged before the insert so an accepted push can be reconciled even if
	// the write below fails
	s.logger.InfoContext(ctx, "stk push accepted",
		"merchant_request_id", acc.MerchantRequestID,
		"checkout_request_id", acc.CheckoutRequestID,
		"reference", req.ReferenceCode,
		"payload", string(acc.Raw))

	phone := acc.Phone
	if phone == "" {
		phone = mpesa.NormalizePhone(req.PhoneNumber)
	}
	tx := models.NewPendingTransaction(acc.MerchantRequestID, acc.CheckoutRequestID, phone,
		req.Amount, req.ReferenceCode, req.Description, s.now())
	if err := s.store.Create(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "failed to save accepted transaction",
			"checkout_request_id", acc.CheckoutRequestID, "err", err)
		return nil, apperr.PersistenceErr(err)
	}

	return acc, nil
}

// ProcessCallback records the final outcome. A callback for an unknown
// checkout id leaves the store untouched and is not an error.
func (s *MpesaService) ProcessCallback(ctx context.Context, cb *mpesa.StkCallback) error {
	result := models.CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        *cb.ResultCode,
		ResultDescription: *cb.ResultDesc,
		UpdatedAt:         s.now(),
	}

	if result.Successful() && cb.CallbackMetadata != nil {
		blob, err := json.Marshal(cb.CallbackMetadata)
		if err != nil {
			return apperr.Wrap(err)
		}
		meta := string(blob)
		result.Metadata = &meta

		if receipt, ok := cb.CallbackMetadata.Receipt(); ok {
			result.ReceiptNumber = &receipt
		}
	}

	matched, err := s.store.ApplyCallback(ctx, result)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to apply callback",
			"checkout_request_id", cb.CheckoutRequestID, "err", err)
		return apperr.PersistenceErr(err)
	}
	if !matched {
		s.logger.WarnContext(ctx, "callback for unknown transaction",
			"checkout_request_id", cb.CheckoutRequestID,
			"merchant_request_id", *cb.MerchantRequestID,
			"result_code", result.ResultCode)
		return nil
	}

	s.logger.InfoContext(ctx, "callback applied",
		"checkout_request_id", cb.CheckoutRequestID, "result_code", result.ResultCode, "status", result.Status())
	return nil
}

func (s *MpesaService) GetTransaction(ctx context.Context, checkoutRequestID string) (*models.Transaction, error) {
	tx, err := s.store.GetByCheckoutID(ctx, checkoutRequestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFoundErr("Transaction not found")
		}
		return nil, apperr.PersistenceErr(err)
	}
	return tx, nil
}

func (s *MpesaService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.PersistenceErr(err)
	}
	return txs, nil
}

func (s *MpesaService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
