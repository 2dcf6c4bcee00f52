package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the outcome of an STK push as known locally.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusSuccess TransactionStatus = "SUCCESS"
	StatusFailed  TransactionStatus = "FAILED"
)

// ResultCodeSuccess is the callback ResultCode reported for a paid request.
const ResultCodeSuccess = 0

// Transaction is one STK push attempt. CheckoutRequestID is the external key
// and never changes after insert.
type Transaction struct {
	ID                 string            `json:"id"`
	MerchantRequestID  string            `json:"merchantRequestId"`
	CheckoutRequestID  string            `json:"checkoutRequestId"`
	PhoneNumber        string            `json:"phoneNumber"`
	Amount             decimal.Decimal   `json:"amount"`
	ReferenceCode      string            `json:"referenceCode"`
	Description        string            `json:"description"`
	TransactionDate    time.Time         `json:"transactionDate"`
	MpesaReceiptNumber *string           `json:"mpesaReceiptNumber"`
	ResultCode         *int              `json:"resultCode"`
	ResultDescription  *string           `json:"resultDescription"`
	IsComplete         bool              `json:"isComplete"`
	IsSuccessful       *bool             `json:"isSuccessful"`
	Status             TransactionStatus `json:"status"`
	CallbackMetadata   *string           `json:"callbackMetadata"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// NewPendingTransaction builds the row written right after the provider
// accepted a push. The outcome is unknown until the callback arrives.
func NewPendingTransaction(merchantID, checkoutID, phone string, amount decimal.Decimal, ref, desc string, now time.Time) *Transaction {
	return &Transaction{
		MerchantRequestID: merchantID,
		CheckoutRequestID: checkoutID,
		PhoneNumber:       phone,
		Amount:            amount.Round(2),
		ReferenceCode:     ref,
		Description:       desc,
		TransactionDate:   now,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// CallbackResult is the update applied to a Transaction when the provider
// reports the final outcome.
type CallbackResult struct {
	CheckoutRequestID string
	ResultCode        int
	ResultDescription string
	ReceiptNumber     *string
	Metadata          *string
	UpdatedAt         time.Time
}

func (r CallbackResult) Successful() bool {
	return r.ResultCode == ResultCodeSuccess
}

func (r CallbackResult) Status() TransactionStatus {
	if r.Successful() {
		return StatusSuccess
	}
	return StatusFailed
}

// Apply overwrites the outcome fields of t with r. Applying the same result
// twice leaves t unchanged the second time.
func (t *Transaction) Apply(r CallbackResult) {
	code := r.ResultCode
	desc := r.ResultDescription
	ok := r.Successful()

	t.ResultCode = &code
	t.ResultDescription = &desc
	t.IsComplete = true
	t.IsSuccessful = &ok
	t.Status = r.Status()
	t.MpesaReceiptNumber = r.ReceiptNumber
	t.CallbackMetadata = r.Metadata
	t.UpdatedAt = r.UpdatedAt
}
