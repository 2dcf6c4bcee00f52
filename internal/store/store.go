// Package store persists M-Pesa transactions. Every backend enforces a
// unique checkout request id and orders listings by creation time.
package store

import (
	"context"
	"errors"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

var (
	ErrNotFound  = errors.New("transaction not found")
	ErrDuplicate = errors.New("transaction with this checkout request id already exists")
)

type TransactionStore interface {
	Create(ctx context.Context, t *models.Transaction) error
	// ApplyCallback updates the row matching r.CheckoutRequestID and reports
	// whether one matched. A miss is not an error.
	ApplyCallback(ctx context.Context, r models.CallbackResult) (bool, error)
	GetByCheckoutID(ctx context.Context, checkoutRequestID string) (*models.Transaction, error)
	List(ctx context.Context) ([]models.Transaction, error)
	Ping(ctx context.Context) error
}
