package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending   = "Pending"
	PaymentCompleted = "Completed"
)

// Payment is a card payment for a session, settled through Stripe.
// Amount is kept as a fixed 2-place decimal string.
type Payment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	SessionID       primitive.ObjectID `bson:"session_id" json:"session_id" validate:"required"`
	Amount          string             `bson:"amount" json:"amount" validate:"required,numeric"`
	PaymentStatus   string             `bson:"payment_status" json:"payment_status"`
	PaymentDate     string             `bson:"payment_date" json:"payment_date"`
	StripePaymentID string             `bson:"stripe_payment_id" json:"stripe_payment_id" validate:"required"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
