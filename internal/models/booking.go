package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BookingPending = "Pending"

type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	TherapistID   primitive.ObjectID `bson:"therapist_id" json:"therapist_id" validate:"required"`
	SessionDate   string             `bson:"session_date" json:"session_date" validate:"required,ymd"`
	SessionTime   string             `bson:"session_time" json:"session_time" validate:"required,clock"`
	BookingStatus string             `bson:"booking_status" json:"booking_status" validate:"max=50"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
