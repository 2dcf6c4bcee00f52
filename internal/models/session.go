package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is a therapy session that took place, with the therapist's notes.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	TherapistID  primitive.ObjectID `bson:"therapist_id" json:"therapist_id" validate:"required"`
	SessionDate  string             `bson:"session_date" json:"session_date" validate:"required,ymd"`
	SessionNotes string             `bson:"session_notes" json:"session_notes"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
