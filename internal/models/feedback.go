package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id" validate:"required"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,gte=1,lte=5"`
	Comments  string             `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
