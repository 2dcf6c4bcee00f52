package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Diagnostic struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	Diagnosis       string             `bson:"diagnosis" json:"diagnosis" validate:"required,max=255"`
	Recommendations string             `bson:"recommendations,omitempty" json:"recommendations,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
