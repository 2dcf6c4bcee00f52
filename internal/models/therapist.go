package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Therapist struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	FullName        string             `bson:"full_name" json:"full_name" validate:"required,max=255"`
	Specialization  string             `bson:"specialization,omitempty" json:"specialization,omitempty" validate:"max=255"`
	ExperienceYears int                `bson:"experience_years" json:"experience_years" validate:"gte=0"`
	ContactPhone    string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty" validate:"max=20"`
	Availability    *bool              `bson:"availability" json:"availability"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
