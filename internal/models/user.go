package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTherapist Role = "therapist"
	RoleUser      Role = "user"
)

// User model
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name" validate:"required,max=255"`
	Email        string             `bson:"email" json:"email" validate:"required,email,max=255"`
	ContactPhone string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	Address      string             `bson:"address,omitempty" json:"address,omitempty"`
	Role         Role               `bson:"role" json:"role" validate:"omitempty,oneof=admin therapist user"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Authentication holds the credentials of a User. It is never serialised to
// clients.
type Authentication struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Email     string             `bson:"email" json:"-"`
	HPassword string             `bson:"password" json:"-"`
	Role      Role               `bson:"role" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
	UpdatedAt time.Time          `bson:"updated_at" json:"-"`
}
