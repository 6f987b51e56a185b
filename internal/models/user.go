package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a marketplace account. Password and token fields never leave the
// service layer; handlers serialize through dto types.
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Username             string             `bson:"username"`
	Password             string             `bson:"user_password"`
	Email                string             `bson:"email"`
	Role                 string             `bson:"user_role"`
	Avatar               string             `bson:"user_avatar,omitempty"`
	PhoneNumber          string             `bson:"phone_number,omitempty"`
	Country              string             `bson:"country,omitempty"`
	State                string             `bson:"state,omitempty"`
	City                 string             `bson:"city,omitempty"`
	Pincode              string             `bson:"pincode,omitempty"`
	Address              string             `bson:"address,omitempty"`
	GoogleUserID         string             `bson:"google_user_id,omitempty"`
	GoogleAvatar         string             `bson:"google_user_avatar,omitempty"`
	IsVerified           bool               `bson:"is_verified,omitempty"`
	EmailVerified        bool               `bson:"email_verified,omitempty"`
	FullName             string             `bson:"full_name,omitempty"`
	Nickname             string             `bson:"nickname,omitempty"`
	FamilyName           string             `bson:"family_name,omitempty"`
	LastToken            *string            `bson:"last_token"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty"`
	CreatedAt            time.Time          `bson:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

// ProfileUpdate carries the fields editable through profile setup. Nil
// pointers are left untouched.
type ProfileUpdate struct {
	Username    *string
	PhoneNumber *string
	Country     *string
	State       *string
	City        *string
	Pincode     *string
	Address     *string
	Avatar      *string
}
