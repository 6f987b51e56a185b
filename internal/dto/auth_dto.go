package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"user_password" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Role        string `json:"user_role"`
	Avatar      string `json:"user_avatar"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
	State       string `json:"state"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	Address     string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"user_password" validate:"required"`
}

type ProfileSetupRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=1,max=64"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	Country     *string `json:"country"`
	State       *string `json:"state"`
	City        *string `json:"city"`
	Pincode     *string `json:"pincode" validate:"omitempty,max=12"`
	Address     *string `json:"address"`
	Avatar      *string `json:"user_avatar"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type VerifyResetTokenRequest struct {
	Email string `json:"email" validate:"required"`
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
}

// PublicUser is a user document minus password, session and reset fields.
type PublicUser struct {
	ID            primitive.ObjectID `json:"_id"`
	Username      string             `json:"username"`
	Email         string             `json:"email"`
	Role          string             `json:"user_role"`
	Avatar        string             `json:"user_avatar,omitempty"`
	PhoneNumber   string             `json:"phone_number,omitempty"`
	Country       string             `json:"country,omitempty"`
	State         string             `json:"state,omitempty"`
	City          string             `json:"city,omitempty"`
	Pincode       string             `json:"pincode,omitempty"`
	Address       string             `json:"address,omitempty"`
	GoogleAvatar  string             `json:"google_user_avatar,omitempty"`
	IsVerified    bool               `json:"is_verified"`
	EmailVerified bool               `json:"email_verified"`
	FullName      string             `json:"full_name,omitempty"`
	Nickname      string             `json:"nickname,omitempty"`
	FamilyName    string             `json:"family_name,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type VerifyTokenResponse struct {
	IsLoggedIn bool        `json:"isLoggedIn"`
	Message    string      `json:"message"`
	Token      string      `json:"token,omitempty"`
	User       *PublicUser `json:"user,omitempty"`
}

type ProfileResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Session   string `json:"session"`
}
