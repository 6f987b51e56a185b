package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateChatRequest struct {
	ListingID string `json:"listingId" validate:"required"`
	Message   string `json:"message" validate:"max=2000"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type Participant struct {
	ID           primitive.ObjectID `json:"_id"`
	Username     string             `json:"username"`
	Email        string             `json:"email"`
	Avatar       string             `json:"user_avatar,omitempty"`
	GoogleAvatar string             `json:"google_user_avatar,omitempty"`
}

type ChatMessage struct {
	ID        primitive.ObjectID `json:"_id"`
	Sender    any                `json:"sender"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

type ChatResponse struct {
	ID           primitive.ObjectID `json:"_id"`
	Listing      *ListingResponse   `json:"listing"`
	Participants []Participant      `json:"participants"`
	Messages     []ChatMessage      `json:"messages"`
	LastMessage  time.Time          `json:"lastMessage"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
