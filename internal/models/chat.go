package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is embedded in a Chat, in send order.
type Message struct {
	ID        primitive.ObjectID `bson:"_id"`
	Sender    primitive.ObjectID `bson:"sender"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// Chat groups the participants talking about one listing.
type Chat struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Listing      primitive.ObjectID   `bson:"listing"`
	Participants []primitive.ObjectID `bson:"participants"`
	Messages     []Message            `bson:"messages"`
	LastMessage  time.Time            `bson:"lastMessage"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

// HasParticipant reports whether userID takes part in the chat.
func (c *Chat) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
