package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swapify/swapify-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoChats struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *mongoChats) Create(ctx context.Context, chat *models.Chat) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.LastMessage.IsZero() {
		chat.LastMessage = now
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}

	if _, err := r.coll.InsertOne(ctx, chat); err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	return nil
}

func (r *mongoChats) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoChats) FindForListing(ctx context.Context, listingID, userID primitive.ObjectID) (*models.Chat, error) {
	return r.findOne(ctx, bson.M{"listing": listingID, "participants": userID})
}

func (r *mongoChats) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"participants": userID},
		options.Find().SetSort(bson.D{{Key: "lastMessage", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	chats := []models.Chat{}
	if err := cur.All(ctx, &chats); err != nil {
		return nil, fmt.Errorf("decode chats: %w", err)
	}
	return chats, nil
}

func (r *mongoChats) AppendMessage(ctx context.Context, chatID primitive.ObjectID, msg models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": chatID}, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"lastMessage": msg.CreatedAt, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoChats) findOne(ctx context.Context, filter bson.M) (*models.Chat, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var chat models.Chat
	if err := r.coll.FindOne(ctx, filter).Decode(&chat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find chat: %w", err)
	}
	return &chat, nil
}
