package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/swapify/swapify-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore keeps the pointer in the last_token field of the user document.
type UserStore struct {
	users repository.UserRepository
}

func NewUserStore(users repository.UserRepository) *UserStore {
	return &UserStore{users: users}
}

func (s *UserStore) Set(ctx context.Context, userID, token string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("session user id: %w", err)
	}
	return s.users.SetLastToken(ctx, id, &token)
}

func (s *UserStore) Get(ctx context.Context, userID string) (string, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", ErrNoSession
	}
	token, err := s.users.LastToken(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && token == nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return *token, nil
}

func (s *UserStore) Clear(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return fmt.Errorf("session user id: %w", err)
	}
	err = s.users.SetLastToken(ctx, id, nil)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
