package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/models"
	"github.com/swapify/swapify-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService struct {
	chats    repository.ChatRepository
	listings repository.ListingRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewChatService(chats repository.ChatRepository, listings repository.ListingRepository, users repository.UserRepository) *ChatService {
	return &ChatService{chats: chats, listings: listings, users: users, now: time.Now}
}

// Open returns the caller's chat about a listing, creating it with the
// seller as second participant on first contact. A non-empty message is
// appended to an existing chat.
func (s *ChatService) Open(ctx context.Context, callerID primitive.ObjectID, req *dto.CreateChatRequest) (*dto.ChatResponse, error) {
	listingID, err := primitive.ObjectIDFromHex(req.ListingID)
	if err != nil {
		return nil, ErrInvalidID
	}
	listing, err := s.listings.FindActive(ctx, listingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Message)
	chat, err := s.chats.FindForListing(ctx, listingID, callerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		participants := []primitive.ObjectID{callerID}
		if listing.SellerID != callerID {
			participants = append(participants, listing.SellerID)
		}
		chat = &models.Chat{Listing: listingID, Participants: participants, Messages: []models.Message{}}
		if content != "" {
			msg := s.newMessage(callerID, content)
			chat.Messages = append(chat.Messages, msg)
			chat.LastMessage = msg.CreatedAt
		}
		if err := s.chats.Create(ctx, chat); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case content != "":
		if _, err := s.appendTo(ctx, chat, callerID, content); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, callerID, chat.ID.Hex())
}

func (s *ChatService) List(ctx context.Context, callerID primitive.ObjectID) ([]dto.ChatResponse, error) {
	chats, err := s.chats.ListForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, chats)
}

func (s *ChatService) Get(ctx context.Context, callerID primitive.ObjectID, chatID string) (*dto.ChatResponse, error) {
	chat, err := s.participantChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}
	out, err := s.populate(ctx, []models.Chat{*chat})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Send appends a message and returns it with the sender populated.
func (s *ChatService) Send(ctx context.Context, callerID primitive.ObjectID, chatID string, req *dto.SendMessageRequest) (*dto.ChatMessage, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	chat, err := s.participantChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}
	msg, err := s.appendTo(ctx, chat, callerID, content)
	if err != nil {
		return nil, err
	}

	senders, err := loadUsers(ctx, s.users, []primitive.ObjectID{callerID})
	if err != nil {
		return nil, err
	}
	return &dto.ChatMessage{
		ID:        msg.ID,
		Sender:    senders.participant(callerID),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}, nil
}

func (s *ChatService) newMessage(sender primitive.ObjectID, content string) models.Message {
	return models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    sender,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
}

func (s *ChatService) appendTo(ctx context.Context, chat *models.Chat, sender primitive.ObjectID, content string) (*models.Message, error) {
	msg := s.newMessage(sender, content)
	err := s.chats.AppendMessage(ctx, chat.ID, msg)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *ChatService) participantChat(ctx context.Context, callerID primitive.ObjectID, chatID string) (*models.Chat, error) {
	oid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, ErrInvalidID
	}
	chat, err := s.chats.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(callerID) {
		return nil, ErrNotParticipant
	}
	return chat, nil
}

func (s *ChatService) populate(ctx context.Context, chats []models.Chat) ([]dto.ChatResponse, error) {
	var userIDs, listingIDs []primitive.ObjectID
	for _, c := range chats {
		listingIDs = append(listingIDs, c.Listing)
		userIDs = append(userIDs, c.Participants...)
		for _, m := range c.Messages {
			userIDs = append(userIDs, m.Sender)
		}
	}
	users, err := loadUsers(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}
	listings, err := s.loadListings(ctx, listingIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatResponse, 0, len(chats))
	for _, c := range chats {
		resp := dto.ChatResponse{
			ID:           c.ID,
			Participants: make([]dto.Participant, 0, len(c.Participants)),
			Messages:     make([]dto.ChatMessage, 0, len(c.Messages)),
			LastMessage:  c.LastMessage,
			CreatedAt:    c.CreatedAt,
			UpdatedAt:    c.UpdatedAt,
		}

		if listing, ok := listings[c.Listing]; ok {
			l := toListingResponse(listing, listing.SellerID)
			resp.Listing = &l
		}

		for _, id := range c.Participants {
			if u, ok := users[id]; ok {
				resp.Participants = append(resp.Participants, toParticipant(u))
			}
		}
		for _, m := range c.Messages {
			resp.Messages = append(resp.Messages, dto.ChatMessage{
				ID:        m.ID,
				Sender:    users.participant(m.Sender),
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
			})
		}
		out = append(out, resp)
	}
	return out, nil
}

// loadListings fetches the active listings behind a page of chats in one
// query. Deleted listings are absent from the result.
func (s *ChatService) loadListings(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Listing, error) {
	seen := map[primitive.ObjectID]bool{}
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.listings.FindActiveByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	lookup := make(map[primitive.ObjectID]*models.Listing, len(found))
	for i := range found {
		lookup[found[i].ID] = &found[i]
	}
	return lookup, nil
}
