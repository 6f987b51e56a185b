// Package repository persists users, listings, chats and reports. Listing
// reads always exclude soft-deleted documents.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/swapify/swapify-backend/internal/geo"
	"github.com/swapify/swapify-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

const (
	SearchModeRegex = "regex"
	SearchModeText  = "text"

	// SearchLimit caps free-text search results.
	SearchLimit = 50
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error
	// FindByResetToken matches email and token exactly and requires the
	// stored expiry to be after now.
	FindByResetToken(ctx context.Context, email, token string, now time.Time) (*models.User, error)
	// ResetPassword stores the new hash and clears the reset token fields.
	ResetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	// SetLastToken replaces the single-session pointer; nil clears it.
	SetLastToken(ctx context.Context, id primitive.ObjectID, token *string) error
	LastToken(ctx context.Context, id primitive.ObjectID) (*string, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	FindActive(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	// FindActiveByIDs skips ids that are missing or deleted.
	FindActiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error)
	List(ctx context.Context, q ListQuery) ([]models.Listing, error)
	// Update overwrites the editable fields of an active listing owned by sellerID.
	Update(ctx context.Context, id, sellerID primitive.ObjectID, upd models.ListingUpdate) (*models.Listing, error)
	SoftDelete(ctx context.Context, id, sellerID primitive.ObjectID) error
	// MarkDeleted soft-deletes without an owner check, for moderation.
	MarkDeleted(ctx context.Context, id primitive.ObjectID) error
	Search(ctx context.Context, q SearchQuery) ([]models.Listing, error)
	// Near is the coarse index-backed pre-filter for radius queries.
	Near(ctx context.Context, q NearQuery) ([]models.Listing, error)
}

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error)
	FindForListing(ctx context.Context, listingID, userID primitive.ObjectID) (*models.Chat, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error)
	AppendMessage(ctx context.Context, chatID primitive.ObjectID, msg models.Message) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, status string, limit, offset int64) ([]models.Report, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status, note string) (*models.Report, error)
}

// Store bundles the repositories behind one backing database.
type Store struct {
	Users    UserRepository
	Listings ListingRepository
	Chats    ChatRepository
	Reports  ReportRepository

	ping func(ctx context.Context) error
}

// Ping checks the backing database.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// ListQuery filters plain listing reads. Zero values mean no constraint.
type ListQuery struct {
	SellerID *primitive.ObjectID
	Category string
	Skip     int64
	Limit    int64
}

// SearchQuery is a free-text search with an optional radius constraint.
type SearchQuery struct {
	Text      string
	Mode      string
	Center    *geo.Point
	MaxMeters float64
	Limit     int64
}

// NearQuery is a radius query around Center, optionally narrowed to a category.
type NearQuery struct {
	Center    geo.Point
	MaxMeters float64
	Category  string
}
