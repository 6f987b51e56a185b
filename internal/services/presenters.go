package services

import (
	"context"
	"fmt"

	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/models"
	"github.com/swapify/swapify-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func toPublicUser(u *models.User) dto.PublicUser {
	return dto.PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		Avatar:        u.Avatar,
		PhoneNumber:   u.PhoneNumber,
		Country:       u.Country,
		State:         u.State,
		City:          u.City,
		Pincode:       u.Pincode,
		Address:       u.Address,
		GoogleAvatar:  u.GoogleAvatar,
		IsVerified:    u.IsVerified,
		EmailVerified: u.EmailVerified,
		FullName:      u.FullName,
		Nickname:      u.Nickname,
		FamilyName:    u.FamilyName,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toParticipant(u *models.User) dto.Participant {
	return dto.Participant{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Avatar:       u.Avatar,
		GoogleAvatar: u.GoogleAvatar,
	}
}

func toListingResponse(l *models.Listing, seller any) dto.ListingResponse {
	price := FromDecimal128(l.Price)
	images := l.AdditionalImages
	if images == nil {
		images = []string{}
	}
	return dto.ListingResponse{
		ID:                  l.ID,
		Title:               l.Title,
		Seller:              seller,
		SellerNo:            l.SellerNo,
		Price:               price.InexactFloat64(),
		PriceDisplay:        FormatINR(price),
		Description:         l.Description,
		CoverImage:          l.CoverImage,
		AdditionalImages:    images,
		Category:            l.Category,
		Subcategory:         l.Subcategory,
		LocationDisplayName: l.LocationDisplayName,
		Country:             l.Country,
		State:               l.State,
		City:                l.City,
		Pincode:             l.Pincode,
		Location:            l.Location,
		Deleted:             l.Deleted,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// userLookup loads users by id in one query.
type userLookup map[primitive.ObjectID]*models.User

func loadUsers(ctx context.Context, users repository.UserRepository, ids []primitive.ObjectID) (userLookup, error) {
	seen := map[primitive.ObjectID]bool{}
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	lookup := make(userLookup, len(found))
	for i := range found {
		lookup[found[i].ID] = &found[i]
	}
	return lookup, nil
}

// seller returns the populated seller summary, or the bare id when the
// account no longer exists.
func (l userLookup) seller(id primitive.ObjectID) any {
	if u, ok := l[id]; ok {
		return dto.SellerSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return id
}

func (l userLookup) participant(id primitive.ObjectID) any {
	if u, ok := l[id]; ok {
		return toParticipant(u)
	}
	return id
}
