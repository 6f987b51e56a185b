package models

import (
	"time"

	"github.com/swapify/swapify-backend/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing is a sellable item. Deleted listings stay in storage and are
// filtered out of every read path by the repository.
type Listing struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty"`
	Title               string               `bson:"title"`
	SellerID            primitive.ObjectID   `bson:"seller_id"`
	SellerNo            string               `bson:"seller_no"`
	Price               primitive.Decimal128 `bson:"price"`
	Description         string               `bson:"description"`
	CoverImage          string               `bson:"cover_image"`
	AdditionalImages    []string             `bson:"additional_images"`
	Category            string               `bson:"category"`
	Subcategory         string               `bson:"subcategory"`
	LocationDisplayName string               `bson:"location_display_name"`
	Country             string               `bson:"country,omitempty"`
	State               string               `bson:"state,omitempty"`
	City                string               `bson:"city,omitempty"`
	Pincode             string               `bson:"pincode,omitempty"`
	Location            geo.Point            `bson:"location"`
	Deleted             bool                 `bson:"deleted"`
	CreatedAt           time.Time            `bson:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at"`
}

// ListingUpdate is the full set of owner-editable fields. Update overwrites
// every one of them.
type ListingUpdate struct {
	Title               string
	SellerNo            string
	Price               primitive.Decimal128
	Description         string
	CoverImage          string
	AdditionalImages    []string
	Category            string
	Subcategory         string
	LocationDisplayName string
	Country             string
	State               string
	City                string
	Pincode             string
	Location            geo.Point
}
