package dto

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapify/swapify-backend/internal/geo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxAdditionalImages bounds additionalImageNames on create and update.
const MaxAdditionalImages = 9

// Coordinate accepts a JSON number or a numeric string.
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q", s)
	}
	*c = Coordinate(v)
	return nil
}

type LocationInput struct {
	Lat         *Coordinate `json:"lat"`
	Lon         *Coordinate `json:"lon"`
	DisplayName string      `json:"display_name" validate:"required"`
	Country     string      `json:"country"`
	State       string      `json:"state"`
	City        string      `json:"city"`
	Pincode     string      `json:"pincode"`
}

// HasCoordinates reports whether both lat and lon were supplied and are in range.
func (l *LocationInput) HasCoordinates() bool {
	if l == nil || l.Lat == nil || l.Lon == nil {
		return false
	}
	return geo.ValidCoordinates(float64(*l.Lat), float64(*l.Lon))
}

// Point converts to the stored GeoJSON point.
func (l *LocationInput) Point() geo.Point {
	return geo.NewPoint(float64(*l.Lat), float64(*l.Lon))
}

// ListingRequest is the body of create-listing and PUT /listings/:id.
type ListingRequest struct {
	Title                string           `json:"title" validate:"required,max=200"`
	Price                *decimal.Decimal `json:"price" validate:"required"`
	Description          string           `json:"description" validate:"required,max=5000"`
	PhoneNumber          string           `json:"phoneNumber" validate:"required,max=20"`
	CoverImageName       string           `json:"coverImageName" validate:"required"`
	AdditionalImageNames []string         `json:"additionalImageNames" validate:"max=9,dive,required"`
	Category             string           `json:"category" validate:"required"`
	Subcategory          string           `json:"subcategory" validate:"required"`
	Location             *LocationInput   `json:"location" validate:"required"`
}

type SellerSummary struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
}

type ListingResponse struct {
	ID                  primitive.ObjectID `json:"_id"`
	Title               string             `json:"title"`
	Seller              any                `json:"seller_id"`
	SellerNo            string             `json:"seller_no"`
	Price               float64            `json:"price"`
	PriceDisplay        string             `json:"price_display"`
	Description         string             `json:"description"`
	CoverImage          string             `json:"cover_image"`
	AdditionalImages    []string           `json:"additional_images"`
	Category            string             `json:"category"`
	Subcategory         string             `json:"subcategory"`
	LocationDisplayName string             `json:"location_display_name"`
	Country             string             `json:"country,omitempty"`
	State               string             `json:"state,omitempty"`
	City                string             `json:"city,omitempty"`
	Pincode             string             `json:"pincode,omitempty"`
	Location            geo.Point          `json:"location"`
	Deleted             bool               `json:"deleted"`
	Distance            *float64           `json:"distance,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type ListingEnvelope struct {
	Message string          `json:"message"`
	Listing ListingResponse `json:"listing"`
}

type SearchResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int               `json:"total"`
	Message  string            `json:"message"`
}

type NearbyResponse struct {
	Listings []ListingResponse `json:"listings"`
	Message  string            `json:"message"`
}

// ListingsError is the error body of the search endpoints, which always
// carry an empty listings array.
type ListingsError struct {
	Listings []ListingResponse `json:"listings"`
	Message  string            `json:"message"`
	Detail   string            `json:"error,omitempty"`
}

func NewListingsError(message string) ListingsError {
	return ListingsError{Listings: []ListingResponse{}, Message: message}
}
