package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/geo"
	"github.com/swapify/swapify-backend/internal/metrics"
	"github.com/swapify/swapify-backend/internal/models"
	"github.com/swapify/swapify-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultSearchRadiusKm    = 50
	DefaultNearbyRadiusMeter = 50000
	MaxPageSize              = 100
)

type ListingService struct {
	listings   repository.ListingRepository
	users      repository.UserRepository
	searchMode string
}

func NewListingService(listings repository.ListingRepository, users repository.UserRepository, searchMode string) *ListingService {
	if searchMode != repository.SearchModeText {
		searchMode = repository.SearchModeRegex
	}
	return &ListingService{listings: listings, users: users, searchMode: searchMode}
}

// SearchParams is the raw query string of /search-listings.
type SearchParams struct {
	Query       string
	Latitude    string
	Longitude   string
	MaxDistance string
}

// NearbyParams is the raw query string of /nearby-listings.
type NearbyParams struct {
	Latitude    string
	Longitude   string
	MaxDistance string
	Category    string
}

// ListParams narrows GET /listings. Zero Limit returns everything.
type ListParams struct {
	Category string
	Page     int
	Limit    int
}

func (s *ListingService) Create(ctx context.Context, sellerID primitive.ObjectID, req *dto.ListingRequest) (*dto.ListingResponse, error) {
	upd, err := toListingUpdate(req)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Title:               upd.Title,
		SellerID:            sellerID,
		SellerNo:            upd.SellerNo,
		Price:               upd.Price,
		Description:         upd.Description,
		CoverImage:          upd.CoverImage,
		AdditionalImages:    upd.AdditionalImages,
		Category:            upd.Category,
		Subcategory:         upd.Subcategory,
		LocationDisplayName: upd.LocationDisplayName,
		Country:             upd.Country,
		State:               upd.State,
		City:                upd.City,
		Pincode:             upd.Pincode,
		Location:            upd.Location,
	}
	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return s.populateOne(ctx, listing)
}

func (s *ListingService) Get(ctx context.Context, id string) (*dto.ListingResponse, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	listing, err := s.findActive(ctx, oid)
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, listing)
}

func (s *ListingService) List(ctx context.Context, p ListParams) ([]dto.ListingResponse, error) {
	q := repository.ListQuery{Category: p.Category}
	if p.Limit > 0 {
		limit := min(p.Limit, MaxPageSize)
		page := max(p.Page, 1)
		q.Limit = int64(limit)
		q.Skip = int64((page - 1) * limit)
	}
	listings, err := s.listings.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, listings, nil)
}

func (s *ListingService) ListMine(ctx context.Context, sellerID primitive.ObjectID) ([]dto.ListingResponse, error) {
	listings, err := s.listings.List(ctx, repository.ListQuery{SellerID: &sellerID})
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, listings, nil)
}

// Update overwrites the listing after the ownership check. A non-owner
// gets ErrNotOwner and the document is left as it was.
func (s *ListingService) Update(ctx context.Context, id string, callerID primitive.ObjectID, req *dto.ListingRequest) (*dto.ListingResponse, error) {
	listing, err := s.ownedListing(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	upd, err := toListingUpdate(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.listings.Update(ctx, listing.ID, callerID, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.populateOne(ctx, updated)
}

func (s *ListingService) Delete(ctx context.Context, id string, callerID primitive.ObjectID) error {
	listing, err := s.ownedListing(ctx, id, callerID)
	if err != nil {
		return err
	}
	err = s.listings.SoftDelete(ctx, listing.ID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrListingNotFound
	}
	return err
}

func (s *ListingService) Search(ctx context.Context, p SearchParams) (*dto.SearchResponse, error) {
	text := strings.TrimSpace(p.Query)
	if text == "" {
		return nil, ErrMissingQuery
	}

	q := repository.SearchQuery{Text: text, Mode: s.searchMode, Limit: repository.SearchLimit}

	var center *geo.Point
	if p.Latitude != "" && p.Longitude != "" {
		lat, lon, err := parseCoordinates(p.Latitude, p.Longitude)
		if err != nil {
			return nil, err
		}
		km, err := parseDistance(p.MaxDistance, DefaultSearchRadiusKm)
		if err != nil {
			return nil, err
		}
		pt := geo.NewPoint(lat, lon)
		center = &pt
		q.Center = center
		q.MaxMeters = geo.KmToMeters(km)
	}

	listings, err := s.listings.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	var distances map[primitive.ObjectID]float64
	if center != nil {
		listings, distances = withinRadius(listings, *center, q.MaxMeters)
	}
	out, err := s.populate(ctx, listings, distances)
	if err != nil {
		return nil, err
	}

	metrics.SearchResults.WithLabelValues("search").Observe(float64(len(out)))
	return &dto.SearchResponse{
		Listings: out,
		Total:    len(out),
		Message:  fmt.Sprintf("Found %d listings", len(out)),
	}, nil
}

// Nearby runs the radius pipeline: index pre-filter, exact Haversine
// recompute, radius cut on the rounded distance, nearest first.
func (s *ListingService) Nearby(ctx context.Context, p NearbyParams) (*dto.NearbyResponse, error) {
	if p.Latitude == "" || p.Longitude == "" {
		return nil, ErrMissingCoords
	}
	lat, lon, err := parseCoordinates(p.Latitude, p.Longitude)
	if err != nil {
		return nil, err
	}
	meters, err := parseDistance(p.MaxDistance, DefaultNearbyRadiusMeter)
	if err != nil {
		return nil, err
	}
	center := geo.NewPoint(lat, lon)

	listings, err := s.listings.Near(ctx, repository.NearQuery{
		Center:    center,
		MaxMeters: meters,
		Category:  p.Category,
	})
	if err != nil {
		return nil, err
	}

	listings, distances := withinRadius(listings, center, meters)
	out, err := s.populate(ctx, listings, distances)
	if err != nil {
		return nil, err
	}

	metrics.SearchResults.WithLabelValues("nearby").Observe(float64(len(out)))
	radius := strconv.FormatFloat(geo.MetersToKm(meters), 'f', -1, 64)
	msg := fmt.Sprintf("No listings found within %skm of your location", radius)
	if len(out) > 0 {
		msg = fmt.Sprintf("Found %d listings within %skm", len(out), radius)
	}
	return &dto.NearbyResponse{Listings: out, Message: msg}, nil
}

// boundaryEpsilonKm absorbs the float error of the metre to km conversion so
// a listing whose rounded distance equals the radius stays in.
const boundaryEpsilonKm = 1e-9

// withinRadius attaches the rounded great-circle distance to each listing,
// drops those beyond maxMeters and sorts nearest first. Ties keep the input
// order. A listing exactly on the boundary is kept.
func withinRadius(listings []models.Listing, center geo.Point, maxMeters float64) ([]models.Listing, map[primitive.ObjectID]float64) {
	maxKm := geo.MetersToKm(maxMeters)
	distances := make(map[primitive.ObjectID]float64, len(listings))
	kept := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		d := geo.Round2(geo.Distance(center.Lat(), center.Lon(), l.Location.Lat(), l.Location.Lon()))
		if math.IsNaN(d) || d > maxKm+boundaryEpsilonKm {
			continue
		}
		distances[l.ID] = d
		kept = append(kept, l)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return distances[kept[i].ID] < distances[kept[j].ID]
	})
	return kept, distances
}

func parseCoordinates(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoords
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, ErrInvalidCoords
	}
	if !geo.ValidCoordinates(lat, lon) {
		return 0, 0, ErrInvalidCoords
	}
	return lat, lon, nil
}

func parseDistance(raw string, fallback float64) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidDistance
	}
	return v, nil
}

func toListingUpdate(req *dto.ListingRequest) (models.ListingUpdate, error) {
	if !req.Location.HasCoordinates() {
		return models.ListingUpdate{}, ErrMissingLocation
	}
	if req.Price.IsNegative() {
		return models.ListingUpdate{}, ErrNegativePrice
	}
	price, err := ToDecimal128(*req.Price)
	if err != nil {
		return models.ListingUpdate{}, err
	}

	images := req.AdditionalImageNames
	if images == nil {
		images = []string{}
	}
	return models.ListingUpdate{
		Title:               strings.TrimSpace(req.Title),
		SellerNo:            req.PhoneNumber,
		Price:               price,
		Description:         req.Description,
		CoverImage:          req.CoverImageName,
		AdditionalImages:    images,
		Category:            req.Category,
		Subcategory:         req.Subcategory,
		LocationDisplayName: req.Location.DisplayName,
		Country:             req.Location.Country,
		State:               req.Location.State,
		City:                req.Location.City,
		Pincode:             req.Location.Pincode,
		Location:            req.Location.Point(),
	}, nil
}

func (s *ListingService) findActive(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	listing, err := s.listings.FindActive(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	return listing, err
}

func (s *ListingService) ownedListing(ctx context.Context, id string, callerID primitive.ObjectID) (*models.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	listing, err := s.findActive(ctx, oid)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != callerID {
		return nil, ErrNotOwner
	}
	return listing, nil
}

func (s *ListingService) populateOne(ctx context.Context, l *models.Listing) (*dto.ListingResponse, error) {
	out, err := s.populate(ctx, []models.Listing{*l}, nil)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *ListingService) populate(ctx context.Context, listings []models.Listing, distances map[primitive.ObjectID]float64) ([]dto.ListingResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.SellerID)
	}
	sellers, err := loadUsers(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		resp := toListingResponse(&listings[i], sellers.seller(listings[i].SellerID))
		if d, ok := distances[listings[i].ID]; ok {
			resp.Distance = &d
		}
		out = append(out, resp)
	}
	return out, nil
}
