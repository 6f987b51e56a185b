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

type mongoListings struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *mongoListings) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	listing.Deleted = false
	if listing.AdditionalImages == nil {
		listing.AdditionalImages = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (r *mongoListings) FindActive(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var listing models.Listing
	if err := r.coll.FindOne(ctx, ActiveFilter(bson.M{"_id": id})).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &listing, nil
}

func (r *mongoListings) FindActiveByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, ActiveFilter(bson.M{"_id": bson.M{"$in": ids}}))
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	var listings []models.Listing
	if err := cur.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return listings, nil
}

func (r *mongoListings) List(ctx context.Context, q ListQuery) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return r.find(ctx, ListFilter(q), opts)
}

func (r *mongoListings) Update(ctx context.Context, id, sellerID primitive.ObjectID, upd models.ListingUpdate) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	images := upd.AdditionalImages
	if images == nil {
		images = []string{}
	}
	set := bson.M{
		"title":                 upd.Title,
		"seller_no":             upd.SellerNo,
		"price":                 upd.Price,
		"description":           upd.Description,
		"cover_image":           upd.CoverImage,
		"additional_images":     images,
		"category":              upd.Category,
		"subcategory":           upd.Subcategory,
		"location_display_name": upd.LocationDisplayName,
		"country":               upd.Country,
		"state":                 upd.State,
		"city":                  upd.City,
		"pincode":               upd.Pincode,
		"location":              upd.Location,
		"updated_at":            time.Now().UTC(),
	}

	var listing models.Listing
	err := r.coll.FindOneAndUpdate(ctx,
		ActiveFilter(bson.M{"_id": id, "seller_id": sellerID}),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update listing: %w", err)
	}
	return &listing, nil
}

func (r *mongoListings) SoftDelete(ctx context.Context, id, sellerID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		ActiveFilter(bson.M{"_id": id, "seller_id": sellerID}),
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("soft delete listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoListings) MarkDeleted(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, ActiveFilter(bson.M{"_id": id}),
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("mark listing deleted: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoListings) Search(ctx context.Context, q SearchQuery) ([]models.Listing, error) {
	return r.find(ctx, SearchFilter(q), SearchOptions(q))
}

func (r *mongoListings) Near(ctx context.Context, q NearQuery) ([]models.Listing, error) {
	return r.find(ctx, NearbyFilter(q), options.Find())
}

func (r *mongoListings) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	listings := []models.Listing{}
	if err := cur.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return listings, nil
}
