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

type mongoReports struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *mongoReports) Create(ctx context.Context, report *models.Report) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	if report.Status == "" {
		report.Status = models.ReportPending
	}

	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *mongoReports) List(ctx context.Context, status string, limit, offset int64) ([]models.Report, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	reports := []models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, 0, fmt.Errorf("decode reports: %w", err)
	}
	return reports, total, nil
}

func (r *mongoReports) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, note string) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var report models.Report
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "admin_note": note, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update report: %w", err)
	}
	return &report, nil
}
