package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportActioned  = "actioned"
	ReportDismissed = "dismissed"
)

// Report flags a listing for admin review.
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	ListingID  primitive.ObjectID `bson:"listing_id" json:"listing_id"`
	Reason     string             `bson:"reason" json:"reason"`
	Status     string             `bson:"status" json:"status"`
	AdminNote  string             `bson:"admin_note,omitempty" json:"admin_note,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
