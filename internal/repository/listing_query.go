package repository

import (
	"regexp"

	"github.com/swapify/swapify-backend/internal/geo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveFilter returns extra plus the soft-delete exclusion. The exclusion
// always wins over a caller-supplied "deleted" key.
func ActiveFilter(extra bson.M) bson.M {
	filter := bson.M{}
	for k, v := range extra {
		filter[k] = v
	}
	filter["deleted"] = bson.M{"$ne": true}
	return filter
}

// ListFilter translates a ListQuery.
func ListFilter(q ListQuery) bson.M {
	extra := bson.M{}
	if q.SellerID != nil {
		extra["seller_id"] = *q.SellerID
	}
	if q.Category != "" && q.Category != "all" {
		extra["category"] = q.Category
	}
	return ActiveFilter(extra)
}

// SearchFilter translates a SearchQuery. Regex mode is a literal,
// case-insensitive substring match on title or description. Text mode uses
// the weighted text index, which MongoDB refuses to combine with $near, so
// its radius constraint is expressed with $geoWithin instead.
func SearchFilter(q SearchQuery) bson.M {
	extra := bson.M{}

	if q.Mode == SearchModeText {
		extra["$text"] = bson.M{"$search": q.Text}
	} else {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		extra["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	if q.Center != nil {
		if q.Mode == SearchModeText {
			extra["location"] = bson.M{
				"$geoWithin": bson.M{
					"$centerSphere": bson.A{
						bson.A{q.Center.Lon(), q.Center.Lat()},
						geo.KmToRadians(geo.MetersToKm(q.MaxMeters)),
					},
				},
			}
		} else {
			extra["location"] = nearClause(*q.Center, q.MaxMeters)
		}
	}

	return ActiveFilter(extra)
}

// SearchOptions returns sort, projection and limit for a SearchQuery.
func SearchOptions(q SearchQuery) *options.FindOptions {
	limit := q.Limit
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}
	opts := options.Find().SetLimit(limit)
	if q.Mode == SearchModeText {
		score := bson.M{"$meta": "textScore"}
		return opts.
			SetProjection(bson.M{"score": score}).
			SetSort(bson.D{{Key: "score", Value: score}, {Key: "created_at", Value: -1}})
	}
	return opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
}

// NearbyFilter translates a NearQuery.
func NearbyFilter(q NearQuery) bson.M {
	extra := bson.M{"location": nearClause(q.Center, q.MaxMeters)}
	if q.Category != "" && q.Category != "all" {
		extra["category"] = q.Category
	}
	return ActiveFilter(extra)
}

func nearClause(center geo.Point, maxMeters float64) bson.M {
	return bson.M{
		"$near": bson.M{
			"$geometry":    center,
			"$maxDistance": maxMeters,
		},
	}
}
