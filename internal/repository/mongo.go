package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection    = "users"
	ListingsCollection = "listings"
	ChatsCollection    = "chats"
	ReportsCollection  = "reports"
)

// NewMongoStore builds repositories over db. Every call is bounded by timeout.
func NewMongoStore(db *mongo.Database, timeout time.Duration) *Store {
	return &Store{
		Users:    &mongoUsers{coll: db.Collection(UsersCollection), timeout: timeout},
		Listings: &mongoListings{coll: db.Collection(ListingsCollection), timeout: timeout},
		Chats:    &mongoChats{coll: db.Collection(ChatsCollection), timeout: timeout},
		Reports:  &mongoReports{coll: db.Collection(ReportsCollection), timeout: timeout},
		ping: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return db.Client().Ping(ctx, readpref.Primary())
		},
	}
}
