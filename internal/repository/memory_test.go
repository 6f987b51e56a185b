package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/swapify/swapify-backend/internal/geo"
	"github.com/swapify/swapify-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedListing(t *testing.T, s *Store, seller primitive.ObjectID, title string, lat, lon float64) *models.Listing {
	t.Helper()
	l := &models.Listing{
		Title:    title,
		SellerID: seller,
		Category: "misc",
		Location: geo.NewPoint(lat, lon),
	}
	if err := s.Listings.Create(context.Background(), l); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return l
}

func TestMemoryUsersDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Users.Create(ctx, &models.User{Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := s.Users.Create(ctx, &models.User{Email: "a@example.com"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestMemoryResetToken(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u := &models.User{Email: "r@example.com"}
	if err := s.Users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := s.Users.SetResetToken(ctx, u.ID, "abc", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Users.FindByResetToken(ctx, u.Email, "abc", now); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if _, err := s.Users.FindByResetToken(ctx, u.Email, "abc", now.Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired token accepted: %v", err)
	}
	if _, err := s.Users.FindByResetToken(ctx, u.Email, "wrong", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong token accepted: %v", err)
	}

	if err := s.Users.ResetPassword(ctx, u.ID, "hash"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Users.FindByID(ctx, u.ID)
	if got.ResetPasswordToken != "" || got.ResetPasswordExpires != nil || got.Password != "hash" {
		t.Fatalf("reset did not clear fields: %+v", got)
	}
}

func TestMemorySoftDeleteHidesListing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seller := primitive.NewObjectID()
	l := seedListing(t, s, seller, "Old bike", 12.9716, 77.5946)

	if err := s.Listings.SoftDelete(ctx, l.ID, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-owner delete: %v", err)
	}
	if err := s.Listings.SoftDelete(ctx, l.ID, seller); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Listings.FindActive(ctx, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FindActive: %v", err)
	}
	all, _ := s.Listings.List(ctx, ListQuery{})
	if len(all) != 0 {
		t.Fatalf("List returned deleted listing")
	}
	found, _ := s.Listings.Search(ctx, SearchQuery{Text: "bike"})
	if len(found) != 0 {
		t.Fatalf("Search returned deleted listing")
	}
	near, _ := s.Listings.Near(ctx, NearQuery{Center: geo.NewPoint(12.9716, 77.5946), MaxMeters: 1000})
	if len(near) != 0 {
		t.Fatalf("Near returned deleted listing")
	}
}

func TestMemorySearchModes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seller := primitive.NewObjectID()
	seedListing(t, s, seller, "Mountain bike", 28.6139, 77.2090)
	seedListing(t, s, seller, "Bike helmet (new)", 28.6139, 77.2090)
	seedListing(t, s, seller, "Sofa", 28.6139, 77.2090)

	got, _ := s.Listings.Search(ctx, SearchQuery{Text: "BIKE"})
	if len(got) != 2 {
		t.Fatalf("regex search found %d, want 2", len(got))
	}
	got, _ = s.Listings.Search(ctx, SearchQuery{Text: "(new)"})
	if len(got) != 1 {
		t.Fatalf("literal search found %d, want 1", len(got))
	}
	got, _ = s.Listings.Search(ctx, SearchQuery{Text: "mountain bike", Mode: SearchModeText})
	if len(got) != 2 || got[0].Title != "Mountain bike" {
		t.Fatalf("text search order = %+v", got)
	}
}

func TestMemoryNearRespectsRadiusAndCategory(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	seller := primitive.NewObjectID()
	delhi := seedListing(t, s, seller, "Delhi", 28.6139, 77.2090)
	seedListing(t, s, seller, "Bengaluru", 12.9716, 77.5946)

	got, _ := s.Listings.Near(ctx, NearQuery{Center: geo.NewPoint(28.61, 77.20), MaxMeters: 5000})
	if len(got) != 1 || got[0].ID != delhi.ID {
		t.Fatalf("near = %+v", got)
	}
	got, _ = s.Listings.Near(ctx, NearQuery{Center: geo.NewPoint(28.61, 77.20), MaxMeters: 5000, Category: "cars"})
	if len(got) != 0 {
		t.Fatalf("category filter ignored")
	}
}

func TestMemoryChats(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	buyer, seller, listing := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	first := &models.Chat{Listing: listing, Participants: []primitive.ObjectID{buyer, seller}}
	if err := s.Chats.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := &models.Chat{Listing: primitive.NewObjectID(), Participants: []primitive.ObjectID{buyer, seller}}
	if err := s.Chats.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	msg := models.Message{ID: primitive.NewObjectID(), Sender: buyer, Content: "hi", CreatedAt: time.Now().Add(time.Minute)}
	if err := s.Chats.AppendMessage(ctx, first.ID, msg); err != nil {
		t.Fatal(err)
	}

	chats, _ := s.Chats.ListForUser(ctx, seller)
	if len(chats) != 2 || chats[0].ID != first.ID {
		t.Fatalf("most recent chat should come first: %+v", chats)
	}
	if _, err := s.Chats.FindForListing(ctx, listing, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stranger found chat: %v", err)
	}
	got, _ := s.Chats.FindByID(ctx, first.ID)
	if len(got.Messages) != 1 || got.Messages[0].Content != "hi" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestMemoryReportsPaging(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Reports.Create(ctx, &models.Report{Reason: "spam"}); err != nil {
			t.Fatal(err)
		}
	}

	reports, total, err := s.Reports.List(ctx, models.ReportPending, 2, 0)
	if err != nil || total != 3 || len(reports) != 2 {
		t.Fatalf("List = %d/%d, %v", len(reports), total, err)
	}
	reports, _, _ = s.Reports.List(ctx, models.ReportPending, 2, 2)
	if len(reports) != 1 {
		t.Fatalf("second page = %d", len(reports))
	}
	_, total, _ = s.Reports.List(ctx, models.ReportDismissed, 10, 0)
	if total != 0 {
		t.Fatalf("dismissed total = %d", total)
	}
}
