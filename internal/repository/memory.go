package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/swapify/swapify-backend/internal/geo"
	"github.com/swapify/swapify-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// textWeights mirrors the weights of the listings text index.
var textWeights = []struct {
	weight int
	field  func(l *models.Listing) string
}{
	{10, func(l *models.Listing) string { return l.Title }},
	{5, func(l *models.Listing) string { return l.Description }},
	{3, func(l *models.Listing) string { return l.LocationDisplayName }},
	{2, func(l *models.Listing) string { return l.City }},
	{1, func(l *models.Listing) string { return l.State }},
}

type memoryDB struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]models.User
	listings map[primitive.ObjectID]models.Listing
	chats    map[primitive.ObjectID]models.Chat
	reports  map[primitive.ObjectID]models.Report
}

// NewMemoryStore returns a process-local Store with the same semantics as
// the Mongo one. Geo operators are evaluated with geo.Distance.
func NewMemoryStore() *Store {
	db := &memoryDB{
		users:    map[primitive.ObjectID]models.User{},
		listings: map[primitive.ObjectID]models.Listing{},
		chats:    map[primitive.ObjectID]models.Chat{},
		reports:  map[primitive.ObjectID]models.Report{},
	}
	return &Store{
		Users:    &memoryUsers{db},
		Listings: &memoryListings{db},
		Chats:    &memoryChats{db},
		Reports:  &memoryReports{db},
	}
}

type memoryUsers struct{ db *memoryDB }

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	r.db.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var users []models.User
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *memoryUsers) List(_ context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *memoryUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&u.Username, upd.Username)
	apply(&u.PhoneNumber, upd.PhoneNumber)
	apply(&u.Country, upd.Country)
	apply(&u.State, upd.State)
	apply(&u.City, upd.City)
	apply(&u.Pincode, upd.Pincode)
	apply(&u.Address, upd.Address)
	apply(&u.Avatar, upd.Avatar)
	u.UpdatedAt = time.Now().UTC()
	r.db.users[id] = u
	return &u, nil
}

func (r *memoryUsers) SetResetToken(_ context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return ErrNotFound
	}
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = &expires
	u.UpdatedAt = time.Now().UTC()
	r.db.users[id] = u
	return nil
}

func (r *memoryUsers) FindByResetToken(_ context.Context, email, token string, now time.Time) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.Email == email && u.ResetPasswordToken != "" && u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) ResetPassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	u.UpdatedAt = time.Now().UTC()
	r.db.users[id] = u
	return nil
}

func (r *memoryUsers) SetLastToken(_ context.Context, id primitive.ObjectID, token *string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastToken = token
	r.db.users[id] = u
	return nil
}

func (r *memoryUsers) LastToken(_ context.Context, id primitive.ObjectID) (*string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.LastToken, nil
}

type memoryListings struct{ db *memoryDB }

func (r *memoryListings) Create(_ context.Context, listing *models.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now
	if listing.AdditionalImages == nil {
		listing.AdditionalImages = []string{}
	}
	r.db.listings[listing.ID] = *listing
	return nil
}

func (r *memoryListings) FindActive(_ context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	l, ok := r.db.listings[id]
	if !ok || l.Deleted {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *memoryListings) FindActiveByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Listing, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var listings []models.Listing
	for _, id := range ids {
		if l, ok := r.db.listings[id]; ok && !l.Deleted {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

func (r *memoryListings) List(_ context.Context, q ListQuery) ([]models.Listing, error) {
	listings := r.active(func(l *models.Listing) bool {
		if q.SellerID != nil && l.SellerID != *q.SellerID {
			return false
		}
		return matchCategory(l, q.Category)
	})
	sortNewest(listings)
	return page(listings, q.Skip, q.Limit), nil
}

func (r *memoryListings) Update(_ context.Context, id, sellerID primitive.ObjectID, upd models.ListingUpdate) (*models.Listing, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.listings[id]
	if !ok || l.Deleted || l.SellerID != sellerID {
		return nil, ErrNotFound
	}
	images := upd.AdditionalImages
	if images == nil {
		images = []string{}
	}
	l.Title = upd.Title
	l.SellerNo = upd.SellerNo
	l.Price = upd.Price
	l.Description = upd.Description
	l.CoverImage = upd.CoverImage
	l.AdditionalImages = images
	l.Category = upd.Category
	l.Subcategory = upd.Subcategory
	l.LocationDisplayName = upd.LocationDisplayName
	l.Country = upd.Country
	l.State = upd.State
	l.City = upd.City
	l.Pincode = upd.Pincode
	l.Location = upd.Location
	l.UpdatedAt = time.Now().UTC()
	r.db.listings[id] = l
	return &l, nil
}

func (r *memoryListings) SoftDelete(_ context.Context, id, sellerID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.listings[id]
	if !ok || l.Deleted || l.SellerID != sellerID {
		return ErrNotFound
	}
	l.Deleted = true
	l.UpdatedAt = time.Now().UTC()
	r.db.listings[id] = l
	return nil
}

func (r *memoryListings) Search(_ context.Context, q SearchQuery) ([]models.Listing, error) {
	needle := strings.ToLower(q.Text)
	terms := strings.Fields(needle)
	scores := map[primitive.ObjectID]int{}

	listings := r.active(func(l *models.Listing) bool {
		if q.Center != nil && !within(l, *q.Center, q.MaxMeters) {
			return false
		}
		if q.Mode == SearchModeText {
			score := textScore(l, terms)
			scores[l.ID] = score
			return score > 0
		}
		return strings.Contains(strings.ToLower(l.Title), needle) ||
			strings.Contains(strings.ToLower(l.Description), needle)
	})

	sortNewest(listings)
	if q.Mode == SearchModeText {
		sort.SliceStable(listings, func(i, j int) bool {
			return scores[listings[i].ID] > scores[listings[j].ID]
		})
	}

	limit := q.Limit
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}
	return page(listings, 0, limit), nil
}

func (r *memoryListings) Near(_ context.Context, q NearQuery) ([]models.Listing, error) {
	listings := r.active(func(l *models.Listing) bool {
		return matchCategory(l, q.Category) && within(l, q.Center, q.MaxMeters)
	})
	sort.SliceStable(listings, func(i, j int) bool {
		return distanceTo(&listings[i], q.Center) < distanceTo(&listings[j], q.Center)
	})
	return listings, nil
}

func (r *memoryListings) MarkDeleted(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.listings[id]
	if !ok || l.Deleted {
		return ErrNotFound
	}
	l.Deleted = true
	l.UpdatedAt = time.Now().UTC()
	r.db.listings[id] = l
	return nil
}

// active must not be called with the lock held.
func (r *memoryListings) active(keep func(l *models.Listing) bool) []models.Listing {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	listings := []models.Listing{}
	for _, l := range r.db.listings {
		if l.Deleted {
			continue
		}
		if keep(&l) {
			listings = append(listings, l)
		}
	}
	return listings
}

type memoryChats struct{ db *memoryDB }

func (r *memoryChats) Create(_ context.Context, chat *models.Chat) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.LastMessage.IsZero() {
		chat.LastMessage = now
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	r.db.chats[chat.ID] = cloneChat(*chat)
	return nil
}

func (r *memoryChats) FindByID(_ context.Context, id primitive.ObjectID) (*models.Chat, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.chats[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = cloneChat(c)
	return &c, nil
}

func (r *memoryChats) FindForListing(_ context.Context, listingID, userID primitive.ObjectID) (*models.Chat, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.chats {
		if c.Listing == listingID && c.HasParticipant(userID) {
			c = cloneChat(c)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryChats) ListForUser(_ context.Context, userID primitive.ObjectID) ([]models.Chat, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	chats := []models.Chat{}
	for _, c := range r.db.chats {
		if c.HasParticipant(userID) {
			chats = append(chats, cloneChat(c))
		}
	}
	sort.SliceStable(chats, func(i, j int) bool { return chats[i].LastMessage.After(chats[j].LastMessage) })
	return chats, nil
}

func (r *memoryChats) AppendMessage(_ context.Context, chatID primitive.ObjectID, msg models.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.chats[chatID]
	if !ok {
		return ErrNotFound
	}
	c = cloneChat(c)
	c.Messages = append(c.Messages, msg)
	c.LastMessage = msg.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.db.chats[chatID] = c
	return nil
}

type memoryReports struct{ db *memoryDB }

func (r *memoryReports) Create(_ context.Context, report *models.Report) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	if report.Status == "" {
		report.Status = models.ReportPending
	}
	r.db.reports[report.ID] = *report
	return nil
}

func (r *memoryReports) List(_ context.Context, status string, limit, offset int64) ([]models.Report, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	reports := []models.Report{}
	for _, rep := range r.db.reports {
		if status == "" || rep.Status == status {
			reports = append(reports, rep)
		}
	}
	sort.SliceStable(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
	total := int64(len(reports))

	if offset >= total {
		return []models.Report{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return reports[offset:end], total, nil
}

func (r *memoryReports) UpdateStatus(_ context.Context, id primitive.ObjectID, status, note string) (*models.Report, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	rep, ok := r.db.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	rep.Status = status
	rep.AdminNote = note
	rep.UpdatedAt = time.Now().UTC()
	r.db.reports[id] = rep
	return &rep, nil
}

func matchCategory(l *models.Listing, category string) bool {
	return category == "" || category == "all" || l.Category == category
}

func within(l *models.Listing, center geo.Point, maxMeters float64) bool {
	return distanceTo(l, center) <= geo.MetersToKm(maxMeters)
}

func distanceTo(l *models.Listing, center geo.Point) float64 {
	return geo.Distance(center.Lat(), center.Lon(), l.Location.Lat(), l.Location.Lon())
}

func textScore(l *models.Listing, terms []string) int {
	score := 0
	for _, w := range textWeights {
		field := strings.ToLower(w.field(l))
		for _, t := range terms {
			if strings.Contains(field, t) {
				score += w.weight
			}
		}
	}
	return score
}

func sortNewest(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

func page(listings []models.Listing, skip, limit int64) []models.Listing {
	n := int64(len(listings))
	if skip >= n {
		return []models.Listing{}
	}
	end := n
	if limit > 0 && skip+limit < n {
		end = skip + limit
	}
	return listings[skip:end]
}

func cloneChat(c models.Chat) models.Chat {
	c.Participants = append([]primitive.ObjectID(nil), c.Participants...)
	c.Messages = append([]models.Message{}, c.Messages...)
	return c
}
