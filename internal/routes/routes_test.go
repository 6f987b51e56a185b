package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/handlers"
	"github.com/swapify/swapify-backend/internal/repository"
	"github.com/swapify/swapify-backend/internal/services"
	"github.com/swapify/swapify-backend/internal/session"
)

type fakeMailer struct{ link string }

func (m *fakeMailer) SendPasswordReset(_ context.Context, _, link string) error {
	m.link = link
	return nil
}

type fakeGoogle struct{}

func (fakeGoogle) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (fakeGoogle) Exchange(context.Context, string) (*services.GoogleProfile, error) {
	return &services.GoogleProfile{ID: "g-42", Email: "oauth@example.com", Name: "O Auth", VerifiedEmail: true}, nil
}

type fakeUploader struct{ raw bool }

func (u fakeUploader) Upload(_ context.Context, files []*multipart.FileHeader) (*services.UploadResult, error) {
	if u.raw {
		return &services.UploadResult{Raw: json.RawMessage(`{"cdn":true}`)}, nil
	}
	out := &services.UploadResult{}
	for _, f := range files {
		out.Files = append(out.Files, dto.UploadedFile{Filename: f.Filename, URL: "https://cdn.example.com/" + f.Filename})
	}
	return out, nil
}

type env struct {
	app    *fiber.App
	mailer *fakeMailer
}

func newEnv(t *testing.T, uploader services.MediaUploader) *env {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:   "routes-secret",
		JWTExpiry:   time.Hour,
		FrontendURL: "http://localhost:3000",
		AdminEmails: "admin@example.com",
		AppEnv:      "test",
	}
	store := repository.NewMemoryStore()
	mailer := &fakeMailer{}
	auth := services.NewAuthService(cfg, store.Users, session.NewUserStore(store.Users), mailer, fakeGoogle{})
	listings := services.NewListingService(store.Listings, store.Users, "")
	chats := services.NewChatService(store.Chats, store.Listings, store.Users)
	reports := services.NewReportService(store.Reports, store.Listings)

	app := fiber.New()
	Setup(app, cfg, auth,
		handlers.NewAuthHandler(auth, false),
		handlers.NewListingHandler(listings, false),
		handlers.NewChatHandler(chats, false),
		handlers.NewUploadHandler(uploader),
		handlers.NewReportHandler(reports, false),
		handlers.NewHealthHandler(store, "mongo"),
		handlers.NewLegalHandler("support@swapify.club"),
	)
	return &env{app: app, mailer: mailer}
}

func (e *env) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := e.raw(t, method, path, token, body)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return status, out
}

func (e *env) list(t *testing.T, path, token string) []any {
	t.Helper()
	status, raw := e.raw(t, http.MethodGet, path, token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("GET %s = %d: %s", path, status, raw)
	}
	var out []any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return out
}

func (e *env) raw(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func (e *env) register(t *testing.T, username, email string) (token, id string) {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": username, "email": email, "user_password": "secret",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register %s = %d %v", email, status, body)
	}
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func listingBody(title string, lat, lon float64) map[string]any {
	return map[string]any{
		"title":                title,
		"price":                1500.50,
		"description":          title + " for sale",
		"phoneNumber":          "9876543210",
		"coverImageName":       "cover.jpg",
		"additionalImageNames": []string{"a.jpg"},
		"category":             "furniture",
		"subcategory":          "tables",
		"location": map[string]any{
			"lat": lat, "lon": lon, "display_name": "Connaught Place, New Delhi",
		},
	}
}

func (e *env) createListing(t *testing.T, token, title string, lat, lon float64) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/create-listing", token, listingBody(title, lat, lon))
	if status != fiber.StatusCreated {
		t.Fatalf("create listing = %d %v", status, body)
	}
	return body["listing"].(map[string]any)["_id"].(string)
}

func TestRegisterCreateAndFindNearby(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	token, _ := e.register(t, "asha", "asha@example.com")
	id := e.createListing(t, token, "Teak table", 28.6139, 77.2090)

	status, body := e.do(t, http.MethodGet, "/nearby-listings?latitude=28.61&longitude=77.20&maxDistance=5000", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("nearby = %d %v", status, body)
	}
	listings := body["listings"].([]any)
	if len(listings) != 1 {
		t.Fatalf("listings = %v", listings)
	}
	got := listings[0].(map[string]any)
	if got["_id"] != id || got["distance"].(float64) > 5 {
		t.Fatalf("listing = %v", got)
	}
	if got["price_display"] != "1,500.5" {
		t.Fatalf("price_display = %v", got["price_display"])
	}
	seller := got["seller_id"].(map[string]any)
	if seller["email"] != "asha@example.com" || seller["user_password"] != nil {
		t.Fatalf("seller = %v", seller)
	}
}

func TestCreateListingRequiresCoordinates(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	token, _ := e.register(t, "asha", "asha@example.com")

	body := listingBody("No place", 0, 0)
	body["location"] = map[string]any{"display_name": "Somewhere"}
	status, resp := e.do(t, http.MethodPost, "/create-listing", token, body)
	if status != fiber.StatusBadRequest || resp["message"] != "Location coordinates are required" {
		t.Fatalf("status = %d %v", status, resp)
	}

	if status, _ := e.do(t, http.MethodPost, "/create-listing", "", listingBody("x", 1, 1)); status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous create = %d", status)
	}
}

func TestSingleLiveSession(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	first, _ := e.register(t, "ravi", "ravi@example.com")

	status, body := e.do(t, http.MethodPost, "/login", "", map[string]any{"email": "ravi@example.com", "user_password": "secret"})
	if status != fiber.StatusOK {
		t.Fatalf("login = %d %v", status, body)
	}
	second := body["token"].(string)

	status, body = e.do(t, http.MethodPost, "/verify-token", first, nil)
	if status != fiber.StatusForbidden || body["isLoggedIn"] != false || body["message"] != "Token has been invalidated." {
		t.Fatalf("superseded verify = %d %v", status, body)
	}
	if status, _ := e.do(t, http.MethodGet, "/my-listings", first, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("superseded token on protected route = %d", status)
	}

	status, body = e.do(t, http.MethodPost, "/verify-token", second, nil)
	if status != fiber.StatusOK || body["isLoggedIn"] != true || body["token"] != second {
		t.Fatalf("live verify = %d %v", status, body)
	}
	if _, leaked := body["user"].(map[string]any)["user_password"]; leaked {
		t.Fatal("password leaked in verify-token")
	}

	if status, _ := e.do(t, http.MethodPost, "/logout", second, nil); status != fiber.StatusOK {
		t.Fatalf("logout = %d", status)
	}
	if status, _ := e.do(t, http.MethodPost, "/verify-token", second, nil); status != fiber.StatusForbidden {
		t.Fatalf("verify after logout = %d", status)
	}
	if status, _ := e.do(t, http.MethodPost, "/verify-token", "", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("verify without token = %d", status)
	}
}

func TestAuthValidationMessages(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	e.register(t, "ravi", "ravi@example.com")

	cases := []struct {
		path string
		body map[string]any
		code int
		msg  string
	}{
		{"/register", map[string]any{"email": "x@example.com"}, 400, "Username, password and email are required."},
		{"/register", map[string]any{"username": "r", "email": "ravi@example.com", "user_password": "p"}, 409, "Email already exists."},
		{"/login", map[string]any{"email": "ravi@example.com"}, 400, "Email and password are required."},
		{"/login", map[string]any{"email": "nobody@example.com", "user_password": "p"}, 401, "No user found with this email."},
		{"/login", map[string]any{"email": "ravi@example.com", "user_password": "bad"}, 401, "Invalid credentials."},
		{"/forgot-password", map[string]any{}, 400, "Email is required."},
		{"/forgot-password", map[string]any{"email": "nobody@example.com"}, 404, "No user found with this email."},
		{"/reset-password", map[string]any{"email": "ravi@example.com"}, 400, "Email, token, and new password are required."},
		{"/verify-reset-token", map[string]any{"email": "ravi@example.com", "token": "nope"}, 400, "Password reset token is invalid or has expired."},
	}
	for _, tc := range cases {
		status, body := e.do(t, http.MethodPost, tc.path, "", tc.body)
		if status != tc.code || body["message"] != tc.msg {
			t.Errorf("POST %s %v = %d %v, want %d %q", tc.path, tc.body, status, body, tc.code, tc.msg)
		}
	}
}

func TestPasswordResetOverHTTP(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	oldToken, _ := e.register(t, "mira", "mira@example.com")

	status, body := e.do(t, http.MethodPost, "/forgot-password", "", map[string]any{"email": "mira@example.com"})
	if status != fiber.StatusOK || body["success"] != true {
		t.Fatalf("forgot = %d %v", status, body)
	}
	link, err := url.Parse(e.mailer.link)
	if err != nil {
		t.Fatal(err)
	}
	token := link.Query().Get("token")

	if status, _ := e.do(t, http.MethodPost, "/verify-reset-token", "", map[string]any{"email": "mira@example.com", "token": token}); status != fiber.StatusOK {
		t.Fatalf("verify reset token = %d", status)
	}
	status, _ = e.do(t, http.MethodPost, "/reset-password", "", map[string]any{
		"email": "mira@example.com", "token": token, "newPassword": "fresh",
	})
	if status != fiber.StatusOK {
		t.Fatalf("reset = %d", status)
	}
	if status, _ := e.do(t, http.MethodGet, "/my-listings", oldToken, nil); status != fiber.StatusUnauthorized {
		t.Fatalf("session should end after reset, got %d", status)
	}
	if status, _ := e.do(t, http.MethodPost, "/login", "", map[string]any{"email": "mira@example.com", "user_password": "fresh"}); status != fiber.StatusOK {
		t.Fatalf("login with new password = %d", status)
	}
}

func TestListingOwnershipAndSoftDelete(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	owner, _ := e.register(t, "owner", "owner@example.com")
	other, _ := e.register(t, "other", "other@example.com")
	id := e.createListing(t, owner, "Bookshelf", 12.9716, 77.5946)

	status, body := e.do(t, http.MethodPut, "/listings/"+id, other, listingBody("Hijacked", 12.9716, 77.5946))
	if status != fiber.StatusForbidden || body["message"] != "Unauthorized to update this listing" {
		t.Fatalf("non-owner update = %d %v", status, body)
	}
	if status, _ := e.do(t, http.MethodDelete, "/listings/"+id, other, nil); status != fiber.StatusForbidden {
		t.Fatalf("non-owner delete = %d", status)
	}

	status, body = e.do(t, http.MethodPut, "/listings/"+id, owner, listingBody("Oak bookshelf", 12.9716, 77.5946))
	if status != fiber.StatusOK || body["listing"].(map[string]any)["title"] != "Oak bookshelf" {
		t.Fatalf("owner update = %d %v", status, body)
	}

	if status, _ := e.do(t, http.MethodDelete, "/listings/"+id, owner, nil); status != fiber.StatusOK {
		t.Fatalf("delete = %d", status)
	}
	if status, _ := e.do(t, http.MethodGet, "/listings/"+id, "", nil); status != fiber.StatusNotFound {
		t.Fatalf("deleted listing = %d", status)
	}
	if got := e.list(t, "/listings", ""); len(got) != 0 {
		t.Fatalf("deleted listing still listed: %v", got)
	}
	_, body = e.do(t, http.MethodGet, "/search-listings?query=bookshelf", "", nil)
	if n := len(body["listings"].([]any)); n != 0 {
		t.Fatalf("deleted listing searchable: %d", n)
	}
	_, body = e.do(t, http.MethodGet, "/nearby-listings?latitude=12.9716&longitude=77.5946&maxDistance=1000", "", nil)
	if n := len(body["listings"].([]any)); n != 0 {
		t.Fatalf("deleted listing nearby: %d", n)
	}

	if status, _ := e.do(t, http.MethodGet, "/listings/not-an-id", "", nil); status != fiber.StatusBadRequest {
		t.Fatalf("malformed id = %d", status)
	}
}

func TestSearchErrorsKeepListingsArray(t *testing.T) {
	e := newEnv(t, fakeUploader{})

	cases := []struct {
		path string
		msg  string
	}{
		{"/search-listings", "Search query is required"},
		{"/search-listings?query=desk&latitude=abc&longitude=77", "Invalid coordinates provided"},
		{"/nearby-listings?latitude=12.9", "Longitude and latitude are required"},
		{"/nearby-listings?latitude=abc&longitude=77", "Invalid coordinates format"},
	}
	for _, tc := range cases {
		status, body := e.do(t, http.MethodGet, tc.path, "", nil)
		listings, ok := body["listings"].([]any)
		if status != fiber.StatusBadRequest || !ok || len(listings) != 0 || body["message"] != tc.msg {
			t.Errorf("GET %s = %d %v", tc.path, status, body)
		}
	}
}

func TestProfileAndUsers(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	token, id := e.register(t, "neha", "neha@example.com")
	admin, _ := e.register(t, "root", "admin@example.com")

	status, body := e.do(t, http.MethodPut, "/profile-setup", token, map[string]any{"city": "Pune"})
	if status != fiber.StatusOK || body["user"].(map[string]any)["city"] != "Pune" {
		t.Fatalf("profile = %d %v", status, body)
	}

	status, body = e.do(t, http.MethodGet, "/user/"+id, "", nil)
	if status != fiber.StatusOK || body["username"] != "neha" {
		t.Fatalf("get user = %d %v", status, body)
	}
	for _, secret := range []string{"user_password", "last_token", "resetPasswordToken"} {
		if _, ok := body[secret]; ok {
			t.Fatalf("public profile exposes %s", secret)
		}
	}
	if status, _ := e.do(t, http.MethodGet, "/user/xyz", "", nil); status != fiber.StatusBadRequest {
		t.Fatalf("malformed user id = %d", status)
	}

	if status, _ := e.do(t, http.MethodGet, "/users", token, nil); status != fiber.StatusForbidden {
		t.Fatalf("non-admin /users = %d", status)
	}
	if got := e.list(t, "/users", admin); len(got) != 2 {
		t.Fatalf("users = %d", len(got))
	}
}

func TestChatAccess(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	seller, _ := e.register(t, "seller", "seller@example.com")
	buyer, _ := e.register(t, "buyer", "buyer@example.com")
	stranger, _ := e.register(t, "stranger", "stranger@example.com")
	listingID := e.createListing(t, seller, "Cycle", 19.0760, 72.8777)

	status, body := e.do(t, http.MethodPost, "/api/chats", buyer, map[string]any{"listingId": listingID, "message": "Still available?"})
	if status != fiber.StatusOK {
		t.Fatalf("open chat = %d %v", status, body)
	}
	chatID := body["_id"].(string)

	if status, _ := e.do(t, http.MethodGet, "/api/chats/"+chatID, stranger, nil); status != fiber.StatusForbidden {
		t.Fatalf("stranger read = %d", status)
	}
	if status, _ := e.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", seller, map[string]any{"content": ""}); status != fiber.StatusBadRequest {
		t.Fatalf("empty message = %d", status)
	}
	status, body = e.do(t, http.MethodPost, "/api/chats/"+chatID+"/messages", seller, map[string]any{"content": "Yes"})
	if status != fiber.StatusOK || body["content"] != "Yes" {
		t.Fatalf("send = %d %v", status, body)
	}

	chats := e.list(t, "/api/chats", buyer)
	if len(chats) != 1 || len(chats[0].(map[string]any)["messages"].([]any)) != 2 {
		t.Fatalf("buyer chats = %v", chats)
	}
	if status, _ := e.do(t, http.MethodPost, "/api/chats", buyer, map[string]any{"listingId": "bad"}); status != fiber.StatusBadRequest {
		t.Fatalf("bad listing id = %d", status)
	}
}

func TestReportActionedHidesListing(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	seller, _ := e.register(t, "seller", "seller@example.com")
	reporter, _ := e.register(t, "reporter", "reporter@example.com")
	admin, _ := e.register(t, "root", "admin@example.com")
	listingID := e.createListing(t, seller, "Replica watch", 1, 1)

	if status, _ := e.do(t, http.MethodPost, "/listings/"+listingID+"/report", reporter, map[string]any{}); status != fiber.StatusBadRequest {
		t.Fatalf("empty reason = %d", status)
	}
	status, body := e.do(t, http.MethodPost, "/listings/"+listingID+"/report", reporter, map[string]any{"reason": "counterfeit"})
	if status != fiber.StatusCreated {
		t.Fatalf("report = %d %v", status, body)
	}
	reportID := body["_id"].(string)

	if status, _ := e.do(t, http.MethodGet, "/admin/reports", reporter, nil); status != fiber.StatusForbidden {
		t.Fatalf("non-admin reports = %d", status)
	}
	status, body = e.do(t, http.MethodGet, "/admin/reports?status=pending", admin, nil)
	if status != fiber.StatusOK || body["total"].(float64) != 1 {
		t.Fatalf("admin reports = %d %v", status, body)
	}

	if status, _ := e.do(t, http.MethodPut, "/admin/reports/"+reportID, admin, map[string]any{"status": "deleted"}); status != fiber.StatusBadRequest {
		t.Fatalf("invalid status = %d", status)
	}
	if status, _ := e.do(t, http.MethodPut, "/admin/reports/"+reportID, admin, map[string]any{"status": "actioned"}); status != fiber.StatusOK {
		t.Fatalf("action = %d", status)
	}
	if status, _ := e.do(t, http.MethodGet, "/listings/"+listingID, "", nil); status != fiber.StatusNotFound {
		t.Fatalf("actioned listing = %d", status)
	}
}

func TestGoogleOAuthRoundTrip(t *testing.T) {
	e := newEnv(t, fakeUploader{})

	resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("consent redirect = %d", resp.StatusCode)
	}
	consent, _ := url.Parse(resp.Header.Get("Location"))
	state := consent.Query().Get("state")
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "swapify_oauth_state" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != state {
		t.Fatalf("state cookie = %v, state = %q", cookie, state)
	}

	if status, _ := e.do(t, http.MethodGet, "/auth/google/callback?state="+state, "", nil); status != fiber.StatusBadRequest {
		t.Fatalf("missing code = %d", status)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=forged", nil)
	req.AddCookie(cookie)
	resp, _ = e.app.Test(req)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("forged state = %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+url.QueryEscape(state), nil)
	req.AddCookie(cookie)
	resp, err = e.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	location := resp.Header.Get("Location")
	if resp.StatusCode != fiber.StatusFound || !strings.HasPrefix(location, "http://localhost:3000/auth/callback/google?authToken=") {
		t.Fatalf("callback = %d %s", resp.StatusCode, location)
	}
	back, _ := url.Parse(location)
	status, body := e.do(t, http.MethodPost, "/verify-token", back.Query().Get("authToken"), nil)
	if status != fiber.StatusOK || body["user"].(map[string]any)["email"] != "oauth@example.com" {
		t.Fatalf("google session = %d %v", status, body)
	}
}

func multipartRequest(t *testing.T, token string, names ...string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("fake image bytes"))
	}
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	token, _ := e.register(t, "pic", "pic@example.com")

	resp, err := e.app.Test(multipartRequest(t, token, "one.jpg", "two.png"))
	if err != nil {
		t.Fatal(err)
	}
	var out dto.UploadResponse
	json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != fiber.StatusOK || len(out.Files) != 2 || out.Files[1].Filename != "two.png" {
		t.Fatalf("upload = %d %+v", resp.StatusCode, out)
	}

	resp, _ = e.app.Test(multipartRequest(t, token, "script.sh"))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("bad extension = %d", resp.StatusCode)
	}

	cdn := newEnv(t, fakeUploader{raw: true})
	token, _ = cdn.register(t, "pic", "pic@example.com")
	resp, _ = cdn.app.Test(multipartRequest(t, token, "one.jpg"))
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != `{"cdn":true}` {
		t.Fatalf("cdn passthrough = %s", raw)
	}
}

func TestHealthAndLegal(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	status, body := e.do(t, http.MethodGet, "/health", "", nil)
	if status != fiber.StatusOK || body["status"] != "ok" || body["db"] != "ok" {
		t.Fatalf("health = %d %v", status, body)
	}
	status, raw := e.raw(t, http.MethodGet, "/legal/privacy", "", nil)
	if status != fiber.StatusOK || !bytes.Contains(raw, []byte("Swapify")) {
		t.Fatalf("privacy = %d", status)
	}
	if status, _ := e.raw(t, http.MethodGet, "/metrics", "", nil); status != fiber.StatusOK {
		t.Fatalf("metrics = %d", status)
	}
}

func TestMetricsScrapeAfterMixedTraffic(t *testing.T) {
	e := newEnv(t, fakeUploader{})
	token, _ := e.register(t, "scraper", "scraper@example.com")
	for i := 0; i < 3; i++ {
		e.do(t, http.MethodPost, "/create-listing", token, map[string]any{"title": "x"})
		e.do(t, http.MethodGet, "/listings", "", nil)
		e.do(t, http.MethodPost, "/my-listings", "", nil)
		e.do(t, http.MethodGet, "/my-listings", "", nil)
		e.do(t, http.MethodDelete, "/listings/abc", token, nil)
	}
	status, raw := e.raw(t, http.MethodGet, "/metrics", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("metrics = %d: %s", status, raw)
	}
	if !bytes.Contains(raw, []byte(`method="POST"`)) || !bytes.Contains(raw, []byte(`method="DELETE"`)) {
		t.Fatalf("expected POST and DELETE series in scrape")
	}
}
