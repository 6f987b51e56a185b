package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/metrics"
	"github.com/swapify/swapify-backend/internal/models"
	"github.com/swapify/swapify-backend/internal/repository"
	"github.com/swapify/swapify-backend/internal/session"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

type AuthService struct {
	users    repository.UserRepository
	sessions session.Store
	mailer   Mailer
	google   GoogleProvider
	cfg      *config.Config
	admins   map[string]bool
	now      func() time.Time
}

func NewAuthService(cfg *config.Config, users repository.UserRepository, sessions session.Store, mailer Mailer, google GoogleProvider) *AuthService {
	admins := map[string]bool{}
	for _, e := range strings.Split(cfg.AdminEmails, ",") {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		google:   google,
		cfg:      cfg,
		admins:   admins,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    strings.TrimSpace(req.Username),
		Password:    string(hash),
		Email:       email,
		Role:        models.RoleUser,
		Avatar:      req.Avatar,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
		State:       req.State,
		City:        req.City,
		Pincode:     req.Pincode,
		Address:     req.Address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.startSession(ctx, user)
	metrics.Auth("register", err)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		metrics.Auth("login", ErrUnknownEmail)
		return nil, ErrUnknownEmail
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.Auth("login", ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user)
	metrics.Auth("login", err)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

// IsLive reports whether token is the current session of userID.
func (s *AuthService) IsLive(ctx context.Context, userID, token string) (bool, error) {
	return session.IsCurrent(ctx, s.sessions, userID, token)
}

// VerifySession returns the user behind a live token.
func (s *AuthService) VerifySession(ctx context.Context, userID primitive.ObjectID, token string) (*dto.PublicUser, error) {
	live, err := s.IsLive(ctx, userID.Hex(), token)
	if err != nil {
		return nil, err
	}
	if !live {
		metrics.Auth("verify", ErrSessionRevoked)
		return nil, ErrSessionRevoked
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionRevoked
	}
	if err != nil {
		return nil, err
	}
	metrics.Auth("verify", nil)
	pub := toPublicUser(user)
	return &pub, nil
}

func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	err := s.sessions.Clear(ctx, userID.Hex())
	metrics.Auth("logout", err)
	return err
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *dto.ProfileSetupRequest) (*dto.PublicUser, error) {
	user, err := s.users.UpdateProfile(ctx, userID, models.ProfileUpdate{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
		State:       req.State,
		City:        req.City,
		Pincode:     req.Pincode,
		Address:     req.Address,
		Avatar:      req.Avatar,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	pub := toPublicUser(user)
	return &pub, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*dto.PublicUser, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	user, err := s.users.FindByID(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	pub := toPublicUser(user)
	return &pub, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]dto.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, toPublicUser(&users[i]))
	}
	return out, nil
}

// IsAdmin checks the stored role, falling back to the ADMIN_EMAILS allow-list.
func (s *AuthService) IsAdmin(ctx context.Context, userID primitive.ObjectID, email string) (bool, error) {
	if s.admins[normalizeEmail(email)] {
		return true, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin || s.admins[user.Email], nil
}

// GoogleAuthURL returns the consent page URL carrying state.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrOAuthDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleCallback exchanges code, finds or creates the user by email and
// returns the frontend redirect carrying a fresh session token.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (string, error) {
	if s.google == nil {
		return "", ErrOAuthDisabled
	}
	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		metrics.Auth("google", err)
		return "", fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	email := normalizeEmail(profile.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.createGoogleUser(ctx, email, profile)
	}
	if err != nil {
		return "", err
	}
	// An existing account is only reachable through a Google identity that
	// proves the address, or one already linked to it.
	if !profile.VerifiedEmail && user.GoogleUserID != profile.ID {
		metrics.Auth("google", ErrUnverifiedEmail)
		return "", ErrUnverifiedEmail
	}

	token, err := s.startSession(ctx, user)
	metrics.Auth("google", err)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s.cfg.FrontendURL, "/") + "/auth/callback/google?authToken=" + url.QueryEscape(token), nil
}

func (s *AuthService) createGoogleUser(ctx context.Context, email string, p *GoogleProfile) (*models.User, error) {
	secret, err := randomHex(16)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:      p.Name,
		Password:      string(hash),
		Email:         email,
		Role:          models.RoleUser,
		FullName:      p.Name,
		Nickname:      p.GivenName,
		FamilyName:    p.FamilyName,
		GoogleUserID:  p.ID,
		GoogleAvatar:  p.Picture,
		IsVerified:    p.VerifiedEmail,
		EmailVerified: p.VerifiedEmail,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.users.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	slog.Info("google user created", "user_id", user.ID.Hex())
	return user, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUnknownEmail
	}
	if err != nil {
		return err
	}

	token, err := randomHex(20)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(ResetTokenTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/auth/reset-password?token=%s&email=%s",
		strings.TrimRight(s.cfg.FrontendURL, "/"), token, url.QueryEscape(email))
	if err := s.mailer.SendPasswordReset(ctx, email, link); err != nil {
		slog.Error("password reset mail failed", "user_id", user.ID.Hex(), "error", err)
		metrics.Auth("forgot_password", err)
		return ErrMailFailed
	}
	metrics.Auth("forgot_password", nil)
	return nil
}

func (s *AuthService) VerifyResetToken(ctx context.Context, email, token string) error {
	_, err := s.findByResetToken(ctx, email, token)
	return err
}

// ResetPassword stores the new password, clears the reset fields and ends
// any live session.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	user, err := s.findByResetToken(ctx, email, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.ResetPassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	err = s.sessions.Clear(ctx, user.ID.Hex())
	metrics.Auth("reset_password", err)
	return err
}

func (s *AuthService) findByResetToken(ctx context.Context, email, token string) (*models.User, error) {
	user, err := s.users.FindByResetToken(ctx, normalizeEmail(email), token, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidResetToken
	}
	return user, err
}

// startSession issues a token and makes it the user's only live session.
func (s *AuthService) startSession(ctx context.Context, user *models.User) (string, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Set(ctx, user.ID.Hex(), token); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":    user.ID.Hex(),
		"email": user.Email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
