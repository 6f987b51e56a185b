package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
	"github.com/swapify/swapify-backend/internal/services"
)

const oauthStateCookie = "swapify_oauth_state"

type AuthHandler struct {
	authService *services.AuthService
	dev         bool
}

func NewAuthHandler(authService *services.AuthService, dev bool) *AuthHandler {
	return &AuthHandler{authService: authService, dev: dev}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		if dto.IsRequired(err) {
			return fail(c, fiber.StatusBadRequest, "Username, password and email are required.")
		}
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return fail(c, fiber.StatusConflict, "Email already exists.")
		}
		return internalError(c, h.dev, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Email and password are required.")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	switch {
	case errors.Is(err, services.ErrUnknownEmail):
		return fail(c, fiber.StatusUnauthorized, "No user found with this email.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials.")
	case err != nil:
		return internalError(c, h.dev, "Login failed", err)
	}

	return c.JSON(resp)
}

// VerifyToken answers 403 rather than 401 for a well-formed token that is
// no longer the user's live session, so clients can tell the two apart.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	token := identity.GetToken(c)

	user, err := h.authService.VerifySession(c.UserContext(), userID, token)
	if errors.Is(err, services.ErrSessionRevoked) {
		return c.Status(fiber.StatusForbidden).JSON(dto.VerifyTokenResponse{
			IsLoggedIn: false,
			Message:    "Token has been invalidated.",
		})
	}
	if err != nil {
		return internalError(c, h.dev, "Token verification failed", err)
	}

	return c.JSON(dto.VerifyTokenResponse{
		IsLoggedIn: true,
		Message:    "Token is valid.",
		Token:      token,
		User:       user,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := h.authService.Logout(c.UserContext(), userID); err != nil {
		return internalError(c, h.dev, "Logout failed", err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully", "isLoggedIn": false})
}

func (h *AuthHandler) ProfileSetup(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ProfileSetupRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), userID, &req)
	if errors.Is(err, services.ErrUserNotFound) {
		return fail(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return internalError(c, h.dev, "Failed to update profile", err)
	}
	return c.JSON(dto.ProfileResponse{Message: "Profile updated successfully", User: *user})
}

func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(c.UserContext(), c.Params("id"))
	switch {
	case errors.Is(err, services.ErrInvalidID):
		return fail(c, fiber.StatusBadRequest, "Invalid user ID format")
	case errors.Is(err, services.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "User not found")
	case err != nil:
		return internalError(c, h.dev, "Failed to fetch user", err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return internalError(c, h.dev, "Failed to fetch users", err)
	}
	return c.JSON(users)
}

// GoogleLogin redirects to the consent page, binding a random state to the
// browser with a short-lived cookie.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	state := uuid.NewString()
	target, err := h.authService.GoogleAuthURL(state)
	if errors.Is(err, services.ErrOAuthDisabled) {
		return fail(c, fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	}
	if err != nil {
		return internalError(c, h.dev, "Authentication Failed", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   !h.dev,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(target, fiber.StatusFound)
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return fail(c, fiber.StatusBadRequest, "Authorization code is missing")
	}
	state := c.Cookies(oauthStateCookie)
	if state == "" || state != c.Query("state") {
		return fail(c, fiber.StatusBadRequest, "Invalid OAuth state")
	}
	c.ClearCookie(oauthStateCookie)

	redirect, err := h.authService.GoogleCallback(c.UserContext(), code)
	switch {
	case errors.Is(err, services.ErrOAuthDisabled):
		return fail(c, fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	case errors.Is(err, services.ErrUnverifiedEmail):
		return fail(c, fiber.StatusForbidden, "Your Google email address is not verified")
	case err != nil:
		return internalError(c, h.dev, "Authentication Failed", err)
	}
	return c.Redirect(redirect, fiber.StatusFound)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Email is required.")
	}

	err := h.authService.ForgotPassword(c.UserContext(), req.Email)
	switch {
	case errors.Is(err, services.ErrUnknownEmail):
		return fail(c, fiber.StatusNotFound, "No user found with this email.")
	case errors.Is(err, services.ErrMailFailed):
		return fail(c, fiber.StatusInternalServerError, "Failed to send password reset email. Please try again.")
	case err != nil:
		return internalError(c, h.dev, "Failed to start password reset", err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "Password reset link has been sent to your email.",
		Success: true,
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Email, token, and new password are required.")
	}

	err := h.authService.ResetPassword(c.UserContext(), req.Email, req.Token, req.NewPassword)
	if errors.Is(err, services.ErrInvalidResetToken) {
		return fail(c, fiber.StatusBadRequest, "Password reset token is invalid or has expired.")
	}
	if err != nil {
		return internalError(c, h.dev, "Failed to reset password", err)
	}

	return c.JSON(dto.MessageResponse{
		Message: "Password has been reset successfully. You can now login with your new password.",
		Success: true,
	})
}

func (h *AuthHandler) VerifyResetToken(c *fiber.Ctx) error {
	var req dto.VerifyResetTokenRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Email and token are required.")
	}

	err := h.authService.VerifyResetToken(c.UserContext(), req.Email, req.Token)
	if errors.Is(err, services.ErrInvalidResetToken) {
		return fail(c, fiber.StatusBadRequest, "Password reset token is invalid or has expired.")
	}
	if err != nil {
		return internalError(c, h.dev, "Failed to verify reset token", err)
	}

	return c.JSON(dto.MessageResponse{Message: "Token is valid.", Success: true})
}
