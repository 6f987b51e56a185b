package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownEmail       = errors.New("no user found with this email")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidID          = errors.New("invalid id format")
	ErrSessionRevoked     = errors.New("token has been invalidated")
	ErrInvalidResetToken  = errors.New("password reset token is invalid or has expired")
	ErrMailFailed         = errors.New("failed to send password reset email")
	ErrOAuthFailed        = errors.New("google authentication failed")
	ErrOAuthDisabled      = errors.New("google sign-in is not configured")
	ErrUnverifiedEmail    = errors.New("google email is not verified")

	ErrListingNotFound = errors.New("listing not found")
	ErrNotOwner        = errors.New("not the owner of this listing")
	ErrMissingLocation = errors.New("location coordinates are required")
	ErrNegativePrice   = errors.New("price must not be negative")
	ErrMissingQuery    = errors.New("search query is required")
	ErrMissingCoords   = errors.New("longitude and latitude are required")
	ErrInvalidCoords   = errors.New("invalid coordinates")
	ErrInvalidDistance = errors.New("maxDistance must be a positive number")

	ErrChatNotFound   = errors.New("chat not found")
	ErrNotParticipant = errors.New("not a participant of this chat")
	ErrEmptyMessage   = errors.New("message content is required")

	ErrReportNotFound = errors.New("report not found")

	ErrNoFiles         = errors.New("no files provided")
	ErrTooManyFiles    = errors.New("too many files")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUploadFailed    = errors.New("failed to upload file")
)
