// Package identity reads the authenticated caller out of the Fiber context
// populated by the JWT middleware.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContextKey is the Locals key the JWT middleware stores the token under.
const ContextKey = "user"

var (
	ErrNoToken     = errors.New("invalid token in context")
	ErrNoClaims    = errors.New("invalid claims")
	ErrMissingUser = errors.New("missing id claim")
)

func claims(c *fiber.Ctx) (*jwt.Token, jwt.MapClaims, error) {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, nil, ErrNoToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, ErrNoClaims
	}
	return token, mc, nil
}

// GetUserID extracts the user ObjectID from the "id" claim.
func GetUserID(c *fiber.Ctx) (primitive.ObjectID, error) {
	_, mc, err := claims(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := mc["id"].(string)
	if !ok || id == "" {
		return primitive.NilObjectID, ErrMissingUser
	}
	return primitive.ObjectIDFromHex(id)
}

func GetEmail(c *fiber.Ctx) string {
	_, mc, err := claims(c)
	if err != nil {
		return ""
	}
	email, _ := mc["email"].(string)
	return email
}

// GetToken returns the raw bearer token as presented.
func GetToken(c *fiber.Ctx) string {
	token, _, err := claims(c)
	if err != nil {
		return ""
	}
	return token.Raw
}

// RequestID returns a copy of the id set by the requestid middleware, safe
// to keep after the request has finished.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return utils.CopyString(id)
}
