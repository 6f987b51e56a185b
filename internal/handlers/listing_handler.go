package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
	"github.com/swapify/swapify-backend/internal/services"
)

type ListingHandler struct {
	listingService *services.ListingService
	dev            bool
}

func NewListingHandler(listingService *services.ListingService, dev bool) *ListingHandler {
	return &ListingHandler{listingService: listingService, dev: dev}
}

// parseListing checks coordinates before the remaining validate tags so a
// missing location gets its own message. It returns the 400 message on failure.
func parseListing(c *fiber.Ctx) (*dto.ListingRequest, string) {
	var req dto.ListingRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, "Invalid request body"
	}
	if !req.Location.HasCoordinates() {
		return nil, "Location coordinates are required"
	}
	if err := dto.Validate(&req); err != nil {
		return nil, err.Error()
	}
	if req.Price.IsNegative() {
		return nil, "Price must not be negative"
	}
	return &req, ""
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	req, msg := parseListing(c)
	if req == nil {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	listing, err := h.listingService.Create(c.UserContext(), userID, req)
	if err != nil {
		return internalError(c, h.dev, "Failed to create listing", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ListingEnvelope{
		Message: "Listing created successfully",
		Listing: *listing,
	})
}

func (h *ListingHandler) List(c *fiber.Ctx) error {
	listings, err := h.listingService.List(c.UserContext(), services.ListParams{
		Category: c.Query("category"),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 0),
	})
	if err != nil {
		return internalError(c, h.dev, "Failed to fetch listings", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) Get(c *fiber.Ctx) error {
	listing, err := h.listingService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.listingError(c, err, "")
	}
	return c.JSON(listing)
}

func (h *ListingHandler) MyListings(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	listings, err := h.listingService.ListMine(c.UserContext(), userID)
	if err != nil {
		return internalError(c, h.dev, "Failed to fetch listings", err)
	}
	return c.JSON(listings)
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	req, msg := parseListing(c)
	if req == nil {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	listing, err := h.listingService.Update(c.UserContext(), c.Params("id"), userID, req)
	if err != nil {
		return h.listingError(c, err, "Unauthorized to update this listing")
	}
	return c.JSON(dto.ListingEnvelope{Message: "Listing updated successfully", Listing: *listing})
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := h.listingService.Delete(c.UserContext(), c.Params("id"), userID); err != nil {
		return h.listingError(c, err, "Unauthorized to delete this listing")
	}
	return c.JSON(fiber.Map{"message": "Listing deleted successfully"})
}

func (h *ListingHandler) listingError(c *fiber.Ctx, err error, forbidden string) error {
	switch {
	case errors.Is(err, services.ErrInvalidID):
		return fail(c, fiber.StatusBadRequest, "Invalid listing ID format")
	case errors.Is(err, services.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "Listing not found")
	case errors.Is(err, services.ErrNotOwner):
		return fail(c, fiber.StatusForbidden, forbidden)
	case errors.Is(err, services.ErrMissingLocation):
		return fail(c, fiber.StatusBadRequest, "Location coordinates are required")
	case errors.Is(err, services.ErrNegativePrice):
		return fail(c, fiber.StatusBadRequest, "Price must not be negative")
	default:
		return internalError(c, h.dev, "Failed to process listing", err)
	}
}

// Search answers errors with {listings: [], message}, as does Nearby.
func (h *ListingHandler) Search(c *fiber.Ctx) error {
	resp, err := h.listingService.Search(c.UserContext(), services.SearchParams{
		Query:       c.Query("query"),
		Latitude:    c.Query("latitude"),
		Longitude:   c.Query("longitude"),
		MaxDistance: c.Query("maxDistance"),
	})
	switch {
	case errors.Is(err, services.ErrMissingQuery):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewListingsError("Search query is required"))
	case errors.Is(err, services.ErrInvalidCoords):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewListingsError("Invalid coordinates provided"))
	case errors.Is(err, services.ErrInvalidDistance):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewListingsError("Invalid maxDistance provided"))
	case err != nil:
		return h.listingsFailure(c, "Failed to fetch search results", err)
	}
	return c.JSON(resp)
}

func (h *ListingHandler) Nearby(c *fiber.Ctx) error {
	resp, err := h.listingService.Nearby(c.UserContext(), services.NearbyParams{
		Latitude:    c.Query("latitude"),
		Longitude:   c.Query("longitude"),
		MaxDistance: c.Query("maxDistance"),
		Category:    c.Query("category"),
	})
	switch {
	case errors.Is(err, services.ErrMissingCoords):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewListingsError("Longitude and latitude are required"))
	case errors.Is(err, services.ErrInvalidCoords):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewListingsError("Invalid coordinates format"))
	case errors.Is(err, services.ErrInvalidDistance):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewListingsError("Invalid maxDistance provided"))
	case err != nil:
		return h.listingsFailure(c, "Unable to fetch listings at this time. Please try again later.", err)
	}
	return c.JSON(resp)
}

func (h *ListingHandler) listingsFailure(c *fiber.Ctx, message string, err error) error {
	slog.Error(message, "request_id", identity.RequestID(c), "path", utils.CopyString(c.Path()), "error", err)
	resp := dto.NewListingsError(message)
	if h.dev {
		resp.Detail = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}
