package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/swapify/swapify-backend/internal/dto"
	"github.com/swapify/swapify-backend/internal/identity"
	"github.com/swapify/swapify-backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
	dev         bool
}

func NewChatHandler(chatService *services.ChatService, dev bool) *ChatHandler {
	return &ChatHandler{chatService: chatService, dev: dev}
}

func (h *ChatHandler) Open(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req dto.CreateChatRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	chat, err := h.chatService.Open(c.UserContext(), userID, &req)
	if err != nil {
		return h.chatError(c, err)
	}
	return c.JSON(chat)
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chats, err := h.chatService.List(c.UserContext(), userID)
	if err != nil {
		return internalError(c, h.dev, "Failed to fetch chats", err)
	}
	return c.JSON(chats)
}

func (h *ChatHandler) Get(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	chat, err := h.chatService.Get(c.UserContext(), userID, c.Params("chatId"))
	if err != nil {
		return h.chatError(c, err)
	}
	return c.JSON(chat)
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	msg, err := h.chatService.Send(c.UserContext(), userID, c.Params("chatId"), &req)
	if err != nil {
		return h.chatError(c, err)
	}
	return c.JSON(msg)
}

func (h *ChatHandler) chatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidID):
		return fail(c, fiber.StatusBadRequest, "Invalid ID format")
	case errors.Is(err, services.ErrEmptyMessage):
		return fail(c, fiber.StatusBadRequest, "Message content is required")
	case errors.Is(err, services.ErrListingNotFound):
		return fail(c, fiber.StatusNotFound, "Listing not found")
	case errors.Is(err, services.ErrChatNotFound):
		return fail(c, fiber.StatusNotFound, "Chat not found")
	case errors.Is(err, services.ErrNotParticipant):
		return fail(c, fiber.StatusForbidden, "Not authorized to access this chat")
	default:
		return internalError(c, h.dev, "Chat request failed", err)
	}
}
