package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"bhangari/internal/usecase"
	"bhangari/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text      string `json:"text" validate:"required,max=1000"`
	RequestID string `json:"request_id"`
}

// ListConversations returns the caller's inbox; ?search= filters by name.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), currentUserID(c), c.QueryParam("search"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), currentUserID(c), c.Param("userId"), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), currentUserID(c), usecase.SendMessageInput{
		RecipientID: c.Param("userId"),
		Text:        req.Text,
		RequestID:   req.RequestID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	count, err := h.chatUseCase.MarkConversationRead(c.Request().Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"marked_read": count})
}
