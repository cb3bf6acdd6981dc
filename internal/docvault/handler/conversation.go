package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/internal/docvault/biz"
	"github.com/kart-io/docvault/internal/model"
	"github.com/kart-io/docvault/pkg/utils/errors"
	"github.com/kart-io/docvault/pkg/utils/response"
)

// ConversationHandler serves conversations and chat.
type ConversationHandler struct {
	svc *biz.ConversationService
}

// NewConversationHandler creates a ConversationHandler.
func NewConversationHandler(svc *biz.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// CreateConversationRequest optionally names the conversation.
type CreateConversationRequest struct {
	Title string `json:"title" binding:"max=255"`
}

// ConversationResponse describes a conversation.
type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse is one message of a conversation.
type MessageResponse struct {
	ID        string       `json:"id"`
	Sender    model.Sender `json:"sender"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}

// ChatRequest sends a message to a conversation.
type ChatRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Message        string `json:"message" binding:"required,notblank"`
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
}

// Create starts a conversation. The body is optional.
func (h *ConversationHandler) Create(c *gin.Context) {
	userID, err := subject(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req CreateConversationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, bindError(err))
			return
		}
	}

	conv, err := h.svc.Create(c.Request.Context(), userID, req.Title)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, ConversationResponse{ID: conv.ID, Title: conv.Title, CreatedAt: conv.CreatedAt})
}

// List returns the caller's conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	userID, err := subject(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	convs, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, ConversationResponse{ID: conv.ID, Title: conv.Title, CreatedAt: conv.CreatedAt})
	}
	response.OK(c, out)
}

// Messages returns the history of a conversation owned by the caller.
func (h *ConversationHandler) Messages(c *gin.Context) {
	userID, err := subject(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	id := c.Param("id")
	if !isUUID(id) {
		response.Fail(c, errors.ErrInvalidConversationID)
		return
	}

	msgs, err := h.svc.Messages(c.Request.Context(), userID, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{ID: m.ID, Sender: m.Sender, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	response.OK(c, out)
}

// Chat answers a message synchronously.
func (h *ConversationHandler) Chat(c *gin.Context) {
	userID, err := subject(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, bindError(err))
		return
	}
	if !isUUID(req.ConversationID) {
		response.Fail(c, errors.ErrInvalidConversationID)
		return
	}

	res, err := h.svc.Send(c.Request.Context(), userID, req.ConversationID, req.Message)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, ChatResponse{Response: res.Reply, ConversationID: res.ConversationID, Title: res.Title})
}
