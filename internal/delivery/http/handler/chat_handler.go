package handler

import (
	"net/http"
	"strconv"

	"github.com/allkinds24/allkinds-backend/internal/usecase/chat"
	"github.com/gin-gonic/gin"
)

// TokenResolver extracts the session token from a deep-link start payload.
type TokenResolver interface {
	ResolveToken(payload string) (string, error)
}

type ChatHandler struct {
	coordinator *chat.Coordinator
	relay       *chat.Relay
	tokens      TokenResolver
}

func NewChatHandler(coordinator *chat.Coordinator, relay *chat.Relay, tokens TokenResolver) *ChatHandler {
	return &ChatHandler{
		coordinator: coordinator,
		relay:       relay,
		tokens:      tokens,
	}
}

type openChatRequest struct {
	// Payload is the raw /start payload or the full deep link the user tapped.
	Payload string `json:"payload" binding:"required"`
}

type sendMessageRequest struct {
	ContentType string  `json:"content_type" binding:"required,content_type"`
	TextContent *string `json:"text_content"`
	FileID      *string `json:"file_id"`
}

type blockRequest struct {
	UserID int `json:"user_id" binding:"required,min=1"`
}

// OpenChat handles POST /chats/open
// @Summary Open a chat from a deep link
// @Description Resolve a handoff payload and bind the caller to the session
// @Tags chats
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body openChatRequest true "Deep-link payload"
// @Success 200 {object} domain.ChatSession
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/open [post]
func (h *ChatHandler) OpenChat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req openChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.tokens.ResolveToken(req.Payload)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.coordinator.ResolveHandoffToken(c.Request.Context(), token, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListSessions handles GET /chats
// @Summary List active chats
// @Description List the caller's active sessions with unread counts
// @Tags chats
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.SessionSummary
// @Failure 500 {object} ErrorResponse
// @Router /chats [get]
func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summaries, err := h.coordinator.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// SendMessage handles POST /chats/:session_id/messages
// @Summary Relay a message
// @Description Persist and deliver a message to the anonymous partner
// @Tags chats
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param session_id path string true "Session token"
// @Param request body sendMessageRequest true "Message content"
// @Success 201 {object} domain.ChatMessage
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{session_id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.relay.SendMessage(c.Request.Context(), c.Param("session_id"), userID, req.ContentType, req.TextContent, req.FileID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// History handles GET /chats/:session_id/messages
// @Summary Page message history
// @Description List the session's messages newest-first; marks the partner's messages read
// @Tags chats
// @Security BearerAuth
// @Produce json
// @Param session_id path string true "Session token"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param before_id query int false "Return messages with id below this"
// @Success 200 {array} domain.ChatMessage
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{session_id}/messages [get]
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	beforeID, _ := strconv.Atoi(c.DefaultQuery("before_id", "0"))

	messages, err := h.relay.History(c.Request.Context(), c.Param("session_id"), userID, limit, beforeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// RevealIdentity handles POST /chats/:session_id/reveal
// @Summary Reveal identity
// @Description Return the caller's profile summary for disclosure to the partner
// @Tags chats
// @Security BearerAuth
// @Produce json
// @Param session_id path string true "Session token"
// @Success 200 {object} domain.ProfileSummary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{session_id}/reveal [post]
func (h *ChatHandler) RevealIdentity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.relay.RevealIdentity(c.Request.Context(), c.Param("session_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// EndSession handles POST /chats/:session_id/end
// @Summary End a chat session
// @Description Move the session to ended; ending twice is a no-op
// @Tags chats
// @Security BearerAuth
// @Produce json
// @Param session_id path string true "Session token"
// @Success 200 {object} map[string]int
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{session_id}/end [post]
func (h *ChatHandler) EndSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	partnerID, err := h.relay.EndSession(c.Request.Context(), c.Param("session_id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner_id": partnerID})
}

// Block handles POST /blocks
// @Summary Block a user
// @Description Stop relaying messages between the caller and the given user
// @Tags blocks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body blockRequest true "User to block"
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /blocks [post]
func (h *ChatHandler) Block(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.relay.Block(c.Request.Context(), userID, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Unblock handles DELETE /blocks/:user_id
// @Summary Unblock a user
// @Tags blocks
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "User to unblock"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /blocks/{user_id} [delete]
func (h *ChatHandler) Unblock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	blockedID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || blockedID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		return
	}

	if err := h.relay.Unblock(c.Request.Context(), userID, blockedID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
