package handler

import (
	"net/http"
	"strconv"

	"github.com/allkinds24/allkinds-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchService *match.Service
}

func NewMatchHandler(matchService *match.Service) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

type proposeMatchRequest struct {
	GroupID int `json:"group_id" binding:"required,min=1"`
}

type confirmMatchRequest struct {
	CandidateUserID int `json:"candidate_user_id" binding:"required,min=1"`
	GroupID         int `json:"group_id" binding:"required,min=1"`
}

// ProposeMatch handles POST /matches/propose
// @Summary Propose a match
// @Description Find the best cohesion candidate for the caller within a group
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body proposeMatchRequest true "Group to search in"
// @Success 200 {object} domain.MatchCandidate
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/propose [post]
func (h *MatchHandler) ProposeMatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req proposeMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	candidate, err := h.matchService.ProposeMatch(c.Request.Context(), userID, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// ConfirmMatch handles POST /matches/confirm
// @Summary Confirm a proposed match
// @Description Charge the caller, record the match and return the chat invite link
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body confirmMatchRequest true "Proposal to confirm"
// @Success 200 {object} match.ConfirmResult
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/confirm [post]
func (h *MatchHandler) ConfirmMatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req confirmMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.matchService.ConfirmMatch(c.Request.Context(), userID, req.CandidateUserID, req.GroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelProposal handles POST /matches/cancel
// @Summary Cancel the pending proposal
// @Description Drop the caller's pending proposal; no-op if nothing is pending
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /matches/cancel [post]
func (h *MatchHandler) CancelProposal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.matchService.CancelProposal(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PairCohesion handles GET /matches/cohesion/:user_id
// @Summary Cohesion with a specific user
// @Description Compute the cohesion breakdown between the caller and another user
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Other user ID"
// @Param group_id query int true "Group ID"
// @Success 200 {object} domain.CohesionResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/cohesion/{user_id} [get]
func (h *MatchHandler) PairCohesion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	otherUserID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || otherUserID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		return
	}
	groupID, err := strconv.Atoi(c.Query("group_id"))
	if err != nil || groupID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid group_id"})
		return
	}

	result, err := h.matchService.PairCohesion(c.Request.Context(), userID, otherUserID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
