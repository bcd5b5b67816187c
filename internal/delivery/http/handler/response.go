package handler

import (
	"errors"
	"net/http"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP statuses. Unknown errors are
// hidden behind a generic 500 so internals never leak to the bot front-ends.
// A blocked recipient deliberately maps to the same response as a delivery
// failure: the sender must not be able to tell the two apart.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
	case errors.Is(err, domain.ErrNoMatchFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no_match_found"})
	case errors.Is(err, domain.ErrInsufficientPoints):
		c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: "insufficient_points"})
	case errors.Is(err, domain.ErrProposalNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "proposal_not_found"})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "link_not_found"})
	case errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusGone, ErrorResponse{Error: "link_expired"})
	case errors.Is(err, domain.ErrSessionNotActive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "session_not_active"})
	case errors.Is(err, domain.ErrNotParticipant):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not_a_participant"})
	case errors.Is(err, domain.ErrBlocked), errors.Is(err, domain.ErrPartnerUnreachable):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "delivery_failed"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func currentUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return 0, false
	}
	return userID.(int), true
}
