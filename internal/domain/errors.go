package domain

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrMatchNotFound = errors.New("match not found")

	// ErrNoMatchFound means the candidate scan finished without anyone
	// clearing the shared-question threshold. First-class outcome, not a
	// failure: no points are charged when it is returned.
	ErrNoMatchFound = errors.New("no suitable match found")

	ErrInsufficientPoints = errors.New("insufficient points")
	ErrProposalNotFound   = errors.New("no pending proposal")

	// ErrSessionNotFound covers bad or unknown handoff links; ErrSessionExpired
	// covers links to sessions that have already ended. Callers give different
	// guidance for the two, so they stay distinct.
	ErrSessionNotFound   = errors.New("chat session not found")
	ErrSessionExpired    = errors.New("chat session has ended")
	ErrSessionNotActive  = errors.New("chat session is not active")
	ErrNotParticipant    = errors.New("user is not a session participant")
	ErrInvalidTransition = errors.New("invalid session status transition")

	// ErrBlocked is internal to the relay; handlers surface it as a generic
	// delivery failure so block status is not leaked to the sender.
	ErrBlocked            = errors.New("recipient unavailable")
	ErrPartnerUnreachable = errors.New("partner unreachable")
)
