package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusTransitions(t *testing.T) {
	assert.True(t, SessionPending.CanTransitionTo(SessionActive))
	assert.True(t, SessionPending.CanTransitionTo(SessionEnded))
	assert.True(t, SessionActive.CanTransitionTo(SessionEnded))

	// Nothing leaves ended, and no state re-enters itself.
	assert.False(t, SessionEnded.CanTransitionTo(SessionActive))
	assert.False(t, SessionEnded.CanTransitionTo(SessionPending))
	assert.False(t, SessionActive.CanTransitionTo(SessionPending))
	assert.False(t, SessionActive.CanTransitionTo(SessionActive))
}

func TestChatSessionPartner(t *testing.T) {
	session := &ChatSession{InitiatorID: 1, RecipientID: 2}

	partner, ok := session.Partner(1)
	assert.True(t, ok)
	assert.Equal(t, 2, partner)

	partner, ok = session.Partner(2)
	assert.True(t, ok)
	assert.Equal(t, 1, partner)

	_, ok = session.Partner(3)
	assert.False(t, ok)
}

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair(7, 3)
	assert.Equal(t, 3, a)
	assert.Equal(t, 7, b)

	a, b = NormalizePair(3, 7)
	assert.Equal(t, 3, a)
	assert.Equal(t, 7, b)
}
