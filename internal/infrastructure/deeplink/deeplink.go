package deeplink

import (
	"fmt"
	"strings"

	"github.com/allkinds24/allkinds-backend/internal/domain"
)

// payloadPrefix marks a handoff payload as a chat session token. The payload
// is the sole artifact carried between the two bot processes.
const payloadPrefix = "chat_"

// Issuer mints and resolves the deep links that hand a matched pair off to
// the communicator bot.
type Issuer struct {
	botUsername string
}

func NewIssuer(botUsername string) *Issuer {
	return &Issuer{botUsername: botUsername}
}

// MintLink wraps a session token into a start link for the communicator bot.
func (i *Issuer) MintLink(token string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%s", i.botUsername, payloadPrefix, token)
}

// ResolveToken extracts the session token from a start payload or a full
// deep link. A malformed payload reads as an unknown link, not a distinct
// failure mode.
func (i *Issuer) ResolveToken(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if idx := strings.Index(payload, "?start="); idx >= 0 {
		payload = payload[idx+len("?start="):]
	}
	if !strings.HasPrefix(payload, payloadPrefix) {
		return "", domain.ErrSessionNotFound
	}
	token := strings.TrimPrefix(payload, payloadPrefix)
	if token == "" {
		return "", domain.ErrSessionNotFound
	}
	return token, nil
}
