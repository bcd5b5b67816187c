package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"go.uber.org/zap"
)

// GatewayNotifier delivers content to users through the bot gateway's HTTP
// endpoint. It implements domain.Deliverer.
type GatewayNotifier struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewGatewayNotifier(baseURL string, logger *zap.Logger) *GatewayNotifier {
	return &GatewayNotifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type deliverRequest struct {
	UserID  int    `json:"user_id"`
	Content string `json:"content"`
}

func (n *GatewayNotifier) Deliver(ctx context.Context, userID int, content string) error {
	body, err := json.Marshal(deliverRequest{UserID: userID, Content: content})
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/deliver", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("gateway unreachable", zap.Int("user_id", userID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrPartnerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("gateway rejected delivery",
			zap.Int("user_id", userID), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: gateway status %d", domain.ErrPartnerUnreachable, resp.StatusCode)
	}
	return nil
}
