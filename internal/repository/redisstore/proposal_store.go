package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

type proposalStore struct {
	client *redis.Client
}

// NewProposalStore keeps pending proposals in Redis, keyed per requesting
// user with a TTL. Nothing in-process: a restart of either front-end leaves
// the propose→confirm flow resumable.
func NewProposalStore(client *redis.Client) repository.ProposalStore {
	return &proposalStore{client: client}
}

func proposalKey(userID int) string {
	return fmt.Sprintf("match:proposal:%d", userID)
}

func (s *proposalStore) Save(ctx context.Context, proposal *domain.MatchProposal, ttl time.Duration) error {
	data, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("marshal proposal: %w", err)
	}
	return s.client.Set(ctx, proposalKey(proposal.UserID), data, ttl).Err()
}

func (s *proposalStore) Get(ctx context.Context, userID int) (*domain.MatchProposal, error) {
	data, err := s.client.Get(ctx, proposalKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrProposalNotFound
		}
		return nil, err
	}

	var proposal domain.MatchProposal
	if err := json.Unmarshal(data, &proposal); err != nil {
		return nil, fmt.Errorf("unmarshal proposal: %w", err)
	}
	return &proposal, nil
}

func (s *proposalStore) Delete(ctx context.Context, userID int) error {
	return s.client.Del(ctx, proposalKey(userID)).Err()
}
