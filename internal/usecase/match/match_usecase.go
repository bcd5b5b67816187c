package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/config"
	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/allkinds24/allkinds-backend/internal/usecase/matching"
	"go.uber.org/zap"
)

// SessionCoordinator is the slice of the chat coordinator this flow needs:
// confirm runs it inside the same transaction as the ledger write.
type SessionCoordinator interface {
	CreateOrReuseSession(ctx context.Context, initiatorID, recipientID int, matchID *int) (*domain.ChatSession, error)
}

// LinkMinter turns a session token into the handoff deep link.
type LinkMinter interface {
	MintLink(token string) string
}

// Service drives the propose → confirm → chat handoff flow.
type Service struct {
	finder      *matching.Finder
	matchRepo   repository.MatchRepository
	userRepo    repository.UserRepository
	proposals   repository.ProposalStore
	coordinator SessionCoordinator
	tx          repository.Transactor
	links       LinkMinter
	deliverer   domain.Deliverer
	events      domain.EventPublisher
	cfg         config.MatchingConfig
	logger      *zap.Logger
}

func NewService(
	finder *matching.Finder,
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	proposals repository.ProposalStore,
	coordinator SessionCoordinator,
	tx repository.Transactor,
	links LinkMinter,
	deliverer domain.Deliverer,
	events domain.EventPublisher,
	cfg config.MatchingConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		finder:      finder,
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		proposals:   proposals,
		coordinator: coordinator,
		tx:          tx,
		links:       links,
		deliverer:   deliverer,
		events:      events,
		cfg:         cfg,
		logger:      logger,
	}
}

// ConfirmResult is what a confirmed match hands back to the front-end: the
// ledger row, the session, and the deep link to forward to both users.
type ConfirmResult struct {
	Match      *domain.Match       `json:"match"`
	Session    *domain.ChatSession `json:"session"`
	InviteLink string              `json:"invite_link"`
}

// ProposeMatch finds the best candidate for the user and parks it as a
// pending proposal. The search itself is free: the balance is only checked,
// never charged, so a failed search can never cost points. Returns
// domain.ErrNoMatchFound when nobody clears the shared-question floor.
func (s *Service) ProposeMatch(ctx context.Context, userID, groupID int) (*domain.MatchCandidate, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Points < s.cfg.MatchCost {
		return nil, domain.ErrInsufficientPoints
	}

	candidate, err := s.finder.FindBestMatch(ctx, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("find best match: %w", err)
	}
	if candidate == nil {
		return nil, domain.ErrNoMatchFound
	}

	candidate.Cohesion = matching.FoldTopCategories(candidate.Cohesion, s.cfg.TopCategories)

	proposal := &domain.MatchProposal{
		UserID:          userID,
		GroupID:         groupID,
		CandidateUserID: candidate.CandidateUserID,
		Score:           candidate.Cohesion.Score,
		CommonQuestions: candidate.Cohesion.CommonQuestionCount,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.proposals.Save(ctx, proposal, s.cfg.ProposalTTL); err != nil {
		return nil, fmt.Errorf("save proposal: %w", err)
	}

	s.events.Publish(domain.MatchProposed{
		EventBase:       domain.EventBase{At: proposal.CreatedAt},
		UserID:          userID,
		GroupID:         groupID,
		CandidateUserID: candidate.CandidateUserID,
		Score:           candidate.Cohesion.Score,
		CommonQuestions: candidate.Cohesion.CommonQuestionCount,
	})

	s.logger.Info("match proposed",
		zap.Int("user_id", userID),
		zap.Int("group_id", groupID),
		zap.Int("candidate_id", candidate.CandidateUserID),
		zap.Float64("score", candidate.Cohesion.Score),
	)
	return candidate, nil
}

// ConfirmMatch consumes the pending proposal, charges the requester, and
// writes the match row and chat session in one transaction. A pair that was
// matched before reuses the existing row and is not charged again.
func (s *Service) ConfirmMatch(ctx context.Context, userID, candidateUserID, groupID int) (*ConfirmResult, error) {
	proposal, err := s.proposals.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if proposal.CandidateUserID != candidateUserID || proposal.GroupID != groupID {
		return nil, domain.ErrProposalNotFound
	}

	var (
		match         *domain.Match
		session       *domain.ChatSession
		pointsCharged int
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.matchRepo.GetByUsers(ctx, userID, candidateUserID)
		switch {
		case err == nil:
			match = existing
		case errors.Is(err, domain.ErrMatchNotFound):
			// New pair: charge first so an insufficient balance aborts the
			// whole transaction with no partial writes.
			if err := s.userRepo.DeductPoints(ctx, userID, s.cfg.MatchCost); err != nil {
				return err
			}
			pointsCharged = s.cfg.MatchCost
			match, err = s.matchRepo.GetOrCreate(ctx, &domain.Match{
				User1ID:         userID,
				User2ID:         candidateUserID,
				GroupID:         groupID,
				Score:           proposal.Score,
				CommonQuestions: proposal.CommonQuestions,
			})
			if err != nil {
				return fmt.Errorf("record match: %w", err)
			}
		default:
			return fmt.Errorf("look up match: %w", err)
		}

		session, err = s.coordinator.CreateOrReuseSession(ctx, userID, candidateUserID, &match.ID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.proposals.Delete(ctx, userID); err != nil {
		s.logger.Warn("clear confirmed proposal", zap.Int("user_id", userID), zap.Error(err))
	}

	link := s.links.MintLink(session.SessionID)

	s.events.Publish(domain.MatchConfirmed{
		EventBase:       domain.EventBase{At: time.Now().UTC()},
		MatchID:         match.ID,
		User1ID:         match.User1ID,
		User2ID:         match.User2ID,
		GroupID:         groupID,
		Score:           match.Score,
		PointsCharged:   pointsCharged,
		ChargedToUserID: userID,
	})

	// Best effort: the partner learns about the match through the deep link.
	// A failed notification does not unwind the confirmation; the link stays
	// resolvable from the session row.
	notice := fmt.Sprintf("You have a new match! Start an anonymous chat: %s", link)
	if err := s.deliverer.Deliver(ctx, candidateUserID, notice); err != nil {
		s.logger.Warn("notify matched partner",
			zap.Int("partner_id", candidateUserID), zap.Error(err))
	}

	return &ConfirmResult{Match: match, Session: session, InviteLink: link}, nil
}

// CancelProposal abandons the pending proposal. Cancelling with nothing
// pending is a no-op.
func (s *Service) CancelProposal(ctx context.Context, userID int) error {
	if err := s.proposals.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}
	return nil
}

// PairCohesion reports the bounded cohesion breakdown between two users.
func (s *Service) PairCohesion(ctx context.Context, userID, otherUserID, groupID int) (domain.CohesionResult, error) {
	result, err := s.finder.PairScore(ctx, userID, otherUserID, groupID)
	if err != nil {
		return result, err
	}
	return matching.FoldTopCategories(result, s.cfg.TopCategories), nil
}
