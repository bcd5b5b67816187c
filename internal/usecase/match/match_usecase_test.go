package match

import (
	"context"
	"testing"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/config"
	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/usecase/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAnswerRepo struct {
	answers map[int]domain.AnswerSet
}

func (f *fakeAnswerRepo) GetGroupAnswers(_ context.Context, userID, _ int) (domain.AnswerSet, error) {
	set, ok := f.answers[userID]
	if !ok {
		return domain.AnswerSet{}, nil
	}
	return set, nil
}

type fakeGroupRepo struct {
	members []int
}

func (f *fakeGroupRepo) GetOtherActiveMembers(_ context.Context, _, excludingUserID int) ([]int, error) {
	out := make([]int, 0, len(f.members))
	for _, id := range f.members {
		if id != excludingUserID {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[int]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) DeductPoints(_ context.Context, userID, amount int) error {
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.Points < amount {
		return domain.ErrInsufficientPoints
	}
	user.Points -= amount
	return nil
}

type fakeMatchRepo struct {
	matches []*domain.Match
	nextID  int
}

func (f *fakeMatchRepo) GetOrCreate(_ context.Context, match *domain.Match) (*domain.Match, error) {
	u1, u2 := domain.NormalizePair(match.User1ID, match.User2ID)
	for _, m := range f.matches {
		if m.User1ID == u1 && m.User2ID == u2 {
			return m, nil
		}
	}
	f.nextID++
	created := *match
	created.ID = f.nextID
	created.User1ID = u1
	created.User2ID = u2
	created.CreatedAt = time.Now().UTC()
	f.matches = append(f.matches, &created)
	return &created, nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*domain.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (f *fakeMatchRepo) GetByUsers(_ context.Context, user1ID, user2ID int) (*domain.Match, error) {
	u1, u2 := domain.NormalizePair(user1ID, user2ID)
	for _, m := range f.matches {
		if m.User1ID == u1 && m.User2ID == u2 {
			return m, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (f *fakeMatchRepo) GetMatchesForUser(_ context.Context, userID int) ([]*domain.Match, error) {
	var out []*domain.Match
	for _, m := range f.matches {
		if m.HasUser(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeProposalStore struct {
	proposals map[int]*domain.MatchProposal
}

func newFakeProposalStore() *fakeProposalStore {
	return &fakeProposalStore{proposals: make(map[int]*domain.MatchProposal)}
}

func (f *fakeProposalStore) Save(_ context.Context, proposal *domain.MatchProposal, _ time.Duration) error {
	f.proposals[proposal.UserID] = proposal
	return nil
}

func (f *fakeProposalStore) Get(_ context.Context, userID int) (*domain.MatchProposal, error) {
	proposal, ok := f.proposals[userID]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return proposal, nil
}

func (f *fakeProposalStore) Delete(_ context.Context, userID int) error {
	delete(f.proposals, userID)
	return nil
}

type fakeCoordinator struct {
	created int
}

func (f *fakeCoordinator) CreateOrReuseSession(_ context.Context, initiatorID, recipientID int, matchID *int) (*domain.ChatSession, error) {
	f.created++
	return &domain.ChatSession{
		ID:          f.created,
		SessionID:   "token",
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		MatchID:     matchID,
		Status:      domain.SessionPending,
	}, nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLinkMinter struct{}

func (fakeLinkMinter) MintLink(token string) string { return "https://t.me/bot?start=chat_" + token }

type fakeDeliverer struct {
	delivered []int
}

func (f *fakeDeliverer) Deliver(_ context.Context, userID int, _ string) error {
	f.delivered = append(f.delivered, userID)
	return nil
}

type fakePublisher struct {
	events []domain.Event
}

func (f *fakePublisher) Publish(event domain.Event) {
	f.events = append(f.events, event)
}

type serviceFixture struct {
	service   *Service
	users     *fakeUserRepo
	matches   *fakeMatchRepo
	proposals *fakeProposalStore
	deliverer *fakeDeliverer
	publisher *fakePublisher
}

func newServiceFixture(answers map[int]domain.AnswerSet, members []int, points int) *serviceFixture {
	users := &fakeUserRepo{users: map[int]*domain.User{
		1: {ID: 1, FirstName: "Ann", Points: points},
		2: {ID: 2, FirstName: "Bob", Points: points},
		3: {ID: 3, FirstName: "Cal", Points: points},
	}}
	matches := &fakeMatchRepo{}
	proposals := newFakeProposalStore()
	deliverer := &fakeDeliverer{}
	publisher := &fakePublisher{}

	cfg := config.MatchingConfig{
		MinSharedQuestions: 3,
		MatchCost:          10,
		TopCategories:      4,
		ProposalTTL:        30 * time.Minute,
	}
	finder := matching.NewFinder(&fakeAnswerRepo{answers: answers}, &fakeGroupRepo{members: members}, cfg.MinSharedQuestions)
	service := NewService(
		finder,
		matches,
		users,
		proposals,
		&fakeCoordinator{},
		fakeTransactor{},
		fakeLinkMinter{},
		deliverer,
		publisher,
		cfg,
		zap.NewNop(),
	)
	return &serviceFixture{
		service:   service,
		users:     users,
		matches:   matches,
		proposals: proposals,
		deliverer: deliverer,
		publisher: publisher,
	}
}

func agreeingAnswers(questionIDs ...int) domain.AnswerSet {
	set := make(domain.AnswerSet, len(questionIDs))
	for _, id := range questionIDs {
		set[id] = domain.Answer{QuestionID: id, Value: 1}
	}
	return set
}

func TestProposeMatch_StoresProposalWithoutCharging(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		2: agreeingAnswers(1, 2, 3),
	}, []int{2}, 50)

	candidate, err := f.service.ProposeMatch(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, candidate.CandidateUserID)
	assert.Equal(t, 50, f.users.users[1].Points)
	require.Contains(t, f.proposals.proposals, 1)
	assert.Equal(t, 2, f.proposals.proposals[1].CandidateUserID)
}

func TestProposeMatch_InsufficientPointsUpFront(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		2: agreeingAnswers(1, 2, 3),
	}, []int{2}, 5)

	_, err := f.service.ProposeMatch(context.Background(), 1, 10)

	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
	assert.NotContains(t, f.proposals.proposals, 1)
}

func TestProposeMatch_NoCandidateCostsNothing(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		// User 2 shares too few questions to qualify.
		2: agreeingAnswers(1),
	}, []int{2}, 50)

	_, err := f.service.ProposeMatch(context.Background(), 1, 10)

	assert.ErrorIs(t, err, domain.ErrNoMatchFound)
	assert.Equal(t, 50, f.users.users[1].Points)
}

func TestConfirmMatch_ChargesAndRecords(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		2: agreeingAnswers(1, 2, 3),
	}, []int{2}, 50)

	_, err := f.service.ProposeMatch(context.Background(), 1, 10)
	require.NoError(t, err)

	result, err := f.service.ConfirmMatch(context.Background(), 1, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 40, f.users.users[1].Points)
	assert.Equal(t, 1, result.Match.User1ID)
	assert.Equal(t, 2, result.Match.User2ID)
	assert.Contains(t, result.InviteLink, "chat_")
	// The proposal is consumed and the partner notified.
	assert.NotContains(t, f.proposals.proposals, 1)
	assert.Equal(t, []int{2}, f.deliverer.delivered)
}

func TestConfirmMatch_ExistingPairNotChargedAgain(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		2: agreeingAnswers(1, 2, 3),
	}, []int{2}, 50)

	_, err := f.service.ProposeMatch(context.Background(), 1, 10)
	require.NoError(t, err)
	first, err := f.service.ConfirmMatch(context.Background(), 1, 2, 10)
	require.NoError(t, err)

	// The pair re-matches later; the ledger row is reused and no points move.
	_, err = f.service.ProposeMatch(context.Background(), 1, 10)
	require.NoError(t, err)
	second, err := f.service.ConfirmMatch(context.Background(), 1, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, first.Match.ID, second.Match.ID)
	assert.Equal(t, 40, f.users.users[1].Points)
	assert.Len(t, f.matches.matches, 1)
}

func TestConfirmMatch_WithoutProposalRejected(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{}, nil, 50)

	_, err := f.service.ConfirmMatch(context.Background(), 1, 2, 10)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
}

func TestConfirmMatch_MismatchedCandidateRejected(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		2: agreeingAnswers(1, 2, 3),
	}, []int{2}, 50)

	_, err := f.service.ProposeMatch(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = f.service.ConfirmMatch(context.Background(), 1, 3, 10)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)
	// The pending proposal survives a bad confirmation attempt.
	assert.Contains(t, f.proposals.proposals, 1)
}

func TestCancelProposal_Idempotent(t *testing.T) {
	f := newServiceFixture(map[int]domain.AnswerSet{
		1: agreeingAnswers(1, 2, 3),
		2: agreeingAnswers(1, 2, 3),
	}, []int{2}, 50)

	_, err := f.service.ProposeMatch(context.Background(), 1, 10)
	require.NoError(t, err)

	require.NoError(t, f.service.CancelProposal(context.Background(), 1))
	assert.NotContains(t, f.proposals.proposals, 1)

	// Cancelling again is a no-op.
	require.NoError(t, f.service.CancelProposal(context.Background(), 1))
}
