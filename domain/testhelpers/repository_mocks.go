package testhelpers

import (
	"context"
	"time"

	"apostas/domain/entities"
	"apostas/domain/interfaces"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.Player, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetOrCreate(ctx context.Context, discordID int64, name string) (*entities.Player, error) {
	args := m.Called(ctx, discordID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Player), args.Error(1)
}

func (m *MockPlayerRepository) Update(ctx context.Context, player *entities.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) TopByWins(ctx context.Context, limit int) ([]*entities.Player, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Player), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) ClaimSlot(ctx context.Context, id uuid.UUID, slot int, discordID int64) error {
	args := m.Called(ctx, id, slot, discordID)
	return args.Error(0)
}

func (m *MockBetRepository) VacateSlot(ctx context.Context, id uuid.UUID, slot int, discordID int64) error {
	args := m.Called(ctx, id, slot, discordID)
	return args.Error(0)
}

func (m *MockBetRepository) MarkAccepted(ctx context.Context, id uuid.UUID, channelID int64) error {
	args := m.Called(ctx, id, channelID)
	return args.Error(0)
}

func (m *MockBetRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetRepository) MarkStarted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetRepository) MarkCancelled(ctx context.Context, id uuid.UUID, from []entities.BetState) error {
	args := m.Called(ctx, id, from)
	return args.Error(0)
}

func (m *MockBetRepository) Finalize(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) UpdateTeams(ctx context.Context, id uuid.UUID, teams *entities.TeamAssignments) error {
	args := m.Called(ctx, id, teams)
	return args.Error(0)
}

func (m *MockBetRepository) MarkTeamsComplete(ctx context.Context, id uuid.UUID, teams *entities.TeamAssignments, captainA, captainB int64) error {
	args := m.Called(ctx, id, teams, captainA, captainB)
	return args.Error(0)
}

func (m *MockBetRepository) SetManualReview(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetRepository) CountActiveByCreator(ctx context.Context, creatorID int64) (int, error) {
	args := m.Called(ctx, creatorID)
	return args.Int(0), args.Error(1)
}

func (m *MockBetRepository) CountActiveByParticipant(ctx context.Context, discordID int64) (int, error) {
	args := m.Called(ctx, discordID)
	return args.Int(0), args.Error(1)
}

func (m *MockBetRepository) ListStale(ctx context.Context, state entities.BetState, cutoff time.Time) ([]*entities.Bet, error) {
	args := m.Called(ctx, state, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

// MockQueueRepository is a mock implementation of QueueRepository
type MockQueueRepository struct {
	mock.Mock
}

func (m *MockQueueRepository) Create(ctx context.Context, queue *entities.Queue) error {
	args := m.Called(ctx, queue)
	return args.Error(0)
}

func (m *MockQueueRepository) GetByID(ctx context.Context, id int64) (*entities.Queue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Queue), args.Error(1)
}

func (m *MockQueueRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.Queue, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Queue), args.Error(1)
}

func (m *MockQueueRepository) AppendPlayer(ctx context.Context, id int64, discordID int64) (*entities.Queue, error) {
	args := m.Called(ctx, id, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Queue), args.Error(1)
}

func (m *MockQueueRepository) RemovePlayer(ctx context.Context, id int64, discordID int64) (*entities.Queue, error) {
	args := m.Called(ctx, id, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Queue), args.Error(1)
}

func (m *MockQueueRepository) CaptureFullRoster(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockQueueRepository) MemberOfAny(ctx context.Context, guildID int64, discordID int64) (bool, error) {
	args := m.Called(ctx, guildID, discordID)
	return args.Bool(0), args.Error(1)
}

// MockPlayerLevelRepository is a mock implementation of PlayerLevelRepository
type MockPlayerLevelRepository struct {
	mock.Mock
}

func (m *MockPlayerLevelRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.PlayerLevel, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PlayerLevel), args.Error(1)
}

func (m *MockPlayerLevelRepository) Upsert(ctx context.Context, level *entities.PlayerLevel) error {
	args := m.Called(ctx, level)
	return args.Error(0)
}

// MockSeasonRankingRepository is a mock implementation of SeasonRankingRepository
type MockSeasonRankingRepository struct {
	mock.Mock
}

func (m *MockSeasonRankingRepository) Get(ctx context.Context, discordID int64, seasonType entities.SeasonType, seasonID string) (*entities.SeasonRanking, error) {
	args := m.Called(ctx, discordID, seasonType, seasonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SeasonRanking), args.Error(1)
}

func (m *MockSeasonRankingRepository) Upsert(ctx context.Context, ranking *entities.SeasonRanking) error {
	args := m.Called(ctx, ranking)
	return args.Error(0)
}

func (m *MockSeasonRankingRepository) Top(ctx context.Context, seasonType entities.SeasonType, seasonID string, limit int) ([]*entities.SeasonRanking, error) {
	args := m.Called(ctx, seasonType, seasonID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.SeasonRanking), args.Error(1)
}

// MockMessagingGateway is a mock implementation of MessagingGateway
type MockMessagingGateway struct {
	mock.Mock
}

func (m *MockMessagingGateway) CreateChannel(ctx context.Context, guildID int64, spec interfaces.ChannelSpec) (int64, error) {
	args := m.Called(ctx, guildID, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessagingGateway) DeleteChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockMessagingGateway) SendMessage(ctx context.Context, channelID int64, content string) error {
	args := m.Called(ctx, channelID, content)
	return args.Error(0)
}

func (m *MockMessagingGateway) SendDM(ctx context.Context, discordID int64, content string) error {
	args := m.Called(ctx, discordID, content)
	return args.Error(0)
}

func (m *MockMessagingGateway) SetChannelAccess(ctx context.Context, channelID int64, discordID int64, access interfaces.ChannelAccess) error {
	args := m.Called(ctx, channelID, discordID, access)
	return args.Error(0)
}

func (m *MockMessagingGateway) EnsureRole(ctx context.Context, guildID int64, name string) (int64, error) {
	args := m.Called(ctx, guildID, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessagingGateway) GrantRole(ctx context.Context, guildID int64, discordID int64, roleName string) error {
	args := m.Called(ctx, guildID, discordID, roleName)
	return args.Error(0)
}

func (m *MockMessagingGateway) RevokeRole(ctx context.Context, guildID int64, discordID int64, roleName string) error {
	args := m.Called(ctx, guildID, discordID, roleName)
	return args.Error(0)
}

// MockFaultService is a mock implementation of FaultService
type MockFaultService struct {
	mock.Mock
}

func (m *MockFaultService) AddFault(ctx context.Context, discordID int64, name string) (*entities.Player, error) {
	args := m.Called(ctx, discordID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Player), args.Error(1)
}

func (m *MockFaultService) EnsureEligible(ctx context.Context, discordID int64, name string) error {
	args := m.Called(ctx, discordID, name)
	return args.Error(0)
}
