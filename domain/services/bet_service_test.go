package services

import (
	"context"
	"testing"

	"apostas/domain/entities"
	"apostas/domain/interfaces"
	"apostas/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type betServiceMocks struct {
	players *testhelpers.MockPlayerRepository
	bets    *testhelpers.MockBetRepository
	gateway *testhelpers.MockMessagingGateway
	faults  *testhelpers.MockFaultService
}

func newBetServiceForTest() (interfaces.BetService, *betServiceMocks) {
	m := &betServiceMocks{
		players: new(testhelpers.MockPlayerRepository),
		bets:    new(testhelpers.MockBetRepository),
		gateway: new(testhelpers.MockMessagingGateway),
		faults:  new(testhelpers.MockFaultService),
	}
	return NewBetService(m.players, m.bets, m.gateway, m.faults), m
}

func int64Ptr(v int64) *int64 { return &v }

func TestBetService_CreateBet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stake       int64
		mode        string
		setupMocks  func(*betServiceMocks)
		wantErr     bool
		errContains string
	}{
		{
			name:        "stake below minimum is rejected",
			stake:       24,
			mode:        "1x1",
			setupMocks:  func(m *betServiceMocks) {},
			wantErr:     true,
			errContains: "valor mínimo",
		},
		{
			name:        "unknown mode is rejected",
			stake:       100,
			mode:        "5x5",
			setupMocks:  func(m *betServiceMocks) {},
			wantErr:     true,
			errContains: "modo inválido",
		},
		{
			name:  "blocked creator is rejected",
			stake: 100,
			mode:  "1x1",
			setupMocks: func(m *betServiceMocks) {
				m.faults.On("EnsureEligible", mock.Anything, int64(10), "criador").
					Return(entities.NewGuardError("você está bloqueado"))
			},
			wantErr:     true,
			errContains: "bloqueado",
		},
		{
			name:  "creator at the cap is rejected",
			stake: 100,
			mode:  "1x1",
			setupMocks: func(m *betServiceMocks) {
				m.faults.On("EnsureEligible", mock.Anything, int64(10), "criador").Return(nil)
				m.bets.On("CountActiveByCreator", mock.Anything, int64(10)).Return(MaxActiveBetsPerCreator, nil)
			},
			wantErr:     true,
			errContains: "apostas abertas",
		},
		{
			name:  "successful creation below the cap",
			stake: 100,
			mode:  "1x1",
			setupMocks: func(m *betServiceMocks) {
				m.faults.On("EnsureEligible", mock.Anything, int64(10), "criador").Return(nil)
				m.bets.On("CountActiveByCreator", mock.Anything, int64(10)).Return(0, nil)
				m.players.On("GetOrCreate", mock.Anything, int64(10), "criador").Return(&entities.Player{DiscordID: 10}, nil)
				m.bets.On("Create", mock.Anything, mock.MatchedBy(func(b *entities.Bet) bool {
					return b.State == entities.BetStateAwaiting &&
						b.Player1ID != nil && *b.Player1ID == 10 &&
						b.Player2ID == nil
				})).Return(nil)
			},
		},
		{
			name:  "reaching the cap suspends the creator role",
			stake: 100,
			mode:  "1x1",
			setupMocks: func(m *betServiceMocks) {
				m.faults.On("EnsureEligible", mock.Anything, int64(10), "criador").Return(nil)
				m.bets.On("CountActiveByCreator", mock.Anything, int64(10)).Return(MaxActiveBetsPerCreator-1, nil)
				m.players.On("GetOrCreate", mock.Anything, int64(10), "criador").Return(&entities.Player{DiscordID: 10}, nil)
				m.bets.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.gateway.On("RevokeRole", mock.Anything, int64(1), int64(10), CreatorRoleName).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service, m := newBetServiceForTest()
			tt.setupMocks(m)

			bet, err := service.CreateBet(context.Background(), 1, 10, "criador", tt.mode, tt.stake, "")

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, bet)
			} else {
				require.NoError(t, err)
				require.NotNil(t, bet)
				assert.Equal(t, "infinito", bet.RoomMode)
			}
			m.bets.AssertExpectations(t)
			m.gateway.AssertExpectations(t)
		})
	}
}

func TestBetService_CreateOpenBet_LeavesBothSlotsFree(t *testing.T) {
	t.Parallel()

	service, m := newBetServiceForTest()
	m.faults.On("EnsureEligible", mock.Anything, int64(10), "mediador").Return(nil)
	m.bets.On("CountActiveByCreator", mock.Anything, int64(10)).Return(0, nil)
	m.players.On("GetOrCreate", mock.Anything, int64(10), "mediador").Return(&entities.Player{DiscordID: 10}, nil)
	m.bets.On("Create", mock.Anything, mock.MatchedBy(func(b *entities.Bet) bool {
		return b.State == entities.BetStateAwaiting &&
			b.CreatorID == 10 &&
			b.Player1ID == nil &&
			b.Player2ID == nil
	})).Return(nil)

	bet, err := service.CreateOpenBet(context.Background(), 1, 10, "mediador", "1x1", 100, "")
	require.NoError(t, err)

	require.NotNil(t, bet)
	assert.Nil(t, bet.Player1ID)
	assert.Nil(t, bet.Player2ID)
	m.bets.AssertExpectations(t)
}

func TestBetService_Accept_FirstSlotOnOpenBetLeavesBetOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bothOpen := &entities.Bet{ID: betID, GuildID: 1, CreatorID: 10, Stake: 100, State: entities.BetStateAwaiting}
	slotOneTaken := &entities.Bet{ID: betID, GuildID: 1, CreatorID: 10, Player1ID: int64Ptr(20), Stake: 100, State: entities.BetStateAwaiting}

	service, m := newBetServiceForTest()
	m.faults.On("EnsureEligible", ctx, int64(20), "desafiante").Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(bothOpen, nil).Once()
	m.players.On("GetOrCreate", ctx, int64(20), "desafiante").Return(&entities.Player{DiscordID: 20}, nil)
	m.bets.On("ClaimSlot", ctx, betID, 1, int64(20)).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(slotOneTaken, nil).Once()

	result, err := service.Accept(ctx, betID, 20, "desafiante")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Slot)
	assert.False(t, result.BothAccepted)
	m.gateway.AssertNotCalled(t, "CreateChannel", mock.Anything, mock.Anything, mock.Anything)
	m.bets.AssertNotCalled(t, "MarkAccepted", mock.Anything, mock.Anything, mock.Anything)
}

func TestBetService_Accept_ConcurrentAcceptWinsTransition(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	slotTwoTaken := &entities.Bet{ID: betID, GuildID: 1, CreatorID: 10, Player2ID: int64Ptr(30), Stake: 100, State: entities.BetStateAwaiting}
	filled := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(20),
		Player2ID: int64Ptr(30),
		Stake:     100,
		State:     entities.BetStateAwaiting,
	}
	accepted := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(20),
		Player2ID: int64Ptr(30),
		Stake:     100,
		State:     entities.BetStateAccepted,
		ChannelID: int64Ptr(888),
	}

	service, m := newBetServiceForTest()
	m.faults.On("EnsureEligible", ctx, int64(20), "desafiante").Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(slotTwoTaken, nil).Once()
	m.players.On("GetOrCreate", ctx, int64(20), "desafiante").Return(&entities.Player{DiscordID: 20}, nil)
	m.bets.On("ClaimSlot", ctx, betID, 1, int64(20)).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(filled, nil).Once()
	m.gateway.On("EnsureRole", ctx, int64(1), MediatorRoleName).Return(int64(555), nil)
	m.gateway.On("CreateChannel", ctx, int64(1), mock.Anything).Return(int64(999), nil)
	// The other accepter marked the bet accepted between our reload and write.
	m.bets.On("MarkAccepted", ctx, betID, int64(999)).Return(entities.ErrConflict)
	m.gateway.On("DeleteChannel", ctx, int64(999)).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(accepted, nil).Once()

	result, err := service.Accept(ctx, betID, 20, "desafiante")
	require.NoError(t, err)

	assert.False(t, result.BothAccepted, "the concurrent accepter owns the transition")
	assert.Equal(t, entities.BetStateAccepted, result.Bet.State)
	assert.Equal(t, int64(888), *result.Bet.ChannelID, "the winner's channel stands")
	m.gateway.AssertCalled(t, "DeleteChannel", ctx, int64(999))
}

func TestBetService_Accept_FillsLastSlotAndProvisionsChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	open := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Stake:     100,
		Mode:      "1x1",
		State:     entities.BetStateAwaiting,
	}
	filled := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		Stake:     100,
		Mode:      "1x1",
		State:     entities.BetStateAwaiting,
	}
	accepted := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		Stake:     100,
		Mode:      "1x1",
		State:     entities.BetStateAccepted,
		ChannelID: int64Ptr(999),
	}

	service, m := newBetServiceForTest()
	m.faults.On("EnsureEligible", ctx, int64(20), "desafiante").Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(open, nil).Once()
	m.players.On("GetOrCreate", ctx, int64(20), "desafiante").Return(&entities.Player{DiscordID: 20}, nil)
	m.bets.On("ClaimSlot", ctx, betID, 2, int64(20)).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(filled, nil).Once()
	m.gateway.On("EnsureRole", ctx, int64(1), MediatorRoleName).Return(int64(555), nil)
	m.gateway.On("CreateChannel", ctx, int64(1), mock.MatchedBy(func(spec interfaces.ChannelSpec) bool {
		return spec.Category == MatchCategoryName && len(spec.Overwrites) == 4
	})).Return(int64(999), nil)
	m.bets.On("MarkAccepted", ctx, betID, int64(999)).Return(nil)
	m.gateway.On("SendMessage", ctx, int64(999), mock.AnythingOfType("string")).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(accepted, nil).Once()

	result, err := service.Accept(ctx, betID, 20, "desafiante")
	require.NoError(t, err)

	assert.True(t, result.BothAccepted)
	assert.Equal(t, 2, result.Slot)
	assert.Equal(t, int64(999), result.ChannelID)
	assert.Equal(t, entities.BetStateAccepted, result.Bet.State)
	m.bets.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
}

func TestBetService_Accept_RollsBackChannelWhenAcceptWriteFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	open := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Stake:     100,
		State:     entities.BetStateAwaiting,
	}
	filled := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		Stake:     100,
		State:     entities.BetStateAwaiting,
	}

	service, m := newBetServiceForTest()
	m.faults.On("EnsureEligible", ctx, int64(20), "desafiante").Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(open, nil).Once()
	m.players.On("GetOrCreate", ctx, int64(20), "desafiante").Return(&entities.Player{DiscordID: 20}, nil)
	m.bets.On("ClaimSlot", ctx, betID, 2, int64(20)).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(filled, nil).Once()
	m.gateway.On("EnsureRole", ctx, int64(1), MediatorRoleName).Return(int64(555), nil)
	m.gateway.On("CreateChannel", ctx, int64(1), mock.Anything).Return(int64(999), nil)
	m.bets.On("MarkAccepted", ctx, betID, int64(999)).Return(assert.AnError)
	m.gateway.On("DeleteChannel", ctx, int64(999)).Return(nil)

	result, err := service.Accept(ctx, betID, 20, "desafiante")
	require.Error(t, err)
	assert.Nil(t, result)

	var depErr *entities.DependencyError
	assert.ErrorAs(t, err, &depErr)
	m.gateway.AssertCalled(t, "DeleteChannel", ctx, int64(999))
}

func TestBetService_Accept_RetriesOtherSlotOnConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bothOpen := &entities.Bet{ID: betID, GuildID: 1, CreatorID: 10, Stake: 100, State: entities.BetStateAwaiting}
	slotOneTaken := &entities.Bet{ID: betID, GuildID: 1, CreatorID: 10, Player1ID: int64Ptr(30), Stake: 100, State: entities.BetStateAwaiting}

	service, m := newBetServiceForTest()
	m.faults.On("EnsureEligible", ctx, int64(20), "desafiante").Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(bothOpen, nil).Once()
	m.players.On("GetOrCreate", ctx, int64(20), "desafiante").Return(&entities.Player{DiscordID: 20}, nil)
	m.bets.On("ClaimSlot", ctx, betID, 1, int64(20)).Return(entities.ErrConflict)
	m.bets.On("GetByID", ctx, betID).Return(slotOneTaken, nil).Once()
	m.bets.On("ClaimSlot", ctx, betID, 2, int64(20)).Return(entities.ErrConflict)

	result, err := service.Accept(ctx, betID, 20, "desafiante")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "completa")
	m.bets.AssertExpectations(t)
}

func TestBetService_Accept_Guards(t *testing.T) {
	t.Parallel()

	betID := uuid.New()

	tests := []struct {
		name        string
		bet         *entities.Bet
		errContains string
	}{
		{
			name:        "missing bet",
			bet:         nil,
			errContains: "não encontrada",
		},
		{
			name:        "bet already accepted",
			bet:         &entities.Bet{ID: betID, State: entities.BetStateAccepted},
			errContains: "não está mais aberta",
		},
		{
			name: "team match cannot be accepted directly",
			bet: &entities.Bet{
				ID:    betID,
				State: entities.BetStateAwaiting,
				Teams: &entities.TeamAssignments{Pool: []int64{1, 2, 3, 4}},
			},
			errContains: "fila",
		},
		{
			name: "creator cannot accept own bet",
			bet: &entities.Bet{
				ID:        betID,
				CreatorID: 20,
				Player1ID: int64Ptr(20),
				State:     entities.BetStateAwaiting,
			},
			errContains: "já está nesta aposta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service, m := newBetServiceForTest()
			m.faults.On("EnsureEligible", mock.Anything, int64(20), "desafiante").Return(nil)
			if tt.bet == nil {
				m.bets.On("GetByID", mock.Anything, betID).Return(nil, nil)
			} else {
				m.bets.On("GetByID", mock.Anything, betID).Return(tt.bet, nil)
			}

			result, err := service.Accept(context.Background(), betID, 20, "desafiante")
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, entities.IsUserFacing(err))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestBetService_Cancel_ByCreatorVoidsBet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		State:     entities.BetStateAwaiting,
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)
	m.bets.On("MarkCancelled", ctx, betID, []entities.BetState{entities.BetStateAwaiting}).Return(nil)
	m.bets.On("CountActiveByCreator", ctx, int64(10)).Return(0, nil)
	m.gateway.On("GrantRole", ctx, int64(1), int64(10), CreatorRoleName).Return(nil)

	result, err := service.Cancel(ctx, betID, 10)
	require.NoError(t, err)

	assert.True(t, result.FullyVoided)
	assert.Equal(t, entities.BetStateCancelled, result.Bet.State)
	m.gateway.AssertCalled(t, "GrantRole", ctx, int64(1), int64(10), CreatorRoleName)
}

func TestBetService_Cancel_ByCreatorAfterAcceptIsRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		GuildID:   1,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		ChannelID: int64Ptr(999),
		State:     entities.BetStateAccepted,
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)

	result, err := service.Cancel(ctx, betID, 10)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, entities.IsUserFacing(err))
	assert.Contains(t, err.Error(), "mediador")
	m.bets.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
	m.gateway.AssertNotCalled(t, "DeleteChannel", mock.Anything, mock.Anything)
}

func TestBetService_Cancel_ByCreatorAfterProgressIsRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{ID: betID, CreatorID: 10, State: entities.BetStatePaid}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)

	result, err := service.Cancel(ctx, betID, 10)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, entities.IsUserFacing(err))
	m.bets.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything)
}

func TestBetService_Cancel_ByParticipantVacatesSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		State:     entities.BetStateAwaiting,
	}
	vacated := &entities.Bet{
		ID:        betID,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		State:     entities.BetStateAwaiting,
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil).Once()
	m.bets.On("VacateSlot", ctx, betID, 2, int64(20)).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(vacated, nil).Once()

	result, err := service.Cancel(ctx, betID, 20)
	require.NoError(t, err)

	assert.False(t, result.FullyVoided)
	assert.Equal(t, 2, result.VacatedSlot)
	assert.Nil(t, result.Bet.Player2ID)
}

func TestBetService_ConfirmPayment_RequiresAcceptedState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{ID: betID, State: entities.BetStateAwaiting}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)

	result, err := service.ConfirmPayment(ctx, betID)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, entities.IsUserFacing(err))
}

func TestBetService_ConfirmPayment_UnlocksChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		ChannelID: int64Ptr(999),
		State:     entities.BetStateAccepted,
	}
	paid := &entities.Bet{ID: betID, State: entities.BetStatePaid}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil).Once()
	m.bets.On("MarkPaid", ctx, betID).Return(nil)
	m.gateway.On("SetChannelAccess", ctx, int64(999), int64(10), interfaces.AccessWrite).Return(nil)
	m.gateway.On("SetChannelAccess", ctx, int64(999), int64(20), interfaces.AccessWrite).Return(nil)
	m.gateway.On("SendMessage", ctx, int64(999), mock.AnythingOfType("string")).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(paid, nil).Once()

	result, err := service.ConfirmPayment(ctx, betID)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatePaid, result.State)
	m.gateway.AssertExpectations(t)
}

func TestBetService_Finalize_NormalSettlement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		CreatorID: 10,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		Stake:     100,
		State:     entities.BetStateInGame,
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)
	m.bets.On("Finalize", ctx, mock.MatchedBy(func(b *entities.Bet) bool {
		return b.State == entities.BetStateFinalized &&
			b.WinnerID != nil && *b.WinnerID == 10 &&
			b.FinalizedAt != nil
	})).Return(nil)

	result, err := service.Finalize(ctx, betID, 10, entities.FinalizationNormal)
	require.NoError(t, err)

	assert.False(t, result.AlreadyFinal)
	assert.Equal(t, []int64{10}, result.Winners)
	assert.Equal(t, []int64{20}, result.Losers)
	assert.InDelta(t, 20.0, result.Fee, 0.001)
	assert.InDelta(t, 180.0, result.Payout, 0.001)
}

func TestBetService_Finalize_WalkoverSettlement(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		Stake:     100,
		State:     entities.BetStateInGame,
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)
	m.bets.On("Finalize", ctx, mock.Anything).Return(nil)

	result, err := service.Finalize(ctx, betID, 20, entities.FinalizationWalkover)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, result.Fee, 0.001)
	assert.InDelta(t, 170.0, result.Payout, 0.001)
	assert.Equal(t, []int64{20}, result.Winners)
	assert.Equal(t, []int64{10}, result.Losers)
}

func TestBetService_Finalize_AlreadyFinalizedIsReported(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{ID: betID, State: entities.BetStateFinalized}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)

	result, err := service.Finalize(ctx, betID, 10, entities.FinalizationNormal)
	require.NoError(t, err)
	assert.True(t, result.AlreadyFinal)
	m.bets.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything)
}

func TestBetService_Finalize_ConcurrentFinalizationLosesGracefully(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	inGame := &entities.Bet{
		ID:        betID,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		Stake:     100,
		State:     entities.BetStateInGame,
	}
	settled := &entities.Bet{ID: betID, State: entities.BetStateFinalized, WinnerID: int64Ptr(20)}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(inGame, nil).Once()
	m.bets.On("Finalize", ctx, mock.Anything).Return(entities.ErrConflict)
	m.bets.On("GetByID", ctx, betID).Return(settled, nil).Once()

	result, err := service.Finalize(ctx, betID, 10, entities.FinalizationNormal)
	require.NoError(t, err)

	assert.True(t, result.AlreadyFinal)
	require.NotNil(t, result.Bet.WinnerID)
	assert.Equal(t, int64(20), *result.Bet.WinnerID)
}

func TestBetService_Finalize_WinnerMustBeParticipant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:        betID,
		Player1ID: int64Ptr(10),
		Player2ID: int64Ptr(20),
		State:     entities.BetStateInGame,
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)

	result, err := service.Finalize(ctx, betID, 30, entities.FinalizationNormal)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, entities.IsUserFacing(err))
}

func TestBetService_FinalizeTeam_CreditsEveryMember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{
		ID:    betID,
		Stake: 50,
		State: entities.BetStateInGame,
		Teams: &entities.TeamAssignments{
			Pool:  []int64{1, 2, 3, 4},
			TeamA: []int64{1, 2},
			TeamB: []int64{3, 4},
		},
	}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil)
	m.bets.On("Finalize", ctx, mock.MatchedBy(func(b *entities.Bet) bool {
		return b.WinningTeam != nil && *b.WinningTeam == entities.TeamB
	})).Return(nil)

	result, err := service.FinalizeTeam(ctx, betID, entities.TeamB, entities.FinalizationNormal)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 4}, result.Winners)
	assert.Equal(t, []int64{1, 2}, result.Losers)
	assert.InDelta(t, 10.0, result.Fee, 0.001)
	assert.InDelta(t, 90.0, result.Payout, 0.001)
}

func TestBetService_AssignTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()

	t.Run("partial pick persists the split", func(t *testing.T) {
		t.Parallel()

		bet := &entities.Bet{
			ID:    betID,
			State: entities.BetStateAwaiting,
			Teams: &entities.TeamAssignments{Pool: []int64{1, 2, 3, 4}},
		}

		service, m := newBetServiceForTest()
		m.bets.On("GetByID", ctx, betID).Return(bet, nil)
		m.bets.On("UpdateTeams", ctx, betID, mock.MatchedBy(func(teams *entities.TeamAssignments) bool {
			return len(teams.TeamA) == 1 && teams.TeamA[0] == 1
		})).Return(nil)

		result, err := service.AssignTeam(ctx, betID, 1, entities.TeamA)
		require.NoError(t, err)
		assert.False(t, result.Complete)
	})

	t.Run("final pick completes teams and starts the match", func(t *testing.T) {
		t.Parallel()

		bet := &entities.Bet{
			ID:        betID,
			ChannelID: int64Ptr(999),
			State:     entities.BetStateAwaiting,
			Teams: &entities.TeamAssignments{
				Pool:  []int64{1, 2, 3, 4},
				TeamA: []int64{1, 2},
				TeamB: []int64{3},
			},
		}
		started := &entities.Bet{ID: betID, State: entities.BetStateInGame}

		service, m := newBetServiceForTest()
		m.bets.On("GetByID", ctx, betID).Return(bet, nil).Once()
		m.bets.On("MarkTeamsComplete", ctx, betID, mock.Anything, int64(1), int64(3)).Return(nil)
		m.gateway.On("SendMessage", ctx, int64(999), mock.AnythingOfType("string")).Return(nil)
		m.bets.On("GetByID", ctx, betID).Return(started, nil).Once()

		result, err := service.AssignTeam(ctx, betID, 4, entities.TeamB)
		require.NoError(t, err)
		assert.True(t, result.Complete)
		assert.Equal(t, entities.BetStateInGame, result.Bet.State)
		m.bets.AssertExpectations(t)
	})

	t.Run("outsider cannot pick a team", func(t *testing.T) {
		t.Parallel()

		bet := &entities.Bet{
			ID:    betID,
			State: entities.BetStateAwaiting,
			Teams: &entities.TeamAssignments{Pool: []int64{1, 2, 3, 4}},
		}

		service, m := newBetServiceForTest()
		m.bets.On("GetByID", ctx, betID).Return(bet, nil)

		result, err := service.AssignTeam(ctx, betID, 99, entities.TeamA)
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, entities.IsUserFacing(err))
	})
}

func TestBetService_CancelMatch_TearsDownChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	betID := uuid.New()
	bet := &entities.Bet{ID: betID, GuildID: 1, CreatorID: 10, ChannelID: int64Ptr(999), State: entities.BetStateInGame}
	cancelled := &entities.Bet{ID: betID, State: entities.BetStateCancelled}

	service, m := newBetServiceForTest()
	m.bets.On("GetByID", ctx, betID).Return(bet, nil).Once()
	m.bets.On("MarkCancelled", ctx, betID, entities.ActiveBetStates).Return(nil)
	m.gateway.On("DeleteChannel", ctx, int64(999)).Return(nil)
	m.bets.On("CountActiveByCreator", ctx, int64(10)).Return(1, nil)
	m.gateway.On("GrantRole", ctx, int64(1), int64(10), CreatorRoleName).Return(nil)
	m.bets.On("GetByID", ctx, betID).Return(cancelled, nil).Once()

	result, err := service.CancelMatch(ctx, betID)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStateCancelled, result.State)
	m.gateway.AssertCalled(t, "DeleteChannel", ctx, int64(999))
}
