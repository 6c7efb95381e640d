package services

import (
	"context"
	"testing"
	"time"

	"apostas/domain/entities"
	"apostas/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFaultService_AddFault_Escalation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		priorFaults   int
		wantFaults    int
		wantBlock     bool
		wantBlockSpan time.Duration
	}{
		{
			name:        "first fault is a warning only",
			priorFaults: 0,
			wantFaults:  1,
			wantBlock:   false,
		},
		{
			name:          "second fault blocks for 24h",
			priorFaults:   1,
			wantFaults:    2,
			wantBlock:     true,
			wantBlockSpan: 24 * time.Hour,
		},
		{
			name:          "third fault blocks for 3 days",
			priorFaults:   2,
			wantFaults:    3,
			wantBlock:     true,
			wantBlockSpan: 72 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			player := &entities.Player{DiscordID: 100, Name: "jogador", Faults: tt.priorFaults}

			mockPlayers := new(testhelpers.MockPlayerRepository)
			mockBets := new(testhelpers.MockBetRepository)
			mockGateway := new(testhelpers.MockMessagingGateway)
			mockPlayers.On("GetOrCreate", ctx, int64(100), "jogador").Return(player, nil)
			mockPlayers.On("Update", ctx, player).Return(nil)
			mockGateway.On("SendDM", ctx, int64(100), mock.AnythingOfType("string")).Return(nil)

			service := NewFaultService(mockPlayers, mockBets, mockGateway)

			before := time.Now()
			got, err := service.AddFault(ctx, 100, "jogador")
			require.NoError(t, err)

			assert.Equal(t, tt.wantFaults, got.Faults)
			if tt.wantBlock {
				require.NotNil(t, got.BlockedUntil)
				assert.WithinDuration(t, before.Add(tt.wantBlockSpan), *got.BlockedUntil, time.Minute)
			} else {
				assert.Nil(t, got.BlockedUntil)
			}
			mockPlayers.AssertExpectations(t)
		})
	}
}

func TestFaultService_AddFault_FourthFaultIsPermanent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	player := &entities.Player{DiscordID: 100, Faults: 3}

	mockPlayers := new(testhelpers.MockPlayerRepository)
	mockBets := new(testhelpers.MockBetRepository)
	mockGateway := new(testhelpers.MockMessagingGateway)
	mockPlayers.On("GetOrCreate", ctx, int64(100), "").Return(player, nil)
	mockPlayers.On("Update", ctx, player).Return(nil)
	mockGateway.On("SendDM", ctx, int64(100), mock.AnythingOfType("string")).Return(nil)

	service := NewFaultService(mockPlayers, mockBets, mockGateway)

	got, err := service.AddFault(ctx, 100, "")
	require.NoError(t, err)

	assert.Equal(t, 4, got.Faults)
	require.NotNil(t, got.BlockedUntil)
	assert.True(t, got.BlockedUntil.After(time.Now().AddDate(99, 0, 0)), "fourth fault should block effectively forever")
}

func TestFaultService_AddFault_DMFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	player := &entities.Player{DiscordID: 100}

	mockPlayers := new(testhelpers.MockPlayerRepository)
	mockBets := new(testhelpers.MockBetRepository)
	mockGateway := new(testhelpers.MockMessagingGateway)
	mockPlayers.On("GetOrCreate", ctx, int64(100), "").Return(player, nil)
	mockPlayers.On("Update", ctx, player).Return(nil)
	mockGateway.On("SendDM", ctx, int64(100), mock.AnythingOfType("string")).Return(assert.AnError)

	service := NewFaultService(mockPlayers, mockBets, mockGateway)

	got, err := service.AddFault(ctx, 100, "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Faults)
}

func TestFaultService_EnsureEligible(t *testing.T) {
	t.Parallel()

	blockedUntil := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		setupMocks func(*testhelpers.MockPlayerRepository, *testhelpers.MockBetRepository)
		wantErr    bool
	}{
		{
			name: "eligible player passes",
			setupMocks: func(players *testhelpers.MockPlayerRepository, bets *testhelpers.MockBetRepository) {
				players.On("GetOrCreate", mock.Anything, int64(100), "jogador").Return(&entities.Player{DiscordID: 100}, nil)
				bets.On("CountActiveByParticipant", mock.Anything, int64(100)).Return(3, nil)
			},
		},
		{
			name: "blocked player is rejected",
			setupMocks: func(players *testhelpers.MockPlayerRepository, bets *testhelpers.MockBetRepository) {
				players.On("GetOrCreate", mock.Anything, int64(100), "jogador").Return(&entities.Player{
					DiscordID:    100,
					BlockedUntil: &blockedUntil,
				}, nil)
			},
			wantErr: true,
		},
		{
			name: "player at the active-bet ceiling still passes",
			setupMocks: func(players *testhelpers.MockPlayerRepository, bets *testhelpers.MockBetRepository) {
				players.On("GetOrCreate", mock.Anything, int64(100), "jogador").Return(&entities.Player{DiscordID: 100}, nil)
				bets.On("CountActiveByParticipant", mock.Anything, int64(100)).Return(MaxActiveBets, nil)
			},
		},
		{
			name: "player over the ceiling is blocked and rejected",
			setupMocks: func(players *testhelpers.MockPlayerRepository, bets *testhelpers.MockBetRepository) {
				players.On("GetOrCreate", mock.Anything, int64(100), "jogador").Return(&entities.Player{DiscordID: 100}, nil)
				bets.On("CountActiveByParticipant", mock.Anything, int64(100)).Return(MaxActiveBets+1, nil)
				players.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Player) bool {
					return p.BlockedUntil != nil
				})).Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockPlayers := new(testhelpers.MockPlayerRepository)
			mockBets := new(testhelpers.MockBetRepository)
			mockGateway := new(testhelpers.MockMessagingGateway)
			tt.setupMocks(mockPlayers, mockBets)

			service := NewFaultService(mockPlayers, mockBets, mockGateway)
			err := service.EnsureEligible(context.Background(), 100, "jogador")

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, entities.IsUserFacing(err))
			} else {
				assert.NoError(t, err)
			}
			mockPlayers.AssertExpectations(t)
			mockBets.AssertExpectations(t)
		})
	}
}
