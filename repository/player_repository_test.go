package repository

import (
	"context"
	"testing"
	"time"

	"apostas/domain/entities"
	"apostas/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_GetOrCreate(t *testing.T) {
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	repo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	player, err := repo.GetOrCreate(ctx, 10, "jogador")
	require.NoError(t, err)
	assert.Equal(t, int64(10), player.DiscordID)
	assert.Equal(t, "jogador", player.Name)
	assert.Equal(t, 0, player.Faults)

	// A fresh name refreshes the stored one.
	player, err = repo.GetOrCreate(ctx, 10, "novo_nome")
	require.NoError(t, err)
	assert.Equal(t, "novo_nome", player.Name)

	// An empty name keeps what we had.
	player, err = repo.GetOrCreate(ctx, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "novo_nome", player.Name)
}

func TestPlayerRepository_Update(t *testing.T) {
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	repo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	player, err := repo.GetOrCreate(ctx, 10, "jogador")
	require.NoError(t, err)

	blockedUntil := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Millisecond)
	player.Wins = 3
	player.MatchesPlayed = 5
	player.Profit = 240.5
	player.Faults = 2
	player.BlockedUntil = &blockedUntil
	require.NoError(t, repo.Update(ctx, player))

	got, err := repo.GetByDiscordID(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Wins)
	assert.InDelta(t, 240.5, got.Profit, 0.001)
	assert.Equal(t, 2, got.Faults)
	require.NotNil(t, got.BlockedUntil)
	assert.WithinDuration(t, blockedUntil, *got.BlockedUntil, time.Second)

	err = repo.Update(ctx, &entities.Player{DiscordID: 999})
	require.Error(t, err)
}

func TestPlayerRepository_TopByWins(t *testing.T) {
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	repo := NewPlayerRepository(testDB.DB)
	ctx := context.Background()

	seed := []struct {
		id      int64
		wins    int
		matches int
		profit  float64
	}{
		{10, 5, 8, 100},
		{20, 9, 12, 50},
		{30, 5, 10, 200},
		{40, 0, 0, 0}, // never played, stays off the board
	}
	for _, s := range seed {
		player, err := repo.GetOrCreate(ctx, s.id, "")
		require.NoError(t, err)
		player.Wins = s.wins
		player.MatchesPlayed = s.matches
		player.Profit = s.profit
		require.NoError(t, repo.Update(ctx, player))
	}

	top, err := repo.TopByWins(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, int64(20), top[0].DiscordID)
	assert.Equal(t, int64(30), top[1].DiscordID, "profit breaks the tie")
	assert.Equal(t, int64(10), top[2].DiscordID)

	limited, err := repo.TopByWins(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
