package repository

import (
	"context"
	"testing"

	"apostas/domain/entities"
	"apostas/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonRankingRepository_Upsert(t *testing.T) {
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	repo := NewSeasonRankingRepository(testDB.DB)
	ctx := context.Background()

	missing, err := repo.Get(ctx, 10, entities.SeasonWeekly, "2026-W35")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ranking := &entities.SeasonRanking{
		DiscordID:  10,
		SeasonType: entities.SeasonWeekly,
		SeasonID:   "2026-W35",
		Wins:       1,
		TotalBet:   100,
		Profit:     80,
		WinRate:    100,
	}
	require.NoError(t, repo.Upsert(ctx, ranking))

	ranking.Apply(false, 100, -100)
	require.NoError(t, repo.Upsert(ctx, ranking))

	got, err := repo.Get(ctx, 10, entities.SeasonWeekly, "2026-W35")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 1, got.Losses)
	assert.InDelta(t, 50.0, got.WinRate, 0.001)

	// Same player, different season, separate row.
	other, err := repo.Get(ctx, 10, entities.SeasonMonthly, "2026-08")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSeasonRankingRepository_Top(t *testing.T) {
	t.Parallel()

	testDB := testutil.SetupTestDatabase(t)
	repo := NewSeasonRankingRepository(testDB.DB)
	ctx := context.Background()

	seed := []*entities.SeasonRanking{
		{DiscordID: 10, SeasonType: entities.SeasonWeekly, SeasonID: "2026-W35", Wins: 2, Profit: 100},
		{DiscordID: 20, SeasonType: entities.SeasonWeekly, SeasonID: "2026-W35", Wins: 5, Profit: 50},
		{DiscordID: 30, SeasonType: entities.SeasonWeekly, SeasonID: "2026-W35", Wins: 2, Profit: 300},
		{DiscordID: 40, SeasonType: entities.SeasonWeekly, SeasonID: "2026-W34", Wins: 9, Profit: 900},
		{DiscordID: 50, SeasonType: entities.SeasonMonthly, SeasonID: "2026-08", Wins: 9, Profit: 900},
	}
	for _, r := range seed {
		require.NoError(t, repo.Upsert(ctx, r))
	}

	top, err := repo.Top(ctx, entities.SeasonWeekly, "2026-W35", 10)
	require.NoError(t, err)
	require.Len(t, top, 3, "other seasons and types stay out")

	assert.Equal(t, int64(20), top[0].DiscordID)
	assert.Equal(t, int64(30), top[1].DiscordID, "profit breaks the tie")
	assert.Equal(t, int64(10), top[2].DiscordID)

	limited, err := repo.Top(ctx, entities.SeasonWeekly, "2026-W35", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
