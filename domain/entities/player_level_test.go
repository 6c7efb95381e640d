package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForTotalBets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		totalBets int
		want      Level
	}{
		{0, LevelBronze},
		{29, LevelBronze},
		{30, LevelPrata},
		{49, LevelPrata},
		{50, LevelOuro},
		{99, LevelOuro},
		{100, LevelDiamante},
		{500, LevelDiamante},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForTotalBets(tt.totalBets), "totalBets=%d", tt.totalBets)
	}
}

func TestPlayerLevel_Apply(t *testing.T) {
	t.Parallel()

	pl := &PlayerLevel{Level: LevelBronze, TotalBets: PrataMinBets - 1}

	changed := pl.Apply(true, 80)
	assert.True(t, changed, "crossing the prata threshold changes the tier")
	assert.Equal(t, LevelPrata, pl.Level)
	assert.Equal(t, PrataMinBets, pl.TotalBets)
	assert.Equal(t, 1, pl.TotalWins)

	changed = pl.Apply(false, -100)
	assert.False(t, changed)
	assert.Equal(t, LevelPrata, pl.Level)
	assert.Equal(t, 1, pl.TotalLosses)
	assert.InDelta(t, -20.0, pl.TotalProfit, 0.001)
}

func TestProgressForTotalBets(t *testing.T) {
	t.Parallel()

	t.Run("halfway to prata", func(t *testing.T) {
		t.Parallel()

		progress := ProgressForTotalBets(15)
		assert.Equal(t, LevelBronze, progress.Current)
		require.NotNil(t, progress.Next)
		assert.Equal(t, LevelPrata, *progress.Next)
		assert.Equal(t, 50, progress.Percentage)
	})

	t.Run("fresh ouro", func(t *testing.T) {
		t.Parallel()

		progress := ProgressForTotalBets(50)
		assert.Equal(t, LevelOuro, progress.Current)
		require.NotNil(t, progress.Next)
		assert.Equal(t, LevelDiamante, *progress.Next)
		assert.Equal(t, 0, progress.Percentage)
	})

	t.Run("diamante is terminal", func(t *testing.T) {
		t.Parallel()

		progress := ProgressForTotalBets(150)
		assert.Equal(t, LevelDiamante, progress.Current)
		assert.Nil(t, progress.Next)
		assert.Equal(t, 100, progress.Percentage)
	})
}

func TestPlayerLevel_Badges(t *testing.T) {
	t.Parallel()

	assert.Empty(t, (&PlayerLevel{}).Badges())

	pl := &PlayerLevel{TotalBets: 120, TotalWins: 100, TotalProfit: 5000}
	badges := pl.Badges()
	assert.Len(t, badges, 5)
	assert.Contains(t, badges, "🏆 Lenda do Servidor")
}
