package save_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/cardcrawl/internal/save"
)

func TestNewProgressDefaults(t *testing.T) {
	p := save.NewProgress()
	require.NoError(t, p.Validate())

	assert.Equal(t, 1, p.Player.Level)
	assert.Equal(t, save.StartingHealth, p.Player.MaxHealth)
	assert.Equal(t, save.StartingMana, p.Player.MaxMana)
	assert.Equal(t, []int{1}, p.UnlockedLevels)
	assert.Len(t, p.EquippedCards, 10)
	assert.Equal(t, 2, p.DistinctCards())
	assert.Equal(t, save.DefaultSettings(), p.Settings)
}

func TestValidateReportsMissingFields(t *testing.T) {
	p := save.NewProgress()
	p.Stats = nil
	p.Achievements = nil

	err := p.Validate()
	require.ErrorIs(t, err, save.ErrInvalidSave)
	assert.Contains(t, err.Error(), "stats")
	assert.Contains(t, err.Error(), "achievements")
}

func TestGainExperienceLevelsUp(t *testing.T) {
	p := save.NewProgress()

	assert.Equal(t, 0, p.GainExperience(99))
	assert.Equal(t, 1, p.Player.Level)

	// 99 + 251 = 350: level 1 costs 100, level 2 costs 200, 50 left over.
	assert.Equal(t, 2, p.GainExperience(251))
	assert.Equal(t, 3, p.Player.Level)
	assert.Equal(t, 50, p.Player.Experience)
	assert.Equal(t, save.StartingHealth+20, p.Player.MaxHealth)
	assert.Equal(t, save.StartingMana+2, p.Player.MaxMana)
}

func TestGainGoldTracksEarnings(t *testing.T) {
	p := save.NewProgress()
	p.GainGold(50)
	p.GainGold(-10)
	assert.Equal(t, 50, p.Player.Gold)
	assert.Equal(t, 50, p.Stats.TotalGoldEarned)
}

func TestUnlockLevelIsIdempotent(t *testing.T) {
	p := save.NewProgress()
	assert.True(t, p.UnlockLevel(3))
	assert.True(t, p.UnlockLevel(2))
	assert.False(t, p.UnlockLevel(3))
	assert.Equal(t, []int{1, 2, 3}, p.UnlockedLevels)
}

func TestPowerRatings(t *testing.T) {
	p := save.NewProgress()
	p.Player.Level = 6
	assert.Equal(t, 5+3+2, p.AttackPower(2))
	assert.Equal(t, 2+2+1, p.DefensePower(1))
}
