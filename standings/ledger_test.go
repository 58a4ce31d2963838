package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/models"
)

func TestAdjustApplyThenRevertIsIdentity(t *testing.T) {
	base := models.TeamStats{Played: 4, Won: 2, Drawn: 1, Lost: 1, GoalsFor: 7, GoalsAgainst: 5, GoalDifference: 2, Points: 7}

	for hs := 0; hs <= 6; hs++ {
		for as := 0; as <= 6; as++ {
			home := &models.Team{ID: 1, TeamStats: base}
			away := &models.Team{ID: 2}

			require.NoError(t, Adjust(home, away, hs, as, Apply))
			assert.True(t, Consistent(home.TeamStats), "home after apply %d-%d", hs, as)
			assert.True(t, Consistent(away.TeamStats), "away after apply %d-%d", hs, as)

			require.NoError(t, Adjust(home, away, hs, as, Revert))
			assert.Equal(t, base, home.TeamStats, "home after revert %d-%d", hs, as)
			assert.Equal(t, models.TeamStats{}, away.TeamStats, "away after revert %d-%d", hs, as)
		}
	}
}

func TestAdjustHomeWin(t *testing.T) {
	home := &models.Team{ID: 1}
	away := &models.Team{ID: 2}

	require.NoError(t, Adjust(home, away, 3, 1, Apply))

	assert.Equal(t, models.TeamStats{Played: 1, Won: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Points: 3}, home.TeamStats)
	assert.Equal(t, models.TeamStats{Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2}, away.TeamStats)
}

func TestAdjustDraw(t *testing.T) {
	home := &models.Team{ID: 1}
	away := &models.Team{ID: 2}

	require.NoError(t, Adjust(home, away, 1, 1, Apply))

	want := models.TeamStats{Played: 1, Drawn: 1, GoalsFor: 1, GoalsAgainst: 1, Points: 1}
	assert.Equal(t, want, home.TeamStats)
	assert.Equal(t, want, away.TeamStats)
}

func TestAdjustCorrectionMatchesDirectSubmission(t *testing.T) {
	corrHome, corrAway := &models.Team{ID: 1}, &models.Team{ID: 2}
	require.NoError(t, Adjust(corrHome, corrAway, 3, 1, Apply))
	require.NoError(t, Adjust(corrHome, corrAway, 3, 1, Revert))
	require.NoError(t, Adjust(corrHome, corrAway, 1, 1, Apply))

	directHome, directAway := &models.Team{ID: 1}, &models.Team{ID: 2}
	require.NoError(t, Adjust(directHome, directAway, 1, 1, Apply))

	assert.Equal(t, directHome.TeamStats, corrHome.TeamStats)
	assert.Equal(t, directAway.TeamStats, corrAway.TeamStats)
}

func TestAdjustRejectsBrokenInput(t *testing.T) {
	team := &models.Team{ID: 1}

	tests := []struct {
		name      string
		home      *models.Team
		away      *models.Team
		homeScore int
		awayScore int
		factor    Factor
	}{
		{"missing home", nil, team, 1, 0, Apply},
		{"missing away", team, nil, 1, 0, Apply},
		{"bad factor", team, &models.Team{ID: 2}, 1, 0, Factor(2)},
		{"negative score", team, &models.Team{ID: 2}, -1, 0, Apply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Adjust(tt.home, tt.away, tt.homeScore, tt.awayScore, tt.factor)
			require.ErrorIs(t, err, ErrIntegrity)
			assert.Equal(t, models.TeamStats{}, team.TeamStats)
		})
	}
}
