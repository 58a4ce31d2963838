package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
)

func TestGenerateScheduleFourTeams(t *testing.T) {
	env := newTestEnv(t)
	tournamentID, ids := env.seedLeague(t, "A", "B", "C", "D")

	agg, err := env.scheduleService.GenerateSchedule(context.Background(), tournamentID, GenerateScheduleInput{
		StartDate:        "2024-01-01",
		MatchesPerDay:    2,
		TimeSlotInterval: 120,
	})
	require.NoError(t, err)
	require.Len(t, agg.Matches, 6)

	seen := map[[2]int]bool{}
	perTeam := map[int]int{}
	for _, m := range agg.Matches {
		assert.NotEqual(t, m.HomeTeamID, m.AwayTeamID)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		require.NotNil(t, m.HomeTeam)
		require.NotNil(t, m.AwayTeam)

		key := [2]int{min(m.HomeTeamID, m.AwayTeamID), max(m.HomeTeamID, m.AwayTeamID)}
		assert.False(t, seen[key], "pair %v scheduled twice", key)
		seen[key] = true
		perTeam[m.HomeTeamID]++
		perTeam[m.AwayTeamID]++
	}
	for _, id := range ids {
		assert.Equal(t, 3, perTeam[id])
	}

	assert.Equal(t, "2024-01-01", *agg.Matches[0].Date)
	assert.Equal(t, "00:00:00", *agg.Matches[0].Time)
	assert.Equal(t, "02:00:00", *agg.Matches[1].Time)
	assert.Equal(t, "2024-01-02", *agg.Matches[2].Date)
	assert.Equal(t, "2024-01-03", *agg.Matches[5].Date)

	assert.Equal(t, []string{brackets.EventTournamentUpdated}, env.eventTypes())
}

func TestGenerateScheduleReplacesAndResetsSnapshots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, ids := env.seedLeague(t, "A", "B", "C")
	first := env.generate(t, tournamentID)
	require.Len(t, first, 3)

	_, err := env.matchService.SubmitScore(ctx, first[0].ID, 4, 0)
	require.NoError(t, err)

	second := env.generate(t, tournamentID)
	require.Len(t, second, 3)
	for _, m := range second {
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		assert.Nil(t, m.HomeScore)
		for _, old := range first {
			assert.NotEqual(t, old.ID, m.ID)
		}
	}
	for _, id := range ids {
		assert.Equal(t, models.TeamStats{}, env.team(t, id).TeamStats)
	}

	fromMatches, err := env.standingsService.ComputeStandings(ctx, tournamentID, SourceMatches)
	require.NoError(t, err)
	fromSnapshot, err := env.standingsService.ComputeStandings(ctx, tournamentID, SourceSnapshot)
	require.NoError(t, err)
	assert.Equal(t, fromMatches, fromSnapshot)
}

func TestGenerateScheduleValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, _ := env.seedLeague(t, "Solo")

	tests := []struct {
		name  string
		input GenerateScheduleInput
		want  error
	}{
		{"bad date", GenerateScheduleInput{StartDate: "tomorrow", MatchesPerDay: 1, TimeSlotInterval: 60}, ErrInvalidStartDate},
		{"zero per day", GenerateScheduleInput{StartDate: "2024-01-01", MatchesPerDay: 0, TimeSlotInterval: 60}, ErrInvalidMatchesPerDay},
		{"zero interval", GenerateScheduleInput{StartDate: "2024-01-01", MatchesPerDay: 1, TimeSlotInterval: 0}, ErrInvalidTimeSlot},
		{"one team", GenerateScheduleInput{StartDate: "2024-01-01", MatchesPerDay: 1, TimeSlotInterval: 60}, ErrNotEnoughTeams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.scheduleService.GenerateSchedule(ctx, tournamentID, tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := env.scheduleService.GenerateSchedule(ctx, 9999, GenerateScheduleInput{StartDate: "2024-01-01", MatchesPerDay: 1, TimeSlotInterval: 60})
	require.ErrorIs(t, err, ErrTournamentNotFound)
	assert.Empty(t, env.publisher.Events())
}

type failingGenerator struct{}

func (failingGenerator) GenerateSchedule(context.Context, brackets.GenerateScheduleParams) ([]*brackets.Fixture, error) {
	return nil, errors.New("generator exploded")
}

func (failingGenerator) GetName() string { return "failing" }

func TestGenerateScheduleFailureKeepsExistingSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, _ := env.seedLeague(t, "A", "B", "C", "D")
	existing := env.generate(t, tournamentID)
	_, err := env.matchService.SubmitScore(ctx, existing[0].ID, 2, 1)
	require.NoError(t, err)
	before, err := env.standingsService.ComputeStandings(ctx, tournamentID, SourceSnapshot)
	require.NoError(t, err)

	svc := NewScheduleService(env.tx, env.tournaments, env.teams, env.matches, failingGenerator{},
		env.aggregate, env.publisher, env.logger, 3)
	_, err = svc.GenerateSchedule(ctx, tournamentID, GenerateScheduleInput{StartDate: "2024-01-01", MatchesPerDay: 1, TimeSlotInterval: 60})
	require.Error(t, err)

	matches, err := env.matches.ListByTournament(ctx, nil, tournamentID)
	require.NoError(t, err)
	assert.Len(t, matches, len(existing))
	after, err := env.standingsService.ComputeStandings(ctx, tournamentID, SourceSnapshot)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestClearSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, ids := env.seedLeague(t, "A", "B", "C", "D")
	matches := env.generate(t, tournamentID)
	_, err := env.matchService.SubmitScore(ctx, matches[0].ID, 1, 0)
	require.NoError(t, err)

	agg, err := env.scheduleService.ClearSchedule(ctx, tournamentID)
	require.NoError(t, err)
	assert.Empty(t, agg.Matches)
	assert.Len(t, agg.Teams, 4)
	for _, id := range ids {
		assert.Equal(t, models.TeamStats{}, env.team(t, id).TeamStats)
	}

	_, err = env.scheduleService.ClearSchedule(ctx, 9999)
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
