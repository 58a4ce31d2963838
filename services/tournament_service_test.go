package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
)

func TestCreateTournamentDefaults(t *testing.T) {
	env := newTestEnv(t)

	agg, err := env.tournamentService.CreateTournament(context.Background(), CreateTournamentInput{
		Name:      " Summer Cup ",
		StartDate: strPtr("2024-06-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Summer Cup", agg.Name)
	assert.Equal(t, DefaultTournamentFormat, agg.Format)
	assert.Equal(t, models.TournamentStatusDraft, agg.Status)
	assert.Equal(t, "2024-06-01", *agg.StartDate)
	assert.Nil(t, agg.EndDate)
	assert.NotNil(t, agg.Teams)
	assert.NotNil(t, agg.Matches)
	assert.NotNil(t, agg.Notifications)

	_, err = env.tournamentService.CreateTournament(context.Background(), CreateTournamentInput{Name: ""})
	require.ErrorIs(t, err, ErrTournamentNameRequired)
}

func TestUpdateTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, _ := env.seedLeague(t, "Lions")

	live := models.TournamentStatusLive
	agg, err := env.tournamentService.UpdateTournament(ctx, tournamentID, UpdateTournamentInput{
		Name:      strPtr("Autumn League"),
		StartDate: strPtr("2024-09-01"),
		EndDate:   strPtr("2024-11-30"),
		Status:    &live,
	})
	require.NoError(t, err)
	assert.Equal(t, "Autumn League", agg.Name)
	assert.Equal(t, live, agg.Status)
	assert.Equal(t, "2024-11-30", *agg.EndDate)
	require.Len(t, agg.Teams, 1)
	assert.Equal(t, []string{brackets.EventTournamentUpdated}, env.eventTypes())

	_, err = env.tournamentService.UpdateTournament(ctx, tournamentID, UpdateTournamentInput{EndDate: strPtr("2024-08-01")})
	require.ErrorIs(t, err, ErrTournamentInvalidDateRange)

	bad := models.TournamentStatus("paused")
	_, err = env.tournamentService.UpdateTournament(ctx, tournamentID, UpdateTournamentInput{Status: &bad})
	require.ErrorIs(t, err, ErrTournamentInvalidStatus)

	_, err = env.tournamentService.UpdateTournament(ctx, tournamentID, UpdateTournamentInput{StartDate: strPtr("next week")})
	require.ErrorIs(t, err, ErrTournamentInvalidDate)

	_, err = env.tournamentService.UpdateTournament(ctx, 9999, UpdateTournamentInput{Name: strPtr("X")})
	require.ErrorIs(t, err, ErrTournamentNotFound)

	stored, err := env.tournamentService.GetTournament(ctx, tournamentID)
	require.NoError(t, err)
	assert.Equal(t, "2024-09-01", *stored.StartDate)
}

func TestGetTournamentNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.tournamentService.GetTournament(context.Background(), 42)
	require.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestComputeStandingsSources(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournamentID, _ := env.seedLeague(t, "A", "B", "C")
	matches := env.generate(t, tournamentID)
	_, err := env.matchService.SubmitScore(ctx, matches[0].ID, 2, 0)
	require.NoError(t, err)

	table, err := env.standingsService.ComputeStandings(ctx, tournamentID, "")
	require.NoError(t, err)
	require.Len(t, table, 3)
	assert.Equal(t, matches[0].HomeTeamID, table[0].TeamID)
	assert.Equal(t, 3, table[0].Points)

	_, err = env.standingsService.ComputeStandings(ctx, tournamentID, "elo")
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.standingsService.ComputeStandings(ctx, 9999, SourceSnapshot)
	require.ErrorIs(t, err, ErrTournamentNotFound)
}
