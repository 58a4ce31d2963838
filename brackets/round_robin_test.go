package brackets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/models"
)

func teams(n int) []models.Team {
	out := make([]models.Team, n)
	for i := range out {
		out[i] = models.Team{ID: (i + 1) * 10, Name: string(rune('A' + i))}
	}
	return out
}

func generate(t *testing.T, n, perDay int, interval time.Duration, start time.Time) []*Fixture {
	t.Helper()
	fixtures, err := NewRoundRobinGenerator().GenerateSchedule(context.Background(), GenerateScheduleParams{
		Teams:            teams(n),
		StartDate:        start,
		MatchesPerDay:    perDay,
		TimeSlotInterval: interval,
	})
	require.NoError(t, err)
	return fixtures
}

func TestRoundRobinCompleteness(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for n := 2; n <= 11; n++ {
		fixtures := generate(t, n, 3, time.Hour, start)
		require.Len(t, fixtures, n*(n-1)/2, "teams=%d", n)

		valid := make(map[int]bool, n)
		for _, team := range teams(n) {
			valid[team.ID] = true
		}

		seen := make(map[[2]int]bool)
		for _, f := range fixtures {
			assert.NotEqual(t, f.HomeTeamID, f.AwayTeamID)
			assert.True(t, valid[f.HomeTeamID], "unknown home team %d", f.HomeTeamID)
			assert.True(t, valid[f.AwayTeamID], "unknown away team %d", f.AwayTeamID)

			key := [2]int{f.HomeTeamID, f.AwayTeamID}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			assert.False(t, seen[key], "pair %v scheduled twice", key)
			seen[key] = true
		}
	}
}

func TestRoundRobinCircleOrder(t *testing.T) {
	fixtures := generate(t, 4, 10, time.Hour, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var pairs [][2]int
	var rounds []int
	for _, f := range fixtures {
		pairs = append(pairs, [2]int{f.HomeTeamID, f.AwayTeamID})
		rounds = append(rounds, f.Round)
	}
	assert.Equal(t, [][2]int{{10, 40}, {20, 30}, {10, 30}, {40, 20}, {10, 20}, {30, 40}}, pairs)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 3}, rounds)
}

func TestRoundRobinOddTeamsDropBye(t *testing.T) {
	fixtures := generate(t, 3, 10, time.Hour, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.Len(t, fixtures, 3)
	for _, f := range fixtures {
		assert.NotZero(t, f.HomeTeamID)
		assert.NotZero(t, f.AwayTeamID)
	}
}

func TestRoundRobinDayPacking(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	fixtures := generate(t, 6, 4, 45*time.Minute, start)

	for i, f := range fixtures {
		wantDay := start.AddDate(0, 0, i/4)
		want := wantDay.Add(time.Duration(i%4) * 45 * time.Minute)
		assert.Equal(t, want, f.KickoffAt, "fixture %d", i)
	}
}

func TestRoundRobinFourTeamsScenario(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	fixtures := generate(t, 4, 2, 60*time.Minute, start)

	require.Len(t, fixtures, 6)
	perDay := map[string]int{}
	for _, f := range fixtures {
		perDay[f.Date()]++
	}
	assert.Equal(t, map[string]int{"2025-06-01": 2, "2025-06-02": 2, "2025-06-03": 2}, perDay)
	assert.Equal(t, "10:00:00", fixtures[0].Time())
	assert.Equal(t, "11:00:00", fixtures[1].Time())
	assert.Equal(t, "10:00:00", fixtures[2].Time())
}

func TestRoundRobinRejectsInvalidInput(t *testing.T) {
	gen := NewRoundRobinGenerator()
	ctx := context.Background()

	_, err := gen.GenerateSchedule(ctx, GenerateScheduleParams{Teams: teams(1), MatchesPerDay: 1, TimeSlotInterval: time.Hour})
	assert.ErrorIs(t, err, ErrNotEnoughTeams)

	_, err = gen.GenerateSchedule(ctx, GenerateScheduleParams{Teams: teams(4), MatchesPerDay: 0, TimeSlotInterval: time.Hour})
	assert.ErrorIs(t, err, ErrInvalidMatchesPerDay)

	_, err = gen.GenerateSchedule(ctx, GenerateScheduleParams{Teams: teams(4), MatchesPerDay: 2, TimeSlotInterval: time.Second})
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestRoundRobinIsDeterministic(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, generate(t, 7, 3, time.Hour, start), generate(t, 7, 3, time.Hour, start))
}
