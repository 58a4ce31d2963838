package standings

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/models"
)

func completed(id, home, away, hs, as int) models.Match {
	return models.Match{ID: id, HomeTeamID: home, AwayTeamID: away, HomeScore: &hs, AwayScore: &as, Status: models.MatchStatusCompleted}
}

func teamList(names ...string) []models.Team {
	teams := make([]models.Team, len(names))
	for i, n := range names {
		teams[i] = models.Team{ID: i + 1, Name: n}
	}
	return teams
}

func TestComputeIncludesTeamsWithoutMatches(t *testing.T) {
	teams := teamList("A", "B", "C")
	table := Compute(teams, []models.Match{completed(1, 1, 2, 2, 0)})

	require.Len(t, table, 3)
	assert.Equal(t, "A", table[0].TeamName)
	assert.Equal(t, 3, table[0].Points)
	assert.Equal(t, "C", table[1].TeamName)
	assert.Equal(t, models.TeamStats{}, table[1].TeamStats)
	assert.Equal(t, "B", table[2].TeamName)
	assert.Equal(t, -2, table[2].GoalDifference)
}

func TestComputeSkipsUnfinishedAndForeignMatches(t *testing.T) {
	teams := teamList("A", "B")
	hs := 5
	matches := []models.Match{
		{ID: 1, HomeTeamID: 1, AwayTeamID: 2, Status: models.MatchStatusScheduled},
		{ID: 2, HomeTeamID: 1, AwayTeamID: 2, HomeScore: &hs, Status: models.MatchStatusCompleted},
		completed(3, 1, 99, 4, 0),
	}

	table := Compute(teams, matches)
	for _, row := range table {
		assert.Equal(t, models.TeamStats{}, row.TeamStats, row.TeamName)
	}
}

func TestRankTieBreaks(t *testing.T) {
	table := []models.Standing{
		{TeamID: 1, TeamName: "low gd", TeamStats: models.TeamStats{Points: 6, GoalsFor: 9, GoalDifference: 1}},
		{TeamID: 2, TeamName: "high gd", TeamStats: models.TeamStats{Points: 6, GoalsFor: 4, GoalDifference: 3}},
		{TeamID: 3, TeamName: "more goals", TeamStats: models.TeamStats{Points: 6, GoalsFor: 10, GoalDifference: 1}},
		{TeamID: 4, TeamName: "leader", TeamStats: models.TeamStats{Points: 7}},
		{TeamID: 5, TeamName: "tied first", TeamStats: models.TeamStats{Points: 1, GoalsFor: 1}},
		{TeamID: 6, TeamName: "tied second", TeamStats: models.TeamStats{Points: 1, GoalsFor: 1}},
	}

	Rank(table)

	order := make([]int, len(table))
	for i, row := range table {
		order[i] = row.TeamID
	}
	assert.Equal(t, []int{4, 2, 3, 1, 5, 6}, order)
}

func TestComputeAgreesWithSnapshots(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		teams := teamList("A", "B", "C", "D", "E", "F")
		byID := make(map[int]*models.Team, len(teams))
		for i := range teams {
			byID[teams[i].ID] = &teams[i]
		}

		var matches []models.Match
		for i := 0; i < 20; i++ {
			home := rng.Intn(len(teams)) + 1
			away := rng.Intn(len(teams)) + 1
			if home == away {
				continue
			}
			m := completed(i+1, home, away, rng.Intn(5), rng.Intn(5))
			matches = append(matches, m)
			require.NoError(t, Adjust(byID[home], byID[away], *m.HomeScore, *m.AwayScore, Apply))
		}

		assert.Equal(t, Compute(teams, matches), FromSnapshots(teams))
		for _, team := range teams {
			assert.True(t, Consistent(team.TeamStats))
		}
	}
}
