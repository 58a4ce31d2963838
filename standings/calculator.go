// Package standings derives the league table, either from scratch over the
// completed matches or from the running team snapshots, and maintains those
// snapshots incrementally through Adjust.
package standings

import (
	"sort"

	"github.com/Dosada05/tournament-manager/models"
)

// Compute builds the standings from scratch. Teams without completed matches
// appear with zeroed stats. Matches that are not completed, lack a score or
// reference a team outside the list are skipped.
func Compute(teams []models.Team, matches []models.Match) []models.Standing {
	table := make([]models.Standing, len(teams))
	index := make(map[int]*models.Standing, len(teams))
	for i, t := range teams {
		table[i] = models.Standing{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = &table[i]
	}

	for i := range matches {
		m := &matches[i]
		if !m.HasResult() {
			continue
		}
		home, okHome := index[m.HomeTeamID]
		away, okAway := index[m.AwayTeamID]
		if !okHome || !okAway || m.HomeTeamID == m.AwayTeamID {
			continue
		}
		adjustStats(&home.TeamStats, &away.TeamStats, *m.HomeScore, *m.AwayScore, 1)
	}

	for i := range table {
		table[i].GoalDifference = table[i].GoalsFor - table[i].GoalsAgainst
	}

	Rank(table)
	return table
}

// FromSnapshots reads the standings off the incrementally maintained team rows.
func FromSnapshots(teams []models.Team) []models.Standing {
	table := make([]models.Standing, len(teams))
	for i, t := range teams {
		table[i] = models.Standing{TeamID: t.ID, TeamName: t.Name, TeamStats: t.TeamStats}
	}
	Rank(table)
	return table
}

// Rank orders the table by points, then goal difference, then goals for, all
// descending. Rows equal on every key keep their input order.
func Rank(table []models.Standing) {
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
}
