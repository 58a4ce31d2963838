package standings

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

// Factor scales the effect of a match result on the team snapshots.
type Factor int

const (
	Apply  Factor = 1
	Revert Factor = -1
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// ErrIntegrity is returned when an adjustment would break the snapshot invariants.
var ErrIntegrity = errors.New("team statistics integrity violation")

// Adjust applies (factor=Apply) or reverts (factor=Revert) one match result on
// both participant snapshots in place. Nothing is mutated when an error is returned.
func Adjust(home, away *models.Team, homeScore, awayScore int, factor Factor) error {
	if home == nil || away == nil {
		return fmt.Errorf("%w: match is missing a team reference", ErrIntegrity)
	}
	if factor != Apply && factor != Revert {
		return fmt.Errorf("%w: unsupported factor %d", ErrIntegrity, factor)
	}
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("%w: negative score %d-%d", ErrIntegrity, homeScore, awayScore)
	}

	adjustStats(&home.TeamStats, &away.TeamStats, homeScore, awayScore, int(factor))
	return nil
}

// adjustStats is shared with the from-scratch calculator so both derivations
// use the same three-way comparison.
func adjustStats(home, away *models.TeamStats, homeScore, awayScore, f int) {
	home.Played += f
	away.Played += f

	home.GoalsFor += homeScore * f
	home.GoalsAgainst += awayScore * f
	away.GoalsFor += awayScore * f
	away.GoalsAgainst += homeScore * f

	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst

	switch {
	case homeScore > awayScore:
		home.Won += f
		home.Points += pointsForWin * f
		away.Lost += f
	case homeScore < awayScore:
		away.Won += f
		away.Points += pointsForWin * f
		home.Lost += f
	default:
		home.Drawn += f
		away.Drawn += f
		home.Points += pointsForDraw * f
		away.Points += pointsForDraw * f
	}
}

// Consistent reports whether a snapshot satisfies the played, goal difference
// and points invariants.
func Consistent(s models.TeamStats) bool {
	return s.Played == s.Won+s.Drawn+s.Lost &&
		s.GoalDifference == s.GoalsFor-s.GoalsAgainst &&
		s.Points == pointsForWin*s.Won+pointsForDraw*s.Drawn &&
		s.Played >= 0 && s.Won >= 0 && s.Drawn >= 0 && s.Lost >= 0 &&
		s.GoalsFor >= 0 && s.GoalsAgainst >= 0
}
