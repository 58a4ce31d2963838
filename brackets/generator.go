package brackets

import (
	"context"
	"time"

	"github.com/Dosada05/tournament-manager/models"
)

type GenerateScheduleParams struct {
	TournamentID     int
	Teams            []models.Team
	StartDate        time.Time
	MatchesPerDay    int
	TimeSlotInterval time.Duration
}

// Fixture is a generated pairing with its assigned kickoff.
type Fixture struct {
	Round      int
	Order      int
	HomeTeamID int
	AwayTeamID int
	KickoffAt  time.Time
}

// Date returns the kickoff calendar day as YYYY-MM-DD.
func (f *Fixture) Date() string {
	return f.KickoffAt.Format(DateLayout)
}

// Time returns the kickoff time of day as HH:MM:SS.
func (f *Fixture) Time() string {
	return f.KickoffAt.Format(TimeLayout)
}

type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*Fixture, error)

	GetName() string
}
