package brackets

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

var (
	ErrNotEnoughTeams       = errors.New("not enough teams to generate a schedule (minimum 2)")
	ErrInvalidMatchesPerDay = errors.New("matches per day must be at least 1")
	ErrInvalidTimeSlot      = errors.New("time slot interval must be at least 1 minute")
)

type slotKind int

const (
	realTeam slotKind = iota
	bye
)

// slot is one position on the rotation circle: either a real team or the bye
// added to even out an odd team count.
type slot struct {
	kind   slotKind
	teamID int
}

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() ScheduleGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "Round Robin"
}

// GenerateSchedule pairs every team with every other team exactly once using
// the circle method and assigns kickoffs day by day.
// See https://en.wikipedia.org/wiki/Round-robin_tournament#Circle_method
func (g *RoundRobinGenerator) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*Fixture, error) {
	if len(params.Teams) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughTeams, len(params.Teams))
	}
	if params.MatchesPerDay < 1 {
		return nil, ErrInvalidMatchesPerDay
	}
	if params.TimeSlotInterval < time.Minute {
		return nil, ErrInvalidTimeSlot
	}

	ids := make([]int, len(params.Teams))
	for i, t := range params.Teams {
		ids[i] = t.ID
	}

	fixtures := pairRoundRobin(ids)
	assignKickoffs(fixtures, params.StartDate, params.MatchesPerDay, params.TimeSlotInterval)
	return fixtures, nil
}

func pairRoundRobin(teamIDs []int) []*Fixture {
	slots := make([]slot, 0, len(teamIDs)+1)
	for _, id := range teamIDs {
		slots = append(slots, slot{kind: realTeam, teamID: id})
	}
	if len(slots)%2 != 0 {
		slots = append(slots, slot{kind: bye})
	}

	size := len(slots)
	rounds := size - 1
	perRound := size / 2

	fixtures := make([]*Fixture, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	order := 0
	for round := 0; round < rounds; round++ {
		for i := 0; i < perRound; i++ {
			home, away := slots[i], slots[size-1-i]
			if home.kind == bye || away.kind == bye {
				continue
			}
			order++
			fixtures = append(fixtures, &Fixture{
				Round:      round + 1,
				Order:      order,
				HomeTeamID: home.teamID,
				AwayTeamID: away.teamID,
			})
		}
		rotate(slots)
	}
	return fixtures
}

// rotate moves the last slot to index 1. Index 0 is the fixed anchor.
func rotate(slots []slot) {
	last := slots[len(slots)-1]
	copy(slots[2:], slots[1:len(slots)-1])
	slots[1] = last
}

func assignKickoffs(fixtures []*Fixture, start time.Time, perDay int, interval time.Duration) {
	for i, f := range fixtures {
		day := start.AddDate(0, 0, i/perDay)
		f.KickoffAt = day.Add(time.Duration(i%perDay) * interval)
	}
}
