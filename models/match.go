package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusPostponed  MatchStatus = "postponed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusInProgress, MatchStatusCompleted, MatchStatusPostponed:
		return true
	}
	return false
}

// Match is a single fixture between two teams of the same tournament.
// Date is stored as YYYY-MM-DD and Time as HH:MM:SS.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	HomeTeamID   int         `json:"home_team_id" db:"home_team_id"`
	AwayTeamID   int         `json:"away_team_id" db:"away_team_id"`
	Round        int         `json:"round" db:"round"`
	Date         *string     `json:"date,omitempty" db:"match_date"`
	Time         *string     `json:"time,omitempty" db:"match_time"`
	Venue        *string     `json:"venue,omitempty" db:"venue"`
	HomeScore    *int        `json:"home_score" db:"home_score"`
	AwayScore    *int        `json:"away_score" db:"away_score"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	HomeTeam *TeamRef `json:"home_team,omitempty" db:"-"`
	AwayTeam *TeamRef `json:"away_team,omitempty" db:"-"`
}

// HasResult reports whether the match carries a completed result.
func (m *Match) HasResult() bool {
	return m.Status == MatchStatusCompleted && m.HomeScore != nil && m.AwayScore != nil
}
