package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusDraft     TournamentStatus = "draft"
	TournamentStatusLive      TournamentStatus = "live"
	TournamentStatusCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentStatusDraft, TournamentStatusLive, TournamentStatusCompleted:
		return true
	}
	return false
}

// Tournament is the aggregate root. Teams, Matches and Notifications are only
// populated by the aggregate read model.
type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Format    string           `json:"format" db:"format"`
	StartDate *string          `json:"start_date,omitempty" db:"start_date"`
	EndDate   *string          `json:"end_date,omitempty" db:"end_date"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`

	Teams         []Team         `json:"teams" db:"-"`
	Matches       []Match        `json:"matches" db:"-"`
	Notifications []Notification `json:"notifications" db:"-"`
}
