package models

import "time"

// TeamStats is the running statistics snapshot kept on every team row.
type TeamStats struct {
	Played         int `json:"played" db:"played"`
	Won            int `json:"won" db:"won"`
	Drawn          int `json:"drawn" db:"drawn"`
	Lost           int `json:"lost" db:"lost"`
	GoalsFor       int `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int `json:"goals_against" db:"goals_against"`
	GoalDifference int `json:"goal_difference" db:"goal_difference"`
	Points         int `json:"points" db:"points"`
}

type Team struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	Name          string    `json:"name" db:"name"`
	ManagerName   *string   `json:"manager_name,omitempty" db:"manager_name"`
	ManagerEmail  *string   `json:"manager_email,omitempty" db:"manager_email"`
	ManagerUserID *int      `json:"manager_user_id,omitempty" db:"manager_user_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	TeamStats

	Players []Player `json:"players,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

// TeamRef is the resolved team reference embedded in a match.
type TeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
