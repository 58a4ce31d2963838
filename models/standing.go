package models

// Standing is a derived, ranked row of the league table. It is never persisted.
type Standing struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	TeamStats
}
