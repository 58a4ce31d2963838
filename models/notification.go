package models

import "time"

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) Valid() bool {
	return p == PriorityNormal || p == PriorityUrgent
}

type Notification struct {
	ID           int                  `json:"id" db:"id"`
	TournamentID int                  `json:"tournament_id" db:"tournament_id"`
	Message      string               `json:"message" db:"message"`
	Priority     NotificationPriority `json:"priority" db:"priority"`
	Timestamp    time.Time            `json:"timestamp" db:"created_at"`
}
