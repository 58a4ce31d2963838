package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrNotificationNotFound          = errors.New("notification not found")
	ErrNotificationTournamentInvalid = errors.New("notification tournament reference is invalid")
)

type NotificationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, notification *models.Notification) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Notification, error)
	// Delete removes a notification only if it belongs to the given tournament.
	Delete(ctx context.Context, exec SQLExecutor, tournamentID, id int) error
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresNotificationRepository) Create(ctx context.Context, exec SQLExecutor, n *models.Notification) error {
	query := `
		INSERT INTO notifications (tournament_id, message, priority)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, n.TournamentID, n.Message, n.Priority).Scan(&n.ID, &n.Timestamp)
	if err != nil {
		if code, constraint, ok := pqCode(err); ok && code == pqForeignKeyViolation && constraint == "notifications_tournament_id_fkey" {
			return ErrNotificationTournamentInvalid
		}
		return err
	}
	return nil
}

func (r *postgresNotificationRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Notification, error) {
	query := `
		SELECT id, tournament_id, message, priority, created_at
		FROM notifications
		WHERE tournament_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if scanErr := rows.Scan(&n.ID, &n.TournamentID, &n.Message, &n.Priority, &n.Timestamp); scanErr != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", scanErr)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notification rows iteration: %w", err)
	}
	return notifications, nil
}

func (r *postgresNotificationRepository) Delete(ctx context.Context, exec SQLExecutor, tournamentID, id int) error {
	query := `DELETE FROM notifications WHERE id = $1 AND tournament_id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, id, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete notification %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}
