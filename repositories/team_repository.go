package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name already exists in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament reference is invalid")
	ErrTeamInUse             = errors.New("team is referenced by matches")
	ErrTeamStatsInvalid      = errors.New("team statistics violate table constraints")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error)
	// LockForUpdate locks the given team rows in ascending id order and returns
	// them in that order.
	LockForUpdate(ctx context.Context, exec SQLExecutor, ids ...int) ([]*models.Team, error)
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	UpdateStats(ctx context.Context, exec SQLExecutor, team *models.Team) error
	ResetStatsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

const teamColumns = `
	id, tournament_id, name, manager_name, manager_email, manager_user_id, logo_key,
	played, won, drawn, lost, goals_for, goals_against, goal_difference, points,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTeam(row rowScanner, t *models.Team) error {
	return row.Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.ManagerName, &t.ManagerEmail, &t.ManagerUserID, &t.LogoKey,
		&t.Played, &t.Won, &t.Drawn, &t.Lost, &t.GoalsFor, &t.GoalsAgainst, &t.GoalDifference, &t.Points,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, name, manager_name, manager_email, manager_user_id, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.TournamentID, t.Name, t.ManagerName, t.ManagerEmail, t.ManagerUserID, t.LogoKey,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	t := &models.Team{}
	if err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE tournament_id = $1 ORDER BY id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := scanTeam(rows, &t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) LockForUpdate(ctx context.Context, exec SQLExecutor, ids ...int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY id ASC FOR UPDATE`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, mapConflict(fmt.Errorf("failed to lock teams %v: %w", ids, err))
	}
	defer rows.Close()

	found := make(map[int]bool, len(ids))
	teams := make([]*models.Team, 0, len(ids))
	for rows.Next() {
		t := &models.Team{}
		if scanErr := scanTeam(rows, t); scanErr != nil {
			return nil, fmt.Errorf("failed to scan locked team row: %w", scanErr)
		}
		found[t.ID] = true
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, mapConflict(fmt.Errorf("error during locked team rows iteration: %w", err))
	}
	for _, id := range ids {
		if !found[id] {
			return nil, fmt.Errorf("%w: id %d", ErrTeamNotFound, id)
		}
	}
	return teams, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			manager_name = $2,
			manager_email = $3,
			manager_user_id = $4,
			updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		t.Name, t.ManagerName, t.ManagerEmail, t.ManagerUserID, t.ID,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTeamNotFound
	}
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) UpdateStats(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	query := `
		UPDATE teams SET
			played = $1, won = $2, drawn = $3, lost = $4,
			goals_for = $5, goals_against = $6, goal_difference = $7, points = $8,
			updated_at = NOW()
		WHERE id = $9`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		t.Played, t.Won, t.Drawn, t.Lost, t.GoalsFor, t.GoalsAgainst, t.GoalDifference, t.Points, t.ID,
	)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) ResetStatsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `
		UPDATE teams SET
			played = 0, won = 0, drawn = 0, lost = 0,
			goals_for = 0, goals_against = 0, goal_difference = 0, points = 0,
			updated_at = NOW()
		WHERE tournament_id = $1`

	if _, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID); err != nil {
		return mapConflict(fmt.Errorf("failed to reset team stats for tournament %d: %w", tournamentID, err))
	}
	return nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update team logo key: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM teams WHERE id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		switch code {
		case pqUniqueViolation:
			if constraint == "teams_tournament_id_name_key" {
				return ErrTeamNameConflict
			}
		case pqForeignKeyViolation:
			switch constraint {
			case "teams_tournament_id_fkey":
				return ErrTeamTournamentInvalid
			case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
				return ErrTeamInUse
			}
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrTeamStatsInvalid, constraint)
		}
	}
	return mapConflict(err)
}
