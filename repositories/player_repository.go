package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerTeamInvalid    = errors.New("player team reference is invalid")
	ErrPlayerNumberConflict = errors.New("shirt number already taken in this team")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	query := `
		INSERT INTO players (team_id, name, number, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.TeamID, p.Name, p.Number, p.Position,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `
		SELECT id, team_id, name, number, position, created_at, updated_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TeamID, &p.Name, &p.Number, &p.Position, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Player, error) {
	query := `
		SELECT p.id, p.team_id, p.name, p.number, p.position, p.created_at, p.updated_at
		FROM players p
		JOIN teams t ON t.id = p.team_id
		WHERE t.tournament_id = $1
		ORDER BY p.team_id ASC, p.id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(
			&p.ID, &p.TeamID, &p.Name, &p.Number, &p.Position, &p.CreatedAt, &p.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	query := `
		UPDATE players SET name = $1, number = $2, position = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, p.Name, p.Number, p.Position, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlayerNotFound
	}
	return r.handlePlayerError(err)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `DELETE FROM players WHERE id = $1`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, id)
	if err != nil {
		return r.handlePlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		switch {
		case code == pqForeignKeyViolation && constraint == "players_team_id_fkey":
			return ErrPlayerTeamInvalid
		case code == pqUniqueViolation && constraint == "players_team_id_number_key":
			return ErrPlayerNumberConflict
		}
	}
	return mapConflict(err)
}
