package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTeamInvalid       = errors.New("match team reference is invalid")
	ErrMatchTournamentInvalid = errors.New("match tournament reference is invalid")
	ErrMatchResultInvalid     = errors.New("match score and status are inconsistent")
	ErrMatchScheduleInvalid   = errors.New("match date or time is malformed")
)

type MatchRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateDetails(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error)
	CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error)
}

const matchColumns = `
	id, tournament_id, home_team_id, away_team_id, round,
	to_char(match_date, 'YYYY-MM-DD'), to_char(match_time, 'HH24:MI:SS'), venue,
	home_score, away_score, status, created_at, updated_at`

func scanMatch(row rowScanner, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.HomeTeamID, &m.AwayTeamID, &m.Round,
		&m.Date, &m.Time, &m.Venue,
		&m.HomeScore, &m.AwayScore, &m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.getOne(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.getOne(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresMatchRepository) getOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Match, error) {
	m := &models.Match{}
	if err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, mapConflict(fmt.Errorf("failed to scan match by id %d: %w", id, err))
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY round ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := scanMatch(rows, &m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, home_team_id, away_team_id, round, match_date, match_time, venue, status)
		VALUES ($1, $2, $3, $4, $5::date, $6::time, $7, $8)
		RETURNING id, created_at, updated_at`

	executor := r.getExecutor(exec)
	for _, m := range matches {
		err := executor.QueryRowContext(ctx, query,
			m.TournamentID, m.HomeTeamID, m.AwayTeamID, m.Round, m.Date, m.Time, m.Venue, m.Status,
		).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return r.handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET home_score = $1, away_score = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, m.HomeScore, m.AwayScore, m.Status, m.ID).Scan(&m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchNotFound
	}
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) UpdateDetails(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET match_date = $1::date, match_time = $2::time, venue = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, m.Date, m.Time, m.Venue, m.ID).Scan(&m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMatchNotFound
	}
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, mapConflict(fmt.Errorf("failed to delete matches for tournament %d: %w", tournamentID, err))
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE home_team_id = $1 OR away_team_id = $1`
	var n int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, teamID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count matches for team %d: %w", teamID, err)
	}
	return n, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := pqCode(err); ok {
		switch code {
		case pqForeignKeyViolation:
			switch constraint {
			case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
				return ErrMatchTeamInvalid
			case "matches_tournament_id_fkey":
				return ErrMatchTournamentInvalid
			}
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", ErrMatchResultInvalid, constraint)
		case pqInvalidDatetimeFormat, pqDatetimeFieldOverflow:
			return ErrMatchScheduleInvalid
		}
	}
	return mapConflict(err)
}
