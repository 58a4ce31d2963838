package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type matchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) repositories.MatchRepository {
	return &matchRepository{store: store}
}

// checkResult mirrors the matches table CHECK constraints.
func checkResult(m *models.Match) error {
	if (m.HomeScore == nil) != (m.AwayScore == nil) {
		return fmt.Errorf("%w: only one score set", repositories.ErrMatchResultInvalid)
	}
	if m.HomeScore != nil && (*m.HomeScore < 0 || *m.AwayScore < 0) {
		return fmt.Errorf("%w: negative score", repositories.ErrMatchResultInvalid)
	}
	if (m.Status == models.MatchStatusCompleted) != (m.HomeScore != nil) {
		return fmt.Errorf("%w: completed status requires scores", repositories.ErrMatchResultInvalid)
	}
	return nil
}

func checkSchedule(m *models.Match) error {
	if m.Date != nil {
		if _, err := time.Parse(time.DateOnly, *m.Date); err != nil {
			return repositories.ErrMatchScheduleInvalid
		}
	}
	if m.Time != nil {
		if _, err := time.Parse(time.TimeOnly, *m.Time); err != nil {
			return repositories.ErrMatchScheduleInvalid
		}
	}
	return nil
}

func (r *matchRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	st, done := r.store.read(exec)
	defer done()

	m, ok := st.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	out := cloneMatch(m)
	return &out, nil
}

// GetByIDForUpdate relies on the transactor serializing transactions.
func (r *matchRepository) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *matchRepository) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	st, done := r.store.read(exec)
	defer done()

	matches := make([]models.Match, 0)
	for _, m := range st.matches {
		if m.TournamentID == tournamentID {
			matches = append(matches, cloneMatch(m))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].ID < matches[j].ID
	})
	return matches, nil
}

func (r *matchRepository) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, matches []*models.Match) error {
	st, done := r.store.write(exec)
	defer done()

	for _, m := range matches {
		if _, ok := st.tournaments[m.TournamentID]; !ok {
			return repositories.ErrMatchTournamentInvalid
		}
		for _, teamID := range []int{m.HomeTeamID, m.AwayTeamID} {
			if _, ok := st.teams[teamID]; !ok {
				return repositories.ErrMatchTeamInvalid
			}
		}
		if err := checkResult(m); err != nil {
			return err
		}
		if err := checkSchedule(m); err != nil {
			return err
		}
		m.ID = st.nextID()
		m.CreatedAt = r.store.now()
		m.UpdatedAt = m.CreatedAt
		st.matches[m.ID] = cloneMatch(*m)
	}
	return nil
}

func (r *matchRepository) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	if err := checkResult(m); err != nil {
		return err
	}
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	existing.HomeScore = clonePtr(m.HomeScore)
	existing.AwayScore = clonePtr(m.AwayScore)
	existing.Status = m.Status
	existing.UpdatedAt = r.store.now()
	m.UpdatedAt = existing.UpdatedAt
	st.matches[m.ID] = existing
	return nil
}

func (r *matchRepository) UpdateDetails(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	if err := checkSchedule(m); err != nil {
		return err
	}
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	existing.Date = clonePtr(m.Date)
	existing.Time = clonePtr(m.Time)
	existing.Venue = clonePtr(m.Venue)
	existing.UpdatedAt = r.store.now()
	m.UpdatedAt = existing.UpdatedAt
	st.matches[m.ID] = existing
	return nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	existing.Status = status
	if err := checkResult(&existing); err != nil {
		return err
	}
	existing.UpdatedAt = r.store.now()
	st.matches[id] = existing
	return nil
}

func (r *matchRepository) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int64, error) {
	st, done := r.store.write(exec)
	defer done()

	var n int64
	for id, m := range st.matches {
		if m.TournamentID == tournamentID {
			delete(st.matches, id)
			n++
		}
	}
	return n, nil
}

func (r *matchRepository) CountByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int) (int, error) {
	st, done := r.store.read(exec)
	defer done()

	n := 0
	for _, m := range st.matches {
		if m.HomeTeamID == teamID || m.AwayTeamID == teamID {
			n++
		}
	}
	return n, nil
}
