package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/standings"
)

type teamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) repositories.TeamRepository {
	return &teamRepository{store: store}
}

func (r *teamRepository) nameTaken(st *state, tournamentID int, name string, exceptID int) bool {
	for _, t := range st.teams {
		if t.ID != exceptID && t.TournamentID == tournamentID && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func (r *teamRepository) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Team) error {
	st, done := r.store.write(exec)
	defer done()

	if _, ok := st.tournaments[t.TournamentID]; !ok {
		return repositories.ErrTeamTournamentInvalid
	}
	if r.nameTaken(st, t.TournamentID, t.Name, 0) {
		return repositories.ErrTeamNameConflict
	}

	t.ID = st.nextID()
	t.TeamStats = models.TeamStats{}
	t.CreatedAt = r.store.now()
	t.UpdatedAt = t.CreatedAt
	st.teams[t.ID] = cloneTeam(*t)
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	st, done := r.store.read(exec)
	defer done()

	t, ok := st.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	out := cloneTeam(t)
	return &out, nil
}

func (r *teamRepository) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
	st, done := r.store.read(exec)
	defer done()

	teams := make([]models.Team, 0)
	for _, id := range sortedKeys(st.teams) {
		if t := st.teams[id]; t.TournamentID == tournamentID {
			teams = append(teams, cloneTeam(t))
		}
	}
	return teams, nil
}

func (r *teamRepository) LockForUpdate(ctx context.Context, exec repositories.SQLExecutor, ids ...int) ([]*models.Team, error) {
	st, done := r.store.read(exec)
	defer done()

	seen := make(map[int]bool, len(ids))
	teams := make([]*models.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := st.teams[id]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", repositories.ErrTeamNotFound, id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out := cloneTeam(t)
		teams = append(teams, &out)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, exec repositories.SQLExecutor, t *models.Team) error {
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.teams[t.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	if r.nameTaken(st, existing.TournamentID, t.Name, t.ID) {
		return repositories.ErrTeamNameConflict
	}
	existing.Name = t.Name
	existing.ManagerName = clonePtr(t.ManagerName)
	existing.ManagerEmail = clonePtr(t.ManagerEmail)
	existing.ManagerUserID = clonePtr(t.ManagerUserID)
	existing.UpdatedAt = r.store.now()
	t.UpdatedAt = existing.UpdatedAt
	st.teams[t.ID] = existing
	return nil
}

func (r *teamRepository) UpdateStats(ctx context.Context, exec repositories.SQLExecutor, t *models.Team) error {
	if !standings.Consistent(t.TeamStats) {
		return fmt.Errorf("%w: team %d", repositories.ErrTeamStatsInvalid, t.ID)
	}
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.teams[t.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	existing.TeamStats = t.TeamStats
	existing.UpdatedAt = r.store.now()
	st.teams[t.ID] = existing
	return nil
}

func (r *teamRepository) ResetStatsByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	st, done := r.store.write(exec)
	defer done()

	now := r.store.now()
	for id, t := range st.teams {
		if t.TournamentID == tournamentID {
			t.TeamStats = models.TeamStats{}
			t.UpdatedAt = now
			st.teams[id] = t
		}
	}
	return nil
}

func (r *teamRepository) UpdateLogoKey(ctx context.Context, exec repositories.SQLExecutor, id int, logoKey *string) error {
	st, done := r.store.write(exec)
	defer done()

	t, ok := st.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = clonePtr(logoKey)
	t.UpdatedAt = r.store.now()
	st.teams[id] = t
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	st, done := r.store.write(exec)
	defer done()

	if _, ok := st.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	for _, m := range st.matches {
		if m.HomeTeamID == id || m.AwayTeamID == id {
			return repositories.ErrTeamInUse
		}
	}
	for pid, p := range st.players {
		if p.TeamID == id {
			delete(st.players, pid)
		}
	}
	for uid, u := range st.users {
		if u.TeamID != nil && *u.TeamID == id {
			u.TeamID = nil
			st.users[uid] = u
		}
	}
	delete(st.teams, id)
	return nil
}
