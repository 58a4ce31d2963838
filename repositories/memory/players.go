package memory

import (
	"context"
	"sort"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type playerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) repositories.PlayerRepository {
	return &playerRepository{store: store}
}

func (r *playerRepository) numberTaken(st *state, teamID int, number *int, exceptID int) bool {
	if number == nil {
		return false
	}
	for _, p := range st.players {
		if p.ID != exceptID && p.TeamID == teamID && p.Number != nil && *p.Number == *number {
			return true
		}
	}
	return false
}

func (r *playerRepository) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	st, done := r.store.write(exec)
	defer done()

	if _, ok := st.teams[p.TeamID]; !ok {
		return repositories.ErrPlayerTeamInvalid
	}
	if r.numberTaken(st, p.TeamID, p.Number, 0) {
		return repositories.ErrPlayerNumberConflict
	}
	p.ID = st.nextID()
	p.CreatedAt = r.store.now()
	p.UpdatedAt = p.CreatedAt
	st.players[p.ID] = clonePlayer(*p)
	return nil
}

func (r *playerRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	st, done := r.store.read(exec)
	defer done()

	p, ok := st.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	out := clonePlayer(p)
	return &out, nil
}

func (r *playerRepository) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Player, error) {
	st, done := r.store.read(exec)
	defer done()

	players := make([]models.Player, 0)
	for _, p := range st.players {
		if t, ok := st.teams[p.TeamID]; ok && t.TournamentID == tournamentID {
			players = append(players, clonePlayer(p))
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].TeamID != players[j].TeamID {
			return players[i].TeamID < players[j].TeamID
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (r *playerRepository) Update(ctx context.Context, exec repositories.SQLExecutor, p *models.Player) error {
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.players[p.ID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	if r.numberTaken(st, existing.TeamID, p.Number, p.ID) {
		return repositories.ErrPlayerNumberConflict
	}
	existing.Name = p.Name
	existing.Number = clonePtr(p.Number)
	existing.Position = clonePtr(p.Position)
	existing.UpdatedAt = r.store.now()
	p.UpdatedAt = existing.UpdatedAt
	st.players[p.ID] = existing
	return nil
}

func (r *playerRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	st, done := r.store.write(exec)
	defer done()

	if _, ok := st.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(st.players, id)
	return nil
}
