package memory

import (
	"context"
	"time"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type tournamentRepository struct {
	store *Store
}

func NewTournamentRepository(store *Store) repositories.TournamentRepository {
	return &tournamentRepository{store: store}
}

func (r *tournamentRepository) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	if err := checkTournamentDates(t); err != nil {
		return err
	}
	st, done := r.store.write(exec)
	defer done()

	t.ID = st.nextID()
	t.CreatedAt = r.store.now()
	t.UpdatedAt = t.CreatedAt
	st.tournaments[t.ID] = cloneTournament(*t)
	return nil
}

func (r *tournamentRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	st, done := r.store.read(exec)
	defer done()

	t, ok := st.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := cloneTournament(t)
	return &out, nil
}

func (r *tournamentRepository) LockForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *tournamentRepository) Update(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	if err := checkTournamentDates(t); err != nil {
		return err
	}
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.tournaments[t.ID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.store.now()
	st.tournaments[t.ID] = cloneTournament(*t)
	return nil
}

func checkTournamentDates(t *models.Tournament) error {
	var start, end time.Time
	var err error
	if t.StartDate != nil {
		if start, err = time.Parse(time.DateOnly, *t.StartDate); err != nil {
			return repositories.ErrTournamentInvalidDate
		}
	}
	if t.EndDate != nil {
		if end, err = time.Parse(time.DateOnly, *t.EndDate); err != nil {
			return repositories.ErrTournamentInvalidDate
		}
	}
	if t.StartDate != nil && t.EndDate != nil && end.Before(start) {
		return repositories.ErrTournamentInvalidDateRange
	}
	return nil
}
