package memory

import (
	"context"
	"sort"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type notificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) repositories.NotificationRepository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) Create(ctx context.Context, exec repositories.SQLExecutor, n *models.Notification) error {
	st, done := r.store.write(exec)
	defer done()

	if _, ok := st.tournaments[n.TournamentID]; !ok {
		return repositories.ErrNotificationTournamentInvalid
	}
	n.ID = st.nextID()
	n.Timestamp = r.store.now()
	st.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepository) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]models.Notification, error) {
	st, done := r.store.read(exec)
	defer done()

	out := make([]models.Notification, 0)
	for _, n := range st.notifications {
		if n.TournamentID == tournamentID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *notificationRepository) Delete(ctx context.Context, exec repositories.SQLExecutor, tournamentID, id int) error {
	st, done := r.store.write(exec)
	defer done()

	n, ok := st.notifications[id]
	if !ok || n.TournamentID != tournamentID {
		return repositories.ErrNotificationNotFound
	}
	delete(st.notifications, id)
	return nil
}
