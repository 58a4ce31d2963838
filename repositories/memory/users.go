package memory

import (
	"context"
	"strings"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repositories.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) emailTaken(st *state, email string, exceptID int) bool {
	for _, u := range st.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) checkTeam(st *state, teamID *int) error {
	if teamID == nil {
		return nil
	}
	if _, ok := st.teams[*teamID]; !ok {
		return repositories.ErrUserTeamInvalid
	}
	return nil
}

func (r *userRepository) Create(ctx context.Context, exec repositories.SQLExecutor, u *models.User) error {
	st, done := r.store.write(exec)
	defer done()

	if r.emailTaken(st, u.Email, 0) {
		return repositories.ErrUserEmailConflict
	}
	if err := r.checkTeam(st, u.TeamID); err != nil {
		return err
	}
	u.ID = st.nextID()
	u.CreatedAt = r.store.now()
	st.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	st, done := r.store.read(exec)
	defer done()

	u, ok := st.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, exec repositories.SQLExecutor, email string) (*models.User, error) {
	st, done := r.store.read(exec)
	defer done()

	for _, id := range sortedKeys(st.users) {
		if u := st.users[id]; strings.EqualFold(u.Email, email) {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *userRepository) Update(ctx context.Context, exec repositories.SQLExecutor, u *models.User) error {
	st, done := r.store.write(exec)
	defer done()

	existing, ok := st.users[u.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if r.emailTaken(st, u.Email, u.ID) {
		return repositories.ErrUserEmailConflict
	}
	if err := r.checkTeam(st, u.TeamID); err != nil {
		return err
	}
	u.CreatedAt = existing.CreatedAt
	st.users[u.ID] = cloneUser(*u)
	return nil
}
