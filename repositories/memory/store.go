// Package memory is a single-process implementation of the repositories
// interfaces. It enforces the same constraints as the Postgres schema and
// supports transactions on a private copy of the whole store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type Store struct {
	// txMu serializes transactions and writes made outside of them.
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
	now  func() time.Time
}

type state struct {
	seq           int
	tournaments   map[int]models.Tournament
	teams         map[int]models.Team
	players       map[int]models.Player
	matches       map[int]models.Match
	notifications map[int]models.Notification
	users         map[int]models.User
}

func NewStore() *Store {
	return &Store{
		data: state{
			tournaments:   make(map[int]models.Tournament),
			teams:         make(map[int]models.Team),
			players:       make(map[int]models.Player),
			matches:       make(map[int]models.Match),
			notifications: make(map[int]models.Notification),
			users:         make(map[int]models.User),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (st *state) nextID() int {
	st.seq++
	return st.seq
}

func (st state) clone() state {
	out := state{
		seq:           st.seq,
		tournaments:   make(map[int]models.Tournament, len(st.tournaments)),
		teams:         make(map[int]models.Team, len(st.teams)),
		players:       make(map[int]models.Player, len(st.players)),
		matches:       make(map[int]models.Match, len(st.matches)),
		notifications: make(map[int]models.Notification, len(st.notifications)),
		users:         make(map[int]models.User, len(st.users)),
	}
	for k, v := range st.tournaments {
		out.tournaments[k] = cloneTournament(v)
	}
	for k, v := range st.teams {
		out.teams[k] = cloneTeam(v)
	}
	for k, v := range st.players {
		out.players[k] = clonePlayer(v)
	}
	for k, v := range st.matches {
		out.matches[k] = cloneMatch(v)
	}
	for k, v := range st.notifications {
		out.notifications[k] = v
	}
	for k, v := range st.users {
		out.users[k] = cloneUser(v)
	}
	return out
}

// txExecutor is the executor handed to a transaction. It carries the
// transaction's private working copy; the SQL methods are never called.
type txExecutor struct {
	repositories.SQLExecutor
	work *state
}

// read returns the state visible to exec: the working copy inside a
// transaction, the committed state otherwise.
func (s *Store) read(exec repositories.SQLExecutor) (*state, func()) {
	if tx, ok := exec.(*txExecutor); ok {
		return tx.work, func() {}
	}
	s.mu.RLock()
	return &s.data, s.mu.RUnlock
}

// write returns the state a repository call may mutate. Outside a
// transaction it waits for open transactions so their commit cannot
// overwrite the change.
func (s *Store) write(exec repositories.SQLExecutor) (*state, func()) {
	if tx, ok := exec.(*txExecutor); ok {
		return tx.work, func() {}
	}
	s.txMu.Lock()
	s.mu.Lock()
	return &s.data, func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

type transactor struct {
	store *Store
}

// NewTransactor returns a Transactor that serializes transactions. Each one
// works on a private copy of the store that replaces the committed state only
// when fn succeeds, so other readers never see a partial transaction.
func NewTransactor(store *Store) repositories.Transactor {
	return &transactor{store: store}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.RLock()
	work := t.store.data.clone()
	t.store.mu.RUnlock()

	if err := fn(&txExecutor{work: &work}); err != nil {
		return err
	}

	t.store.mu.Lock()
	t.store.data = work
	t.store.mu.Unlock()
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTournament(t models.Tournament) models.Tournament {
	t.StartDate = clonePtr(t.StartDate)
	t.EndDate = clonePtr(t.EndDate)
	t.Teams, t.Matches, t.Notifications = nil, nil, nil
	return t
}

func cloneTeam(t models.Team) models.Team {
	t.ManagerName = clonePtr(t.ManagerName)
	t.ManagerEmail = clonePtr(t.ManagerEmail)
	t.ManagerUserID = clonePtr(t.ManagerUserID)
	t.LogoKey = clonePtr(t.LogoKey)
	t.LogoURL = nil
	t.Players = nil
	return t
}

func clonePlayer(p models.Player) models.Player {
	p.Number = clonePtr(p.Number)
	p.Position = clonePtr(p.Position)
	return p
}

func cloneMatch(m models.Match) models.Match {
	m.Date = clonePtr(m.Date)
	m.Time = clonePtr(m.Time)
	m.Venue = clonePtr(m.Venue)
	m.HomeScore = clonePtr(m.HomeScore)
	m.AwayScore = clonePtr(m.AwayScore)
	m.HomeTeam, m.AwayTeam = nil, nil
	return m
}

func cloneUser(u models.User) models.User {
	u.TeamID = clonePtr(u.TeamID)
	return u
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
