package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

func seedTeams(t *testing.T, store *Store, names ...string) (int, []int) {
	t.Helper()
	ctx := context.Background()
	tournament := &models.Tournament{Name: "Cup", Format: "Round Robin", Status: models.TournamentStatusDraft}
	require.NoError(t, NewTournamentRepository(store).Create(ctx, nil, tournament))

	ids := make([]int, 0, len(names))
	teams := NewTeamRepository(store)
	for _, name := range names {
		team := &models.Team{TournamentID: tournament.ID, Name: name}
		require.NoError(t, teams.Create(ctx, nil, team))
		ids = append(ids, team.ID)
	}
	return tournament.ID, ids
}

func TestTransactorRollsBackOnError(t *testing.T) {
	store := NewStore()
	_, ids := seedTeams(t, store, "Lions", "Tigers")
	teams := NewTeamRepository(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := NewTransactor(store).WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		locked, err := teams.LockForUpdate(ctx, exec, ids[1], ids[0])
		require.NoError(t, err)
		locked[0].TeamStats = models.TeamStats{Played: 1, Won: 1, GoalsFor: 2, GoalDifference: 2, Points: 3}
		require.NoError(t, teams.UpdateStats(ctx, exec, locked[0]))
		return boom
	})
	require.ErrorIs(t, err, boom)

	team, err := teams.GetByID(ctx, nil, ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.TeamStats{}, team.TeamStats)
}

func TestTransactorRollsBackOnPanic(t *testing.T) {
	store := NewStore()
	tournamentID, _ := seedTeams(t, store, "Lions")
	ctx := context.Background()
	notifications := NewNotificationRepository(store)

	assert.Panics(t, func() {
		_ = NewTransactor(store).WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			require.NoError(t, notifications.Create(ctx, exec, &models.Notification{TournamentID: tournamentID, Message: "hi", Priority: models.PriorityNormal}))
			panic("kaboom")
		})
	})

	list, err := notifications.ListByTournament(ctx, nil, tournamentID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionInvisibleUntilCommit(t *testing.T) {
	store := NewStore()
	_, ids := seedTeams(t, store, "Lions", "Tigers")
	teams := NewTeamRepository(store)
	ctx := context.Background()

	written := make(chan struct{})
	release := make(chan struct{})
	txErr := make(chan error, 1)
	go func() {
		txErr <- NewTransactor(store).WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			team, err := teams.GetByID(ctx, exec, ids[0])
			if err != nil {
				return err
			}
			team.TeamStats = models.TeamStats{Played: 1, Won: 1, GoalsFor: 1, GoalDifference: 1, Points: 3}
			if err := teams.UpdateStats(ctx, exec, team); err != nil {
				return err
			}
			close(written)
			<-release
			return nil
		})
	}()

	<-written
	team, err := teams.GetByID(ctx, nil, ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.TeamStats{}, team.TeamStats)

	close(release)
	require.NoError(t, <-txErr)

	team, err = teams.GetByID(ctx, nil, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 3, team.Points)
}

func TestWriteOutsideTransactionSurvivesRollback(t *testing.T) {
	store := NewStore()
	tournamentID, _ := seedTeams(t, store, "Lions")
	notifications := NewNotificationRepository(store)
	ctx := context.Background()
	boom := errors.New("boom")

	opened := make(chan struct{})
	release := make(chan struct{})
	txErr := make(chan error, 1)
	go func() {
		txErr <- NewTransactor(store).WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			draft := &models.Notification{TournamentID: tournamentID, Message: "draft", Priority: models.PriorityNormal}
			if err := notifications.Create(ctx, exec, draft); err != nil {
				return err
			}
			close(opened)
			<-release
			return boom
		})
	}()
	<-opened

	type result struct {
		n   *models.Notification
		err error
	}
	created := make(chan result, 1)
	go func() {
		n := &models.Notification{TournamentID: tournamentID, Message: "kick-off moved", Priority: models.PriorityUrgent}
		err := notifications.Create(ctx, nil, n)
		created <- result{n, err}
	}()

	assert.Never(t, func() bool { return len(created) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	close(release)
	require.ErrorIs(t, <-txErr, boom)

	res := <-created
	require.NoError(t, res.err)
	list, err := notifications.ListByTournament(ctx, nil, tournamentID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.n.ID, list[0].ID)
	assert.Equal(t, "kick-off moved", list[0].Message)

	next := &models.Notification{TournamentID: tournamentID, Message: "second", Priority: models.PriorityNormal}
	require.NoError(t, notifications.Create(ctx, nil, next))
	assert.Greater(t, next.ID, res.n.ID)
}

func TestLockForUpdateOrdersByID(t *testing.T) {
	store := NewStore()
	_, ids := seedTeams(t, store, "A", "B", "C")

	locked, err := NewTeamRepository(store).LockForUpdate(context.Background(), nil, ids[2], ids[0])
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, ids[0], locked[0].ID)
	assert.Equal(t, ids[2], locked[1].ID)

	_, err = NewTeamRepository(store).LockForUpdate(context.Background(), nil, ids[0], 999)
	assert.ErrorIs(t, err, repositories.ErrTeamNotFound)
}

func TestConstraintsMirrorSchema(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tournamentID, ids := seedTeams(t, store, "Lions", "Tigers")
	teams := NewTeamRepository(store)
	matches := NewMatchRepository(store)

	err := teams.Create(ctx, nil, &models.Team{TournamentID: tournamentID, Name: "lions"})
	assert.ErrorIs(t, err, repositories.ErrTeamNameConflict)

	three := 3
	err = matches.CreateBatch(ctx, nil, []*models.Match{{
		TournamentID: tournamentID, HomeTeamID: ids[0], AwayTeamID: ids[1], Round: 1,
		HomeScore: &three, Status: models.MatchStatusScheduled,
	}})
	assert.ErrorIs(t, err, repositories.ErrMatchResultInvalid)

	m := &models.Match{TournamentID: tournamentID, HomeTeamID: ids[0], AwayTeamID: ids[1], Round: 1, Status: models.MatchStatusScheduled}
	require.NoError(t, matches.CreateBatch(ctx, nil, []*models.Match{m}))

	assert.ErrorIs(t, teams.Delete(ctx, nil, ids[0]), repositories.ErrTeamInUse)

	err = teams.UpdateStats(ctx, nil, &models.Team{ID: ids[0], TeamStats: models.TeamStats{Played: 1}})
	assert.ErrorIs(t, err, repositories.ErrTeamStatsInvalid)

	n, err := matches.DeleteByTournament(ctx, nil, tournamentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NoError(t, teams.Delete(ctx, nil, ids[0]))
}
