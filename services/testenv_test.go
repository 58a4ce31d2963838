package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/repositories/memory"
	"github.com/Dosada05/tournament-manager/storage"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	store         *memory.Store
	tx            repositories.Transactor
	tournaments   repositories.TournamentRepository
	teams         repositories.TeamRepository
	players       repositories.PlayerRepository
	matches       repositories.MatchRepository
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	publisher     *RecordingPublisher
	mailer        *fakeMailer
	logger        *slog.Logger
	aggregate     *AggregateBuilder
	auth          *authService

	tournamentService   TournamentService
	matchService        MatchService
	scheduleService     ScheduleService
	standingsService    StandingsService
	teamService         TeamService
	notificationService NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithUploader(t, nil)
}

func newTestEnvWithUploader(t *testing.T, uploader storage.FileUploader) *testEnv {
	t.Helper()

	store := memory.NewStore()
	env := &testEnv{
		store:         store,
		tx:            memory.NewTransactor(store),
		tournaments:   memory.NewTournamentRepository(store),
		teams:         memory.NewTeamRepository(store),
		players:       memory.NewPlayerRepository(store),
		matches:       memory.NewMatchRepository(store),
		notifications: memory.NewNotificationRepository(store),
		users:         memory.NewUserRepository(store),
		publisher:     &RecordingPublisher{},
		mailer:        &fakeMailer{},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	env.aggregate = NewAggregateBuilder(env.tournaments, env.teams, env.players, env.matches, env.notifications, uploader)
	env.auth = NewAuthService(env.users, testSecret, 0, env.logger)

	env.tournamentService = NewTournamentService(env.tx, env.tournaments, env.aggregate, env.publisher, env.logger)
	env.matchService = NewMatchService(env.tx, env.matches, env.teams, env.aggregate, env.publisher, env.logger, 3)
	env.scheduleService = NewScheduleService(env.tx, env.tournaments, env.teams, env.matches,
		brackets.NewRoundRobinGenerator(), env.aggregate, env.publisher, env.logger, 3)
	env.standingsService = NewStandingsService(env.tournaments, env.teams, env.matches)
	env.teamService = NewTeamService(env.tx, env.tournaments, env.teams, env.players, env.matches,
		env.auth, uploader, env.mailer, env.aggregate, env.publisher, env.logger)
	env.notificationService = NewNotificationService(env.tournaments, env.notifications, env.aggregate, env.publisher, env.logger)
	return env
}

var admin = Actor{UserID: 1, Role: models.RoleAdmin}

// seedLeague creates a tournament with the named teams and returns its id and
// the team ids in creation order.
func (e *testEnv) seedLeague(t *testing.T, names ...string) (int, []int) {
	t.Helper()
	ctx := context.Background()

	tournament, err := e.tournamentService.CreateTournament(ctx, CreateTournamentInput{Name: "Spring League"})
	require.NoError(t, err)

	ids := make([]int, 0, len(names))
	for _, name := range names {
		team := &models.Team{TournamentID: tournament.ID, Name: name}
		require.NoError(t, e.teams.Create(ctx, nil, team))
		ids = append(ids, team.ID)
	}
	return tournament.ID, ids
}

func (e *testEnv) generate(t *testing.T, tournamentID int) []models.Match {
	t.Helper()
	agg, err := e.scheduleService.GenerateSchedule(context.Background(), tournamentID, GenerateScheduleInput{
		StartDate:        "2024-03-01",
		MatchesPerDay:    2,
		TimeSlotInterval: 90,
	})
	require.NoError(t, err)
	return agg.Matches
}

func (e *testEnv) team(t *testing.T, id int) *models.Team {
	t.Helper()
	team, err := e.teams.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return team
}

func (e *testEnv) eventTypes() []string {
	events := e.publisher.Events()
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

// fakeUploader keeps uploaded objects in memory.
type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type sentCredentials struct {
	to, managerName, teamName, password string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentCredentials
}

func (m *fakeMailer) SendManagerCredentials(to, managerName, teamName, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentCredentials{to, managerName, teamName, password})
	return nil
}
