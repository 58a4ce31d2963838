package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/config"
	"github.com/Dosada05/tournament-manager/db"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/repositories/memory"
	"github.com/Dosada05/tournament-manager/services"
	"github.com/Dosada05/tournament-manager/storage"
)

// app holds the wired services for one process.
type app struct {
	db  *sql.DB
	hub *brackets.Hub

	authService         services.AuthService
	tournamentService   services.TournamentService
	teamService         services.TeamService
	matchService        services.MatchService
	scheduleService     services.ScheduleService
	standingsService    services.StandingsService
	notificationService services.NotificationService
}

type repositorySet struct {
	tx            repositories.Transactor
	users         repositories.UserRepository
	tournaments   repositories.TournamentRepository
	teams         repositories.TeamRepository
	players       repositories.PlayerRepository
	matches       repositories.MatchRepository
	notifications repositories.NotificationRepository
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{hub: brackets.NewHub()}

	// Инициализация репозиториев
	var repos repositorySet
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		repos = repositorySet{
			tx:            memory.NewTransactor(store),
			users:         memory.NewUserRepository(store),
			tournaments:   memory.NewTournamentRepository(store),
			teams:         memory.NewTeamRepository(store),
			players:       memory.NewPlayerRepository(store),
			matches:       memory.NewMatchRepository(store),
			notifications: memory.NewNotificationRepository(store),
		}
		logger.Warn("using in-memory storage, data is lost on restart")
	default:
		conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, err
		}
		a.db = conn
		repos = repositorySet{
			tx:            repositories.NewPostgresTransactor(conn, logger),
			users:         repositories.NewPostgresUserRepository(conn),
			tournaments:   repositories.NewPostgresTournamentRepository(conn),
			teams:         repositories.NewPostgresTeamRepository(conn),
			players:       repositories.NewPostgresPlayerRepository(conn),
			matches:       repositories.NewPostgresMatchRepository(conn),
			notifications: repositories.NewPostgresNotificationRepository(conn),
		}
		logger.Info("database connection established")
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if r2 := cfg.R2(); r2.Enabled() {
		u, err := storage.NewCloudflareR2Uploader(ctx, r2)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		uploader = u
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", r2.BucketName))
	} else {
		logger.Info("R2 settings missing, team logo uploads disabled")
	}

	var mailer services.CredentialsMailer
	mailCfg := services.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		LoginURL: cfg.PublicURL,
	}
	if mailCfg.Enabled() {
		emailService, err := services.NewEmailService(mailCfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		mailer = emailService
		logger.Info("SMTP mailer initialized", slog.String("host", mailCfg.Host))
	}

	// Инициализация сервисов
	aggregate := services.NewAggregateBuilder(repos.tournaments, repos.teams, repos.players, repos.matches, repos.notifications, uploader)
	auth := services.NewAuthService(repos.users, []byte(cfg.JWTSecretKey), cfg.TokenTTL, logger)

	a.authService = auth
	a.tournamentService = services.NewTournamentService(repos.tx, repos.tournaments, aggregate, a.hub, logger)
	a.matchService = services.NewMatchService(repos.tx, repos.matches, repos.teams, aggregate, a.hub, logger, cfg.ScoreRetryAttempts)
	a.scheduleService = services.NewScheduleService(repos.tx, repos.tournaments, repos.teams, repos.matches,
		brackets.NewRoundRobinGenerator(), aggregate, a.hub, logger, cfg.ScoreRetryAttempts)
	a.standingsService = services.NewStandingsService(repos.tournaments, repos.teams, repos.matches)
	a.teamService = services.NewTeamService(repos.tx, repos.tournaments, repos.teams, repos.players, repos.matches,
		auth, uploader, mailer, aggregate, a.hub, logger)
	a.notificationService = services.NewNotificationService(repos.tournaments, repos.notifications, aggregate, a.hub, logger)
	logger.Info("Services initialized")

	return a, nil
}

func (a *app) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	slog.Info("database connection closed")
}
