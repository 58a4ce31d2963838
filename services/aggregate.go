package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/storage"
	"golang.org/x/sync/errgroup"
)

// AggregateBuilder is the tournament read model. It is rebuilt explicitly
// after a mutation commits and never participates in a write transaction.
type AggregateBuilder struct {
	tournamentRepo   repositories.TournamentRepository
	teamRepo         repositories.TeamRepository
	playerRepo       repositories.PlayerRepository
	matchRepo        repositories.MatchRepository
	notificationRepo repositories.NotificationRepository
	uploader         storage.FileUploader
}

func NewAggregateBuilder(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	notificationRepo repositories.NotificationRepository,
	uploader storage.FileUploader,
) *AggregateBuilder {
	return &AggregateBuilder{
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		matchRepo:        matchRepo,
		notificationRepo: notificationRepo,
		uploader:         uploader,
	}
}

// Build loads the tournament with its teams (and their players), matches with
// resolved team references, and notifications.
func (b *AggregateBuilder) Build(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		tournament    *models.Tournament
		teams         []models.Team
		players       []models.Player
		matches       []models.Match
		notifications []models.Notification
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := b.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
		}
		tournament = t
		return nil
	})
	g.Go(func() (err error) {
		teams, err = b.teamRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load teams of tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	g.Go(func() (err error) {
		players, err = b.playerRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load players of tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	g.Go(func() (err error) {
		matches, err = b.matchRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load matches of tournament %d: %w", tournamentID, err)
		}
		return nil
	})
	g.Go(func() (err error) {
		notifications, err = b.notificationRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load notifications of tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byTeam := make(map[int][]models.Player, len(teams))
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}

	refs := make(map[int]*models.TeamRef, len(teams))
	for i := range teams {
		team := &teams[i]
		team.Players = byTeam[team.ID]
		if team.Players == nil {
			team.Players = []models.Player{}
		}
		populateTeamLogoURL(team, b.uploader)
		refs[team.ID] = &models.TeamRef{ID: team.ID, Name: team.Name}
	}

	for i := range matches {
		matches[i].HomeTeam = refs[matches[i].HomeTeamID]
		matches[i].AwayTeam = refs[matches[i].AwayTeamID]
	}

	if teams == nil {
		teams = []models.Team{}
	}
	if matches == nil {
		matches = []models.Match{}
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	tournament.Teams = teams
	tournament.Matches = matches
	tournament.Notifications = notifications
	return tournament, nil
}
