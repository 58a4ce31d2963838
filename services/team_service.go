package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/storage"
)

// TeamService manages teams and their rosters. Managers may only touch the
// team they manage; creating and deleting teams is reserved for admins.
type TeamService interface {
	CreateTeam(ctx context.Context, actor Actor, tournamentID int, input CreateTeamInput) (*models.Tournament, error)
	UpdateTeam(ctx context.Context, actor Actor, tournamentID, teamID int, input UpdateTeamInput) (*models.Tournament, error)
	// DeleteTeam fails with ErrTeamHasMatches while any match references the
	// team. Clear the schedule first.
	DeleteTeam(ctx context.Context, actor Actor, tournamentID, teamID int) (*models.Tournament, error)
	UploadTeamLogo(ctx context.Context, actor Actor, tournamentID, teamID int, contentType string, file io.Reader) (*models.Tournament, error)

	CreatePlayer(ctx context.Context, actor Actor, tournamentID, teamID int, input PlayerInput) (*models.Tournament, error)
	UpdatePlayer(ctx context.Context, actor Actor, tournamentID, teamID, playerID int, input UpdatePlayerInput) (*models.Tournament, error)
	DeletePlayer(ctx context.Context, actor Actor, tournamentID, teamID, playerID int) (*models.Tournament, error)
}

// CreateTeamInput registers a team. A blank ManagerPassword generates one,
// which is mailed to the manager when a mailer is configured.
type CreateTeamInput struct {
	Name            string        `json:"name"`
	ManagerName     string        `json:"manager_name"`
	ManagerEmail    string        `json:"manager_email"`
	ManagerPassword string        `json:"password"`
	Players         []PlayerInput `json:"players"`
}

type UpdateTeamInput struct {
	Name         *string `json:"name"`
	ManagerName  *string `json:"manager_name"`
	ManagerEmail *string `json:"manager_email"`
}

type PlayerInput struct {
	Name     string  `json:"name"`
	Number   *int    `json:"number"`
	Position *string `json:"position"`
}

// UpdatePlayerInput is a partial update. A blank position clears it.
type UpdatePlayerInput struct {
	Name     *string `json:"name"`
	Number   *int    `json:"number"`
	Position *string `json:"position"`
}

type teamService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	managers       ManagerDirectory
	uploader       storage.FileUploader
	mailer         CredentialsMailer
	aggregate      *AggregateBuilder
	publisher      Publisher
	logger         *slog.Logger
}

// NewTeamService wires the team service. uploader may be nil, in which case
// logo uploads fail with ErrLogoUploadDisabled. mailer may be nil.
func NewTeamService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	managers ManagerDirectory,
	uploader storage.FileUploader,
	mailer CredentialsMailer,
	aggregate *AggregateBuilder,
	publisher Publisher,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		managers:       managers,
		uploader:       uploader,
		mailer:         mailer,
		aggregate:      aggregate,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, actor Actor, tournamentID int, input CreateTeamInput) (*models.Tournament, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	managerName := strings.TrimSpace(input.ManagerName)
	if managerName == "" {
		return nil, ErrManagerNameRequired
	}
	managerEmail, err := normalizeEmail(input.ManagerEmail)
	if err != nil {
		return nil, err
	}
	players := make([]*models.Player, 0, len(input.Players))
	for _, p := range input.Players {
		player, err := newPlayer(p)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}

	var (
		teamID  int
		account *ManagerAccount
	)
	err = translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID); err != nil {
			return mapTournamentRepoError(err)
		}

		team := &models.Team{
			TournamentID: tournamentID,
			Name:         name,
			ManagerName:  &managerName,
			ManagerEmail: &managerEmail,
		}
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return mapTeamRepoError(err)
		}

		for _, player := range players {
			player.TeamID = team.ID
			if err := s.playerRepo.Create(ctx, exec, player); err != nil {
				return mapPlayerRepoError(err)
			}
		}

		acc, err := s.managers.EnsureManager(ctx, exec, managerName, managerEmail, input.ManagerPassword, team.ID)
		if err != nil {
			return err
		}
		account = acc
		team.ManagerUserID = &acc.UserID
		if err := s.teamRepo.Update(ctx, exec, team); err != nil {
			return mapTeamRepoError(err)
		}

		teamID = team.ID
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.deliverCredentials(account, managerName, managerEmail, name)
	s.logger.Info("team created", "tournament_id", tournamentID, "team_id", teamID, "players", len(players))
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *teamService) UpdateTeam(ctx context.Context, actor Actor, tournamentID, teamID int, input UpdateTeamInput) (*models.Tournament, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrTeamNameRequired
	}
	if input.ManagerName != nil && strings.TrimSpace(*input.ManagerName) == "" {
		return nil, ErrManagerNameRequired
	}
	var managerEmail string
	if input.ManagerEmail != nil {
		email, err := normalizeEmail(*input.ManagerEmail)
		if err != nil {
			return nil, err
		}
		managerEmail = email
	}

	var (
		account *ManagerAccount
		updated models.Team
	)
	err := translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		team, err := s.loadTeam(ctx, exec, actor, tournamentID, teamID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			team.Name = strings.TrimSpace(*input.Name)
		}
		if input.ManagerName != nil {
			v := strings.TrimSpace(*input.ManagerName)
			team.ManagerName = &v
		}
		if input.ManagerEmail != nil && managerEmail != strings.ToLower(derefString(team.ManagerEmail)) {
			if team.ManagerUserID != nil {
				if err := s.managers.UpdateManagerEmail(ctx, exec, *team.ManagerUserID, managerEmail); err != nil {
					return err
				}
			} else {
				account, err = s.managers.EnsureManager(ctx, exec, derefString(team.ManagerName), managerEmail, "", team.ID)
				if err != nil {
					return err
				}
				team.ManagerUserID = &account.UserID
			}
			team.ManagerEmail = &managerEmail
		}

		if err := s.teamRepo.Update(ctx, exec, team); err != nil {
			return mapTeamRepoError(err)
		}
		updated = *team
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.deliverCredentials(account, derefString(updated.ManagerName), managerEmail, updated.Name)
	s.logger.Info("team updated", "tournament_id", tournamentID, "team_id", teamID)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *teamService) DeleteTeam(ctx context.Context, actor Actor, tournamentID, teamID int) (*models.Tournament, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	var logoKey *string
	err := translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		team, err := s.loadTeam(ctx, exec, actor, tournamentID, teamID)
		if err != nil {
			return err
		}

		count, err := s.matchRepo.CountByTeam(ctx, exec, teamID)
		if err != nil {
			return fmt.Errorf("failed to count matches of team %d: %w", teamID, err)
		}
		if count > 0 {
			return ErrTeamHasMatches
		}

		if err := s.teamRepo.Delete(ctx, exec, teamID); err != nil {
			return mapTeamRepoError(err)
		}
		logoKey = team.LogoKey
		return nil
	}))
	if err != nil {
		return nil, err
	}

	if logoKey != nil {
		s.deleteLogo(ctx, *logoKey)
	}
	s.logger.Info("team deleted", "tournament_id", tournamentID, "team_id", teamID)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *teamService) UploadTeamLogo(ctx context.Context, actor Actor, tournamentID, teamID int, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrLogoUploadDisabled
	}
	ext, ok := storage.LogoExtension(contentType)
	if !ok {
		return nil, ErrUnsupportedLogoType
	}

	team, err := s.loadTeam(ctx, nil, actor, tournamentID, teamID)
	if err != nil {
		return nil, err
	}

	key := storage.TeamLogoKey(tournamentID, teamID, ext, time.Now())
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo of team %d: %w", teamID, err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, nil, teamID, &key); err != nil {
		s.deleteLogo(ctx, key)
		return nil, mapTeamRepoError(err)
	}
	if team.LogoKey != nil && *team.LogoKey != key {
		s.deleteLogo(ctx, *team.LogoKey)
	}

	s.logger.Info("team logo uploaded", "tournament_id", tournamentID, "team_id", teamID, "key", key)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *teamService) deleteLogo(ctx context.Context, key string) {
	if s.uploader == nil {
		return
	}
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete team logo", "key", key, "error", err)
	}
}

func (s *teamService) CreatePlayer(ctx context.Context, actor Actor, tournamentID, teamID int, input PlayerInput) (*models.Tournament, error) {
	player, err := newPlayer(input)
	if err != nil {
		return nil, err
	}

	err = translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.loadTeam(ctx, exec, actor, tournamentID, teamID); err != nil {
			return err
		}
		player.TeamID = teamID
		if err := s.playerRepo.Create(ctx, exec, player); err != nil {
			return mapPlayerRepoError(err)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.logger.Info("player created", "team_id", teamID, "player_id", player.ID)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *teamService) UpdatePlayer(ctx context.Context, actor Actor, tournamentID, teamID, playerID int, input UpdatePlayerInput) (*models.Tournament, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.Number != nil && *input.Number < 1 {
		return nil, ErrInvalidPlayerNumber
	}

	err := translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		player, err := s.loadPlayer(ctx, exec, actor, tournamentID, teamID, playerID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			player.Name = strings.TrimSpace(*input.Name)
		}
		if input.Number != nil {
			number := *input.Number
			player.Number = &number
		}
		if input.Position != nil {
			player.Position = trimmedOrNil(input.Position)
		}
		if err := s.playerRepo.Update(ctx, exec, player); err != nil {
			return mapPlayerRepoError(err)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *teamService) DeletePlayer(ctx context.Context, actor Actor, tournamentID, teamID, playerID int) (*models.Tournament, error) {
	err := translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.loadPlayer(ctx, exec, actor, tournamentID, teamID, playerID); err != nil {
			return err
		}
		if err := s.playerRepo.Delete(ctx, exec, playerID); err != nil {
			return mapPlayerRepoError(err)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.logger.Info("player deleted", "team_id", teamID, "player_id", playerID)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

// loadTeam returns the team if it belongs to the tournament and the actor may
// manage it. A team of another tournament is reported as missing.
func (s *teamService) loadTeam(ctx context.Context, exec repositories.SQLExecutor, actor Actor, tournamentID, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, exec, teamID)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}
	if team.TournamentID != tournamentID {
		return nil, ErrTeamNotFound
	}
	if !actor.IsAdmin() && (team.ManagerUserID == nil || *team.ManagerUserID != actor.UserID) {
		return nil, ErrForbiddenOperation
	}
	return team, nil
}

func (s *teamService) loadPlayer(ctx context.Context, exec repositories.SQLExecutor, actor Actor, tournamentID, teamID, playerID int) (*models.Player, error) {
	if _, err := s.loadTeam(ctx, exec, actor, tournamentID, teamID); err != nil {
		return nil, err
	}
	player, err := s.playerRepo.GetByID(ctx, exec, playerID)
	if err != nil {
		return nil, mapPlayerRepoError(err)
	}
	if player.TeamID != teamID {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

func newPlayer(input PlayerInput) (*models.Player, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}
	if input.Number != nil && *input.Number < 1 {
		return nil, ErrInvalidPlayerNumber
	}
	player := &models.Player{Name: name, Position: trimmedOrNil(input.Position)}
	if input.Number != nil {
		number := *input.Number
		player.Number = &number
	}
	return player, nil
}

func mapTeamRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTeamInUse):
		return ErrTeamHasMatches
	}
	return fmt.Errorf("team repository: %w", err)
}

func mapPlayerRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerNumberConflict):
		return ErrPlayerNumberConflict
	case errors.Is(err, repositories.ErrPlayerTeamInvalid):
		return ErrTeamNotFound
	}
	return fmt.Errorf("player repository: %w", err)
}

// deliverCredentials mails a generated manager password. Delivery failures
// are logged; the team change is already committed.
func (s *teamService) deliverCredentials(account *ManagerAccount, managerName, email, teamName string) {
	if account == nil || account.IssuedPassword == "" {
		return
	}
	if s.mailer == nil {
		s.logger.Warn("manager password generated but no mailer is configured", "user_id", account.UserID, "email", email)
		return
	}
	if err := s.mailer.SendManagerCredentials(email, managerName, teamName, account.IssuedPassword); err != nil {
		s.logger.Error("failed to send manager credentials", "user_id", account.UserID, "email", email, "error", err)
		return
	}
	s.logger.Info("manager credentials sent", "user_id", account.UserID)
}
