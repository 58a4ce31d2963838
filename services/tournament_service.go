package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

const DefaultTournamentFormat = "Round Robin"

type TournamentService interface {
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name      string  `json:"name"`
	Format    string  `json:"format"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UpdateTournamentInput is a partial update. A blank date clears it.
type UpdateTournamentInput struct {
	Name      *string                  `json:"name"`
	Format    *string                  `json:"format"`
	StartDate *string                  `json:"start_date"`
	EndDate   *string                  `json:"end_date"`
	Status    *models.TournamentStatus `json:"status"`
}

type tournamentService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	aggregate      *AggregateBuilder
	publisher      Publisher
	logger         *slog.Logger
}

func NewTournamentService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	aggregate *AggregateBuilder,
	publisher Publisher,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		aggregate:      aggregate,
		publisher:      publisher,
		logger:         logger,
	}
}

func (s *tournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	return s.aggregate.Build(ctx, id)
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	format := strings.TrimSpace(input.Format)
	if format == "" {
		format = DefaultTournamentFormat
	}
	start, err := normalizeOptional(input.StartDate, parseDate, ErrTournamentInvalidDate)
	if err != nil {
		return nil, err
	}
	end, err := normalizeOptional(input.EndDate, parseDate, ErrTournamentInvalidDate)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:      name,
		Format:    format,
		StartDate: start,
		EndDate:   end,
		Status:    models.TournamentStatusDraft,
	}
	if err := checkDateRange(tournament); err != nil {
		return nil, err
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		return nil, mapTournamentRepoError(err)
	}

	s.logger.Info("tournament created", "tournament_id", tournament.ID)
	return s.aggregate.Build(ctx, tournament.ID)
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrTournamentInvalidStatus
	}
	start, err := normalizeOptional(input.StartDate, parseDate, ErrTournamentInvalidDate)
	if err != nil {
		return nil, err
	}
	end, err := normalizeOptional(input.EndDate, parseDate, ErrTournamentInvalidDate)
	if err != nil {
		return nil, err
	}

	err = translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.LockForUpdate(ctx, exec, id)
		if err != nil {
			return mapTournamentRepoError(err)
		}

		if input.Name != nil {
			tournament.Name = strings.TrimSpace(*input.Name)
		}
		if input.Format != nil {
			if f := strings.TrimSpace(*input.Format); f != "" {
				tournament.Format = f
			}
		}
		if input.StartDate != nil {
			tournament.StartDate = start
		}
		if input.EndDate != nil {
			tournament.EndDate = end
		}
		if input.Status != nil {
			tournament.Status = *input.Status
		}
		if err := checkDateRange(tournament); err != nil {
			return err
		}

		if err := s.tournamentRepo.Update(ctx, exec, tournament); err != nil {
			return mapTournamentRepoError(err)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament updated", "tournament_id", id)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, id)
}

// checkDateRange relies on YYYY-MM-DD comparing lexically in date order.
func checkDateRange(t *models.Tournament) error {
	if t.StartDate != nil && t.EndDate != nil && *t.EndDate < *t.StartDate {
		return ErrTournamentInvalidDateRange
	}
	return nil
}

func mapTournamentRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentInvalidDateRange):
		return ErrTournamentInvalidDateRange
	case errors.Is(err, repositories.ErrTournamentInvalidDate):
		return ErrTournamentInvalidDate
	}
	return fmt.Errorf("tournament repository: %w", err)
}
