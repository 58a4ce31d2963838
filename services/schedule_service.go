package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
)

type ScheduleService interface {
	// GenerateSchedule replaces every fixture of the tournament with a fresh
	// round-robin schedule.
	GenerateSchedule(ctx context.Context, tournamentID int, input GenerateScheduleInput) (*models.Tournament, error)
	ClearSchedule(ctx context.Context, tournamentID int) (*models.Tournament, error)
}

type GenerateScheduleInput struct {
	StartDate     string `json:"start_date"`
	MatchesPerDay int    `json:"matches_per_day"`
	// TimeSlotInterval is in minutes.
	TimeSlotInterval int `json:"time_slot_interval"`
}

type scheduleService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.ScheduleGenerator
	aggregate      *AggregateBuilder
	publisher      Publisher
	logger         *slog.Logger
	retryAttempts  int
}

func NewScheduleService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.ScheduleGenerator,
	aggregate *AggregateBuilder,
	publisher Publisher,
	logger *slog.Logger,
	retryAttempts int,
) ScheduleService {
	if retryAttempts < 1 {
		retryAttempts = DefaultScoreRetryAttempts
	}
	return &scheduleService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		generator:      generator,
		aggregate:      aggregate,
		publisher:      publisher,
		logger:         logger,
		retryAttempts:  retryAttempts,
	}
}

func (s *scheduleService) GenerateSchedule(ctx context.Context, tournamentID int, input GenerateScheduleInput) (*models.Tournament, error) {
	start, ok := parseScheduleStart(input.StartDate)
	if !ok {
		return nil, ErrInvalidStartDate
	}
	if input.MatchesPerDay < 1 {
		return nil, ErrInvalidMatchesPerDay
	}
	if input.TimeSlotInterval < 1 {
		return nil, ErrInvalidTimeSlot
	}

	var created int
	err := retryOnConflict(ctx, s.logger, s.retryAttempts, "generate_schedule", func() error {
		return translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			if err := s.lockTournament(ctx, exec, tournamentID); err != nil {
				return err
			}

			teams, err := s.teamRepo.ListByTournament(ctx, exec, tournamentID)
			if err != nil {
				return fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
			}

			fixtures, err := s.generator.GenerateSchedule(ctx, brackets.GenerateScheduleParams{
				TournamentID:     tournamentID,
				Teams:            teams,
				StartDate:        start,
				MatchesPerDay:    input.MatchesPerDay,
				TimeSlotInterval: time.Duration(input.TimeSlotInterval) * time.Minute,
			})
			if err != nil {
				switch {
				case errors.Is(err, brackets.ErrNotEnoughTeams):
					return ErrNotEnoughTeams
				case errors.Is(err, brackets.ErrInvalidMatchesPerDay):
					return ErrInvalidMatchesPerDay
				case errors.Is(err, brackets.ErrInvalidTimeSlot):
					return ErrInvalidTimeSlot
				}
				return fmt.Errorf("failed to generate schedule for tournament %d: %w", tournamentID, err)
			}

			if err := s.resetSchedule(ctx, exec, tournamentID); err != nil {
				return err
			}

			matches := make([]*models.Match, 0, len(fixtures))
			for _, f := range fixtures {
				date, clock := f.Date(), f.Time()
				matches = append(matches, &models.Match{
					TournamentID: tournamentID,
					HomeTeamID:   f.HomeTeamID,
					AwayTeamID:   f.AwayTeamID,
					Round:        f.Round,
					Date:         &date,
					Time:         &clock,
					Status:       models.MatchStatusScheduled,
				})
			}
			if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
				return fmt.Errorf("failed to insert schedule for tournament %d: %w", tournamentID, err)
			}
			created = len(matches)
			return nil
		}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule generated", "tournament_id", tournamentID, "generator", s.generator.GetName(), "matches", created)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *scheduleService) ClearSchedule(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	err := retryOnConflict(ctx, s.logger, s.retryAttempts, "clear_schedule", func() error {
		return translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			if err := s.lockTournament(ctx, exec, tournamentID); err != nil {
				return err
			}
			return s.resetSchedule(ctx, exec, tournamentID)
		}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("schedule cleared", "tournament_id", tournamentID)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *scheduleService) lockTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	if _, err := s.tournamentRepo.LockForUpdate(ctx, exec, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to lock tournament %d: %w", tournamentID, err)
	}
	return nil
}

// resetSchedule deletes every match and zeroes the team snapshots. With no
// completed match left the snapshots must be zero to agree with the
// from-scratch standings.
func (s *scheduleService) resetSchedule(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	deleted, err := s.matchRepo.DeleteByTournament(ctx, exec, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to clear schedule of tournament %d: %w", tournamentID, err)
	}
	if err := s.teamRepo.ResetStatsByTournament(ctx, exec, tournamentID); err != nil {
		return fmt.Errorf("failed to reset team statistics of tournament %d: %w", tournamentID, err)
	}
	s.logger.Debug("schedule reset", "tournament_id", tournamentID, "deleted_matches", deleted)
	return nil
}
