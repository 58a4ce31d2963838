package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/standings"
)

const DefaultScoreRetryAttempts = 3

type MatchService interface {
	// SubmitScore records a result for the match, first reverting the
	// contribution of a previous result when the match was already completed.
	SubmitScore(ctx context.Context, matchID, homeScore, awayScore int) (*models.Tournament, error)
	UpdateMatch(ctx context.Context, matchID int, input UpdateMatchInput) (*models.Tournament, error)
	UpdateMatchStatus(ctx context.Context, matchID int, status models.MatchStatus) (*models.Tournament, error)
}

// UpdateMatchInput is a partial update. Nil leaves a field unchanged and an
// empty string clears it.
type UpdateMatchInput struct {
	Date  *string `json:"date"`
	Time  *string `json:"time"`
	Venue *string `json:"venue"`
}

type matchService struct {
	tx            repositories.Transactor
	matchRepo     repositories.MatchRepository
	teamRepo      repositories.TeamRepository
	aggregate     *AggregateBuilder
	publisher     Publisher
	logger        *slog.Logger
	retryAttempts int
}

func NewMatchService(
	tx repositories.Transactor,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	aggregate *AggregateBuilder,
	publisher Publisher,
	logger *slog.Logger,
	retryAttempts int,
) MatchService {
	if retryAttempts < 1 {
		retryAttempts = DefaultScoreRetryAttempts
	}
	return &matchService{
		tx:            tx,
		matchRepo:     matchRepo,
		teamRepo:      teamRepo,
		aggregate:     aggregate,
		publisher:     publisher,
		logger:        logger,
		retryAttempts: retryAttempts,
	}
}

func (s *matchService) SubmitScore(ctx context.Context, matchID, homeScore, awayScore int) (*models.Tournament, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, ErrNegativeScore
	}

	var tournamentID int
	err := retryOnConflict(ctx, s.logger, s.retryAttempts, "submit_score", func() error {
		return translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			id, err := s.applyScore(ctx, exec, matchID, homeScore, awayScore)
			tournamentID = id
			return err
		}))
	})
	if err != nil {
		if errors.Is(err, ErrIntegrity) {
			s.logger.Error("score submission aborted", "match_id", matchID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("score submitted", "match_id", matchID, "tournament_id", tournamentID,
		"home_score", homeScore, "away_score", awayScore)
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

// applyScore runs inside the transaction. The match row is locked first and the
// two team rows after it in ascending id order, so concurrent submissions for
// matches sharing a team cannot deadlock on lock order.
func (s *matchService) applyScore(ctx context.Context, exec repositories.SQLExecutor, matchID, homeScore, awayScore int) (int, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return 0, ErrMatchNotFound
		}
		return 0, fmt.Errorf("failed to lock match %d: %w", matchID, err)
	}
	if match.HomeTeamID == match.AwayTeamID {
		return 0, fmt.Errorf("%w: match %d pairs team %d with itself", ErrIntegrity, matchID, match.HomeTeamID)
	}

	locked, err := s.teamRepo.LockForUpdate(ctx, exec, match.HomeTeamID, match.AwayTeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return 0, fmt.Errorf("%w: match %d references a missing team", ErrIntegrity, matchID)
		}
		return 0, fmt.Errorf("failed to lock teams of match %d: %w", matchID, err)
	}
	home, away := locked[0], locked[1]
	if home.ID != match.HomeTeamID {
		home, away = away, home
	}

	if match.HasResult() {
		if err := standings.Adjust(home, away, *match.HomeScore, *match.AwayScore, standings.Revert); err != nil {
			return 0, err
		}
	}

	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	match.Status = models.MatchStatusCompleted

	if err := standings.Adjust(home, away, homeScore, awayScore, standings.Apply); err != nil {
		return 0, err
	}
	if !standings.Consistent(home.TeamStats) || !standings.Consistent(away.TeamStats) {
		return 0, fmt.Errorf("%w: snapshots of teams %d and %d drifted", ErrIntegrity, home.ID, away.ID)
	}

	if err := s.matchRepo.UpdateResult(ctx, exec, match); err != nil {
		return 0, fmt.Errorf("failed to persist result of match %d: %w", matchID, err)
	}
	for _, team := range []*models.Team{home, away} {
		if err := s.teamRepo.UpdateStats(ctx, exec, team); err != nil {
			return 0, fmt.Errorf("failed to persist stats of team %d: %w", team.ID, err)
		}
	}
	return match.TournamentID, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, matchID int, input UpdateMatchInput) (*models.Tournament, error) {
	date, err := normalizeOptional(input.Date, parseDate, ErrInvalidMatchDate)
	if err != nil {
		return nil, err
	}
	clock, err := normalizeOptional(input.Time, parseClock, ErrInvalidMatchTime)
	if err != nil {
		return nil, err
	}

	var tournamentID int
	err = retryOnConflict(ctx, s.logger, s.retryAttempts, "update_match", func() error {
		return translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			match, err := s.lockMatch(ctx, exec, matchID)
			if err != nil {
				return err
			}
			if input.Date != nil {
				match.Date = date
			}
			if input.Time != nil {
				match.Time = clock
			}
			if input.Venue != nil {
				match.Venue = trimmedOrNil(input.Venue)
			}
			if err := s.matchRepo.UpdateDetails(ctx, exec, match); err != nil {
				if errors.Is(err, repositories.ErrMatchScheduleInvalid) {
					return ErrInvalidMatchDate
				}
				return fmt.Errorf("failed to update match %d: %w", matchID, err)
			}
			tournamentID = match.TournamentID
			return nil
		}))
	})
	if err != nil {
		return nil, err
	}
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *matchService) UpdateMatchStatus(ctx context.Context, matchID int, status models.MatchStatus) (*models.Tournament, error) {
	if !status.Valid() {
		return nil, ErrInvalidMatchStatus
	}
	if status == models.MatchStatusCompleted {
		return nil, ErrMatchStatusLocked
	}

	var tournamentID int
	err := retryOnConflict(ctx, s.logger, s.retryAttempts, "update_match_status", func() error {
		return translateTxError(s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
			match, err := s.lockMatch(ctx, exec, matchID)
			if err != nil {
				return err
			}
			if match.Status == models.MatchStatusCompleted {
				return ErrMatchStatusLocked
			}
			if err := s.matchRepo.UpdateStatus(ctx, exec, matchID, status); err != nil {
				return fmt.Errorf("failed to update status of match %d: %w", matchID, err)
			}
			tournamentID = match.TournamentID
			return nil
		}))
	})
	if err != nil {
		return nil, err
	}
	return rebuildAndPublish(ctx, s.aggregate, s.publisher, s.logger, tournamentID)
}

func (s *matchService) lockMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, exec, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", matchID, err)
	}
	return match, nil
}

// normalizeOptional validates a partial-update field. Blank input clears it.
func normalizeOptional(value *string, parse func(string) (string, bool), invalid error) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	normalized, ok := parse(*value)
	if !ok {
		return nil, invalid
	}
	return &normalized, nil
}
