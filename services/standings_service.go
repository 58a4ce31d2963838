package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/standings"
)

type StandingsSource string

const (
	// SourceMatches recomputes the table from every completed match.
	SourceMatches StandingsSource = "matches"
	// SourceSnapshot reads the running statistics kept on each team.
	SourceSnapshot StandingsSource = "snapshot"
)

var ErrInvalidStandingsSource = fmt.Errorf("%w: standings source must be matches or snapshot", ErrValidationFailed)

type StandingsService interface {
	ComputeStandings(ctx context.Context, tournamentID int, source StandingsSource) ([]models.Standing, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
	}
}

func (s *standingsService) ComputeStandings(ctx context.Context, tournamentID int, source StandingsSource) ([]models.Standing, error) {
	if source == "" {
		source = SourceMatches
	}
	if source != SourceMatches && source != SourceSnapshot {
		return nil, ErrInvalidStandingsSource
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
	}

	if source == SourceSnapshot {
		return standings.FromSnapshots(teams), nil
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
	}
	return standings.Compute(teams, matches), nil
}
