package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/standings"
	"github.com/Dosada05/tournament-manager/storage"
	"github.com/Dosada05/tournament-manager/utils"
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	UserID int
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// trimmedOrNil returns nil for nil or blank input.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || uploader == nil {
		return
	}
	if url := uploader.GetPublicURL(*team.LogoKey); url != "" {
		team.LogoURL = &url
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if !utils.IsValidEmail(email) {
		return "", ErrInvalidManagerEmail
	}
	return strings.ToLower(email), nil
}

func parseDate(value string) (string, bool) {
	t, err := time.Parse(brackets.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return t.Format(brackets.DateLayout), true
}

// parseClock accepts HH:MM and HH:MM:SS and normalizes to HH:MM:SS.
func parseClock(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{brackets.TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(brackets.TimeLayout), true
		}
	}
	return "", false
}

// parseScheduleStart accepts a bare date (kickoffs start at midnight) or a
// date with a time of day.
func parseScheduleStart(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{brackets.DateLayout, "2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// rebuildAndPublish rebuilds the aggregate after a committed mutation and
// pushes it to the tournament room.
func rebuildAndPublish(ctx context.Context, builder *AggregateBuilder, publisher Publisher, logger *slog.Logger, tournamentID int) (*models.Tournament, error) {
	tournament, err := builder.Build(ctx, tournamentID)
	if err != nil {
		logger.Error("failed to rebuild tournament aggregate after commit", "tournament_id", tournamentID, "error", err)
		return nil, fmt.Errorf("mutation committed but aggregate rebuild failed: %w", err)
	}
	publisher.Publish(brackets.Event{
		Type:         brackets.EventTournamentUpdated,
		TournamentID: tournamentID,
		Payload:      tournament,
	})
	return tournament, nil
}

const conflictBackoff = 10 * time.Millisecond

// retryOnConflict runs fn up to attempts times while it fails with ErrConflict.
func retryOnConflict(ctx context.Context, logger *slog.Logger, attempts int, operation string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); !errors.Is(err, ErrConflict) {
			return err
		}
		logger.Warn("transaction conflict", "operation", operation, "attempt", attempt, "max_attempts", attempts)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * conflictBackoff):
		}
	}
	return err
}

// translateTxError maps storage failures that are shared by every write path.
func translateTxError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repositories.ErrTeamStatsInvalid),
		errors.Is(err, repositories.ErrMatchResultInvalid),
		errors.Is(err, standings.ErrIntegrity):
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return err
}
