package services

import "errors"

var (
	// Not found
	ErrNotFound             = errors.New("requested resource not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")

	// Validation, rejected before any mutation
	ErrValidationFailed            = errors.New("validation failed")
	ErrNegativeScore               = errors.New("scores must be non-negative integers")
	ErrNotEnoughTeams              = errors.New("not enough teams to generate a schedule, need at least 2")
	ErrInvalidMatchesPerDay        = errors.New("matches per day must be at least 1")
	ErrInvalidTimeSlot             = errors.New("time slot interval must be at least 1 minute")
	ErrInvalidStartDate            = errors.New("start date must be YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	ErrInvalidMatchDate            = errors.New("match date must be YYYY-MM-DD")
	ErrInvalidMatchTime            = errors.New("match time must be HH:MM or HH:MM:SS")
	ErrInvalidMatchStatus          = errors.New("invalid match status")
	ErrTournamentNameRequired      = errors.New("tournament name is required")
	ErrTournamentInvalidStatus     = errors.New("invalid tournament status provided")
	ErrTournamentInvalidDate       = errors.New("tournament dates must be YYYY-MM-DD")
	ErrTournamentInvalidDateRange  = errors.New("tournament end date must not be before start date")
	ErrTeamNameRequired            = errors.New("team name is required")
	ErrManagerNameRequired         = errors.New("manager name is required")
	ErrInvalidManagerEmail         = errors.New("manager email is invalid")
	ErrInvalidManagerPassword      = errors.New("manager password must be at least 8 characters")
	ErrPlayerNameRequired          = errors.New("player name is required")
	ErrInvalidPlayerNumber         = errors.New("player number must be positive")
	ErrNotificationMessageRequired = errors.New("notification message is required")
	ErrInvalidNotificationPriority = errors.New("notification priority must be normal or urgent")
	ErrUnsupportedLogoType         = errors.New("unsupported logo content type")

	// Conflicts
	ErrConflict             = errors.New("concurrent modification conflict, retry the request")
	ErrTeamNameConflict     = errors.New("team name is already in use in this tournament")
	ErrPlayerNumberConflict = errors.New("shirt number is already taken in this team")
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrTeamHasMatches       = errors.New("team cannot be deleted while scheduled matches reference it")
	ErrMatchStatusLocked    = errors.New("completed matches change only through score submission")

	// Internal invariant violations; the operation is aborted and rolled back.
	ErrIntegrity = errors.New("data integrity violation")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	ErrLogoUploadDisabled = errors.New("logo storage is not configured")
)
