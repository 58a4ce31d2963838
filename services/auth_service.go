package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/utils"
)

// JWT claim names shared with the authentication middleware.
const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
	ClaimEmail  = "email"
)

const DefaultTokenTTL = 24 * time.Hour

const (
	generatedPasswordLength = 20
	minPasswordLength       = 8
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// RegisterAdmin creates an administrator or resets the password of an
	// existing one with the same email.
	RegisterAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

// ManagerDirectory issues the identities of team managers. Calls take the
// executor of the surrounding transaction so the identity is written or
// rolled back together with the team.
type ManagerDirectory interface {
	// EnsureManager binds the manager identity for email to teamID, creating
	// it when the email is unknown. An empty password keeps the password of an
	// existing identity and generates one for a new identity.
	EnsureManager(ctx context.Context, exec repositories.SQLExecutor, name, email, password string, teamID int) (*ManagerAccount, error)
	UpdateManagerEmail(ctx context.Context, exec repositories.SQLExecutor, userID int, email string) error
}

// ManagerAccount is the identity EnsureManager bound to a team.
// IssuedPassword is set only when the password was generated.
type ManagerAccount struct {
	UserID         int
	IssuedPassword string
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthService returns a service that implements both AuthService and
// ManagerDirectory.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret []byte, tokenTTL time.Duration, logger *slog.Logger) *authService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{AccessToken: token, User: user}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		ClaimUserID: user.ID,
		ClaimRole:   string(user.Role),
		ClaimEmail:  user.Email,
		"exp":       now.Add(s.tokenTTL).Unix(),
		"iat":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) RegisterAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidationFailed)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, nil, email)
	switch {
	case err == nil:
		existing.Name = name
		existing.PasswordHash = hash
		existing.Role = models.RoleAdmin
		existing.TeamID = nil
		if err := s.userRepo.Update(ctx, nil, existing); err != nil {
			return nil, fmt.Errorf("failed to update admin %d: %w", existing.ID, err)
		}
		existing.PasswordHash = ""
		return existing, nil
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) EnsureManager(ctx context.Context, exec repositories.SQLExecutor, name, email, password string, teamID int) (*ManagerAccount, error) {
	if password != "" && len(password) < minPasswordLength {
		return nil, ErrInvalidManagerPassword
	}

	existing, err := s.userRepo.GetByEmail(ctx, exec, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleManager {
			return nil, ErrUserEmailConflict
		}
		existing.TeamID = &teamID
		if password != "" {
			if existing.PasswordHash, err = hashPassword(password); err != nil {
				return nil, err
			}
		}
		if err := s.userRepo.Update(ctx, exec, existing); err != nil {
			return nil, fmt.Errorf("failed to bind manager %d to team %d: %w", existing.ID, teamID, err)
		}
		return &ManagerAccount{UserID: existing.ID}, nil
	case !errors.Is(err, repositories.ErrUserNotFound):
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	account := &ManagerAccount{}
	if password == "" {
		if password, err = utils.GeneratePassword(generatedPasswordLength); err != nil {
			return nil, err
		}
		account.IssuedPassword = password
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleManager,
		TeamID:       &teamID,
	}
	if err := s.userRepo.Create(ctx, exec, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create manager for team %d: %w", teamID, err)
	}

	account.UserID = user.ID
	s.logger.Info("manager identity issued", "user_id", user.ID, "team_id", teamID, "generated_password", account.IssuedPassword != "")
	return account, nil
}

func (s *authService) UpdateManagerEmail(ctx context.Context, exec repositories.SQLExecutor, userID int, email string) error {
	user, err := s.userRepo.GetByID(ctx, exec, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.Warn("manager identity missing, only the team email is updated", "user_id", userID)
			return nil
		}
		return fmt.Errorf("failed to load manager %d: %w", userID, err)
	}
	if strings.EqualFold(user.Email, email) {
		return nil
	}

	user.Email = email
	if err := s.userRepo.Update(ctx, exec, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to update email of manager %d: %w", userID, err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	return utils.HashPassword(password)
}
