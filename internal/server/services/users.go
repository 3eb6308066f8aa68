// Package services holds the application logic behind the HTTP API:
// accounts and tokens, vessel calls, and e-mail notifications.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/shipagency/internal/common"
	"github.com/dmitrijs2005/shipagency/internal/logging"
	"github.com/dmitrijs2005/shipagency/internal/models"
	"github.com/dmitrijs2005/shipagency/internal/server/auth"
	"github.com/dmitrijs2005/shipagency/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      *auth.Issuer
	bcryptCost  int
	logger      logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, tokens *auth.Issuer, bcryptCost int, l logging.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
		logger:      l.With("module", "users"),
	}
}

func credentialsError(email, password string) error {
	v := common.NewValidationError("Email and password are required")
	if strings.TrimSpace(email) == "" {
		v.Add("email", "Email is required")
	}
	if password == "" {
		v.Add("password", "Password is required")
	}
	return v.OrNil()
}

// Register creates a user with role "user" and returns a token for it.
func (s *UserService) Register(ctx context.Context, email, password string) (string, *models.User, error) {
	if err := credentialsError(email, password); err != nil {
		return "", nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		v := common.NewValidationError("Please provide a valid email")
		v.Add("email", "Please provide a valid email")
		return "", nil, v
	}

	user, err := s.createUser(ctx, email, password, models.RoleUser)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return token, user, nil
}

func (s *UserService) createUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users().Create(ctx, &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login checks the password and issues a fresh token. Unknown e-mail and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if err := credentialsError(email, password); err != nil {
		return "", nil, err
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users().GetByID(ctx, id)
}

// Authenticate resolves a bearer token to a stored user. A valid token whose
// subject no longer exists yields common.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// Cleanup deletes every non-admin account and reports how many went.
func (s *UserService) Cleanup(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Users().DeleteAllExceptRole(ctx, models.RoleAdmin)
	if err != nil {
		return 0, err
	}
	s.logger.Warn(ctx, "non-admin users deleted", "count", n)
	return n, nil
}

// EnsureAdmin seeds an admin account when none exists yet. It does nothing
// (and reports false) if password is empty or an admin is already present.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if password == "" {
		return false, nil
	}

	exists, err := s.repomanager.Users().ExistsWithRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.createUser(ctx, email, password, models.RoleAdmin); err != nil {
		return false, err
	}

	s.logger.Info(ctx, "admin user seeded", "email", email)
	return true, nil
}
