package query

import (
	"fmt"
	"log"
	"time"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/apperrors"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/cqrs"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/middleware"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/utils"
)

const tokenTTL = 24 * time.Hour

// AccountSource is the credential-bearing store consumed during
// authentication. It is the only path that ever sees a password hash.
type AccountSource interface {
	GetByUserName(string) (*models.Account, error)
	GetCredentials(string) (*models.Credentials, error)
}

// AuthQueryService verifies credentials and issues session tokens. There is
// no command side for auth because these operations don't mutate state.
type AuthQueryService struct {
	accounts AccountSource
}

func NewAuthQueryService(accounts AccountSource) *AuthQueryService {
	return &AuthQueryService{accounts: accounts}
}

// Login verifies the username/password pair against the stored bcrypt hash.
// Unknown usernames, disabled accounts and wrong passwords all fail with the
// same authentication error so callers can't probe which usernames exist.
func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (*models.AccountView, string, error) {
	creds, err := s.accounts.GetCredentials(cmd.UserName)
	if err != nil {
		return nil, "", fmt.Errorf("invalid username or password: %w", apperrors.ErrAuthentication)
	}
	if !creds.Enabled {
		log.Printf("Login rejected for disabled account %s", cmd.UserName)
		return nil, "", fmt.Errorf("invalid username or password: %w", apperrors.ErrAuthentication)
	}
	if !utils.CheckPassword(cmd.Password, creds.PasswordHash) {
		return nil, "", fmt.Errorf("invalid username or password: %w", apperrors.ErrAuthentication)
	}

	token, err := middleware.GenerateToken(creds.UserName, creds.Authorities, tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	account, err := s.accounts.GetByUserName(cmd.UserName)
	if err != nil {
		return nil, "", fmt.Errorf("invalid username or password: %w", apperrors.ErrAuthentication)
	}
	return account.View(), token, nil
}

// GetCurrentUser returns the sanitized view of an already-authenticated user.
func (s *AuthQueryService) GetCurrentUser(userName string) (*models.AccountView, error) {
	account, err := s.accounts.GetByUserName(userName)
	if err != nil {
		return nil, err
	}
	return account.View(), nil
}

// GetCredentials exposes the credential bridge consumed by Login. It stays
// exported so alternative session backends can verify credentials without
// reaching into the write store directly.
func (s *AuthQueryService) GetCredentials(q cqrs.GetCredentialsQuery) (*models.Credentials, error) {
	return s.accounts.GetCredentials(q.UserName)
}
