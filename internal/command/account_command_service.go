package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/apperrors"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/cqrs"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/events"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/utils"
	"github.com/google/uuid"
)

// AccountStore is the write-side persistence consumed by the command service.
type AccountStore interface {
	Create(*models.Account) error
	GetByUserName(string) (*models.Account, error)
	ExistsByUserName(string) (bool, error)
	ExistsByEmail(string) (bool, error)
	Update(*models.Account) error
	Delete(string) error
}

// ViewCacher keeps the Redis read model in step with the write store.
type ViewCacher interface {
	CacheView(context.Context, *models.AccountView)
	InvalidateView(context.Context, string)
}

// EventPublisher emits account lifecycle events. Publish failures are logged,
// never surfaced to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountCommandService writes account state to PostgreSQL and keeps the
// Redis read model up to date.
type AccountCommandService struct {
	store     AccountStore
	views     ViewCacher
	publisher EventPublisher
}

func NewAccountCommandService(store AccountStore, views ViewCacher, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{
		store:     store,
		views:     views,
		publisher: publisher,
	}
}

// Register creates a new account with a freshly hashed password. The password
// confirmation must match and the username and email must both be unused.
func (s *AccountCommandService) Register(cmd cqrs.RegisterAccountCommand) (*models.AccountView, error) {
	if cmd.Password != cmd.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", apperrors.ErrValidation)
	}

	taken, err := s.store.ExistsByUserName(cmd.UserName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username is already taken: %w", apperrors.ErrConflict)
	}

	inUse, err := s.store.ExistsByEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, fmt.Errorf("email is already in use: %w", apperrors.ErrConflict)
	}

	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		ID:               uuid.NewString(),
		FullName:         cmd.FullName,
		UserName:         cmd.UserName,
		Email:            cmd.Email,
		PasswordHash:     passwordHash,
		MobileNumber:     cmd.MobileNumber,
		Address:          cmd.Address,
		SecurityQuestion: cmd.SecurityQuestion,
		Roles:            []models.Role{models.RoleUser},
		Enabled:          true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// The unique constraints catch the race between the existence checks
	// and the insert; the store reports that as a conflict too.
	if err := s.store.Create(account); err != nil {
		return nil, err
	}

	ctx := context.Background()
	view := account.View()
	s.views.CacheView(ctx, view)
	s.publish(ctx, events.AccountRegistered, events.AccountRegisteredEvent{
		AccountID: account.ID,
		UserName:  account.UserName,
		Email:     account.Email,
	})
	return view, nil
}

// Update overwrites the mutable attributes of the account. A non-blank
// password is re-hashed; a blank one leaves the stored hash untouched.
func (s *AccountCommandService) Update(cmd cqrs.UpdateAccountCommand) (*models.AccountView, error) {
	account, err := s.store.GetByUserName(cmd.UserName)
	if err != nil {
		return nil, err
	}

	account.FullName = cmd.FullName
	account.Email = cmd.Email
	account.MobileNumber = cmd.MobileNumber
	account.Address = cmd.Address
	account.SecurityQuestion = cmd.SecurityQuestion
	if cmd.Password != "" {
		if cmd.Password != cmd.ConfirmPassword {
			return nil, fmt.Errorf("passwords do not match: %w", apperrors.ErrValidation)
		}
		passwordHash, err := utils.HashPassword(cmd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = passwordHash
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(account); err != nil {
		return nil, err
	}

	ctx := context.Background()
	view := account.View()
	s.views.CacheView(ctx, view)
	s.publish(ctx, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID: account.ID,
		UserName:  account.UserName,
		Email:     account.Email,
	})
	return view, nil
}

// Delete removes the account by username.
func (s *AccountCommandService) Delete(cmd cqrs.DeleteAccountCommand) error {
	if err := s.store.Delete(cmd.UserName); err != nil {
		return err
	}

	ctx := context.Background()
	s.views.InvalidateView(ctx, cmd.UserName)
	s.publish(ctx, events.AccountDeleted, events.AccountDeletedEvent{
		UserName: cmd.UserName,
	})
	return nil
}

// UpdateRoles replaces the account's role set.
func (s *AccountCommandService) UpdateRoles(cmd cqrs.UpdateRolesCommand) (*models.AccountView, error) {
	for _, role := range cmd.Roles {
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %s: %w", role, apperrors.ErrValidation)
		}
	}
	if len(cmd.Roles) == 0 {
		return nil, fmt.Errorf("at least one role is required: %w", apperrors.ErrValidation)
	}

	account, err := s.store.GetByUserName(cmd.UserName)
	if err != nil {
		return nil, err
	}
	account.Roles = cmd.Roles
	account.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(account); err != nil {
		return nil, err
	}

	ctx := context.Background()
	view := account.View()
	s.views.CacheView(ctx, view)
	s.publish(ctx, events.AccountRoleChanged, events.AccountRoleChangedEvent{
		UserName:    account.UserName,
		Authorities: account.Authorities(),
	})
	return view, nil
}

// UpdateStatus enables or disables login for the account.
func (s *AccountCommandService) UpdateStatus(cmd cqrs.UpdateStatusCommand) (*models.AccountView, error) {
	account, err := s.store.GetByUserName(cmd.UserName)
	if err != nil {
		return nil, err
	}
	account.Enabled = cmd.Enabled
	account.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(account); err != nil {
		return nil, err
	}

	ctx := context.Background()
	view := account.View()
	s.views.CacheView(ctx, view)
	s.publish(ctx, events.AccountStatusChanged, events.AccountStatusChangedEvent{
		UserName: account.UserName,
		Enabled:  account.Enabled,
	})
	return view, nil
}

func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
