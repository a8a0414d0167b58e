package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/apperrors"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	"github.com/lib/pq"
)

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (id, full_name, user_name, email, password_hash,
			mobile_number, address, security_question, roles, enabled,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(query,
		account.ID, account.FullName, account.UserName, account.Email, account.PasswordHash,
		account.MobileNumber, account.Address, account.SecurityQuestion,
		pq.Array(rolesToStrings(account.Roles)), account.Enabled,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return conflictFromConstraint(pqErr.Constraint)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByUserName fetches the full write model (including PasswordHash) for
// internal operations.
func (r *AccountWriteRepository) GetByUserName(userName string) (*models.Account, error) {
	query := `
		SELECT id, full_name, user_name, email, password_hash,
			   mobile_number, address, security_question, roles, enabled,
			   created_at, updated_at
		FROM accounts
		WHERE user_name = $1
	`
	var account models.Account
	var roles []string

	err := r.db.QueryRow(query, userName).Scan(
		&account.ID, &account.FullName, &account.UserName, &account.Email, &account.PasswordHash,
		&account.MobileNumber, &account.Address, &account.SecurityQuestion,
		pq.Array(&roles), &account.Enabled,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", userName, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.Roles = rolesFromStrings(roles)
	return &account, nil
}

// GetCredentials returns the credential bridge for the token layer.
func (r *AccountWriteRepository) GetCredentials(userName string) (*models.Credentials, error) {
	account, err := r.GetByUserName(userName)
	if err != nil {
		return nil, err
	}
	return &models.Credentials{
		UserName:     account.UserName,
		PasswordHash: account.PasswordHash,
		Enabled:      account.Enabled,
		Authorities:  account.Authorities(),
	}, nil
}

func (r *AccountWriteRepository) ExistsByUserName(userName string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM accounts WHERE user_name = $1)`, userName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *AccountWriteRepository) ExistsByEmail(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// Update overwrites the mutable attributes of an account in a single
// statement. The username is the immutable key; last write wins.
func (r *AccountWriteRepository) Update(account *models.Account) error {
	query := `
		UPDATE accounts
		SET full_name = $2, email = $3, password_hash = $4, mobile_number = $5,
			address = $6, security_question = $7, roles = $8, enabled = $9,
			updated_at = $10
		WHERE user_name = $1
	`
	result, err := r.db.Exec(query,
		account.UserName, account.FullName, account.Email, account.PasswordHash,
		account.MobileNumber, account.Address, account.SecurityQuestion,
		pq.Array(rolesToStrings(account.Roles)), account.Enabled,
		account.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return conflictFromConstraint(pqErr.Constraint)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s: %w", account.UserName, apperrors.ErrNotFound)
	}
	return nil
}

func (r *AccountWriteRepository) Delete(userName string) error {
	result, err := r.db.Exec(`DELETE FROM accounts WHERE user_name = $1`, userName)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s: %w", userName, apperrors.ErrNotFound)
	}
	return nil
}

func conflictFromConstraint(constraint string) error {
	if strings.Contains(constraint, "email") {
		return fmt.Errorf("email is already in use: %w", apperrors.ErrConflict)
	}
	return fmt.Errorf("username is already taken: %w", apperrors.ErrConflict)
}

func rolesToStrings(roles []models.Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}

func rolesFromStrings(values []string) []models.Role {
	out := make([]models.Role, 0, len(values))
	for _, v := range values {
		out = append(out, models.Role(v))
	}
	return out
}
