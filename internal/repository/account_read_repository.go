package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/apperrors"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
	appredis "github.com/Pravin1821/Secure-Online-Transaction-System/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository handles all read operations for accounts.
// It uses Redis as the primary read store, falling back to PostgreSQL on a miss.
type AccountReadRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[models.AccountView]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: appredis.NewViewCache[models.AccountView](redisClient, 0),
	}
}

// GetByUserName returns an AccountView from Redis first, then PostgreSQL.
func (r *AccountReadRepository) GetByUserName(ctx context.Context, userName string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + userName

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	// Fallback: PostgreSQL
	query := `
		SELECT id, full_name, user_name, email, mobile_number, address,
			   created_at, updated_at
		FROM accounts
		WHERE user_name = $1
	`
	var view models.AccountView
	pgErr := r.db.QueryRowContext(ctx, query, userName).Scan(
		&view.ID, &view.FullName, &view.UserName, &view.Email,
		&view.MobileNumber, &view.Address,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, fmt.Errorf("account %s: %w", userName, apperrors.ErrNotFound)
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}

	// Warm the cache
	r.CacheView(ctx, &view)
	return &view, nil
}

// List returns the sanitized views of all accounts in store order.
func (r *AccountReadRepository) List(ctx context.Context) ([]models.AccountView, error) {
	query := `
		SELECT id, full_name, user_name, email, mobile_number, address,
			   created_at, updated_at
		FROM accounts
		ORDER BY created_at, user_name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	views := []models.AccountView{}
	for rows.Next() {
		var view models.AccountView
		if err := rows.Scan(
			&view.ID, &view.FullName, &view.UserName, &view.Email,
			&view.MobileNumber, &view.Address,
			&view.CreatedAt, &view.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return views, nil
}

// CacheView stores or refreshes the Redis read model for an account.
// Called by the command service after every mutation.
func (r *AccountReadRepository) CacheView(ctx context.Context, view *models.AccountView) {
	r.cache.Set(ctx, accountViewKeyPrefix+view.UserName, view)
}

// InvalidateView removes the Redis read model entry for a deleted account.
func (r *AccountReadRepository) InvalidateView(ctx context.Context, userName string) {
	r.cache.Delete(ctx, accountViewKeyPrefix+userName)
}
