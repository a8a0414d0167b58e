package query

import (
	"context"

	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/cqrs"
	"github.com/Pravin1821/Secure-Online-Transaction-System/internal/models"
)

// ViewStore is the read-side store consumed by the query service. Reads go
// through the Redis cache with a Postgres fallback.
type ViewStore interface {
	GetByUserName(context.Context, string) (*models.AccountView, error)
	List(context.Context) ([]models.AccountView, error)
}

// AccountQueryService serves sanitized account views.
type AccountQueryService struct {
	views ViewStore
}

func NewAccountQueryService(views ViewStore) *AccountQueryService {
	return &AccountQueryService{views: views}
}

// ListAccounts returns all sanitized views in store order, no pagination.
func (s *AccountQueryService) ListAccounts() ([]models.AccountView, error) {
	return s.views.List(context.Background())
}

func (s *AccountQueryService) GetAccount(q cqrs.GetAccountQuery) (*models.AccountView, error) {
	return s.views.GetByUserName(context.Background(), q.UserName)
}
