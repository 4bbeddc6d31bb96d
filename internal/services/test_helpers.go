package services

import (
	"context"

	"github.com/vestibule-auth/vestibule/internal/models"
)

// MockAccountRepository implements AccountRepository for testing
type MockAccountRepository struct {
	FindByLoginFunc       func(ctx context.Context, method, login string) (*models.Account, error)
	VerifyPasswordFunc    func(method string, acct *models.Account, password string) (bool, error)
	GetByIDFunc           func(ctx context.Context, id string) (*models.Account, error)
	SaveLoginMetadataFunc func(ctx context.Context, acct *models.Account) error

	SavedAccounts []*models.Account
}

func (m *MockAccountRepository) FindByLogin(ctx context.Context, method, login string) (*models.Account, error) {
	if m.FindByLoginFunc != nil {
		return m.FindByLoginFunc(ctx, method, login)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) VerifyPassword(method string, acct *models.Account, password string) (bool, error) {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(method, acct, password)
	}
	return false, nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockAccountRepository) SaveLoginMetadata(ctx context.Context, acct *models.Account) error {
	m.SavedAccounts = append(m.SavedAccounts, acct)
	if m.SaveLoginMetadataFunc != nil {
		return m.SaveLoginMetadataFunc(ctx, acct)
	}
	return nil
}
