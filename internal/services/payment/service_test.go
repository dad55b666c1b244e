package payment

import (
	"testing"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateTransfer(initiatedBy, fromAccountID, toAccountID uint, amount decimal.Decimal, description *string) (*models.Transfer, error) {
	args := m.Called(initiatedBy, fromAccountID, toAccountID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockPaymentRepository) CreateRefund(initiatedBy, originalPaymentID uint) (*models.Transfer, error) {
	args := m.Called(initiatedBy, originalPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockPaymentRepository) FindPaymentDetails(initiatedBy, paymentID uint) (*repositories.PaymentDetails, error) {
	args := m.Called(initiatedBy, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.PaymentDetails), args.Error(1)
}

func (m *MockPaymentRepository) SearchTransfers(initiatedBy uint, filter repositories.TransferSearchFilter, limit int, offset int) (*repositories.TransferSearchPage, error) {
	args := m.Called(initiatedBy, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.TransferSearchPage), args.Error(1)
}

func (m *MockPaymentRepository) ListRefunds(initiatedBy, originalPaymentID uint) ([]models.Transfer, error) {
	args := m.Called(initiatedBy, originalPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transfer), args.Error(1)
}

func TestService_CreateTransfer(t *testing.T) {
	t.Run("passes parsed amount and trimmed description through", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		want := &models.Transfer{ID: 7, Status: models.PaymentStatusCompleted}
		repo.On("CreateTransfer", uint(10), uint(1), uint(2),
			mock.MatchedBy(func(a decimal.Decimal) bool { return a.Equal(decimal.RequireFromString("10.25")) }),
			mock.MatchedBy(func(d *string) bool { return d != nil && *d == "lunch" }),
		).Return(want, nil)

		got, err := svc.CreateTransfer(10, CreateTransferRequest{
			FromAccountID: 1,
			ToAccountID:   2,
			Amount:        " 10.25 ",
			Description:   "  lunch  ",
		})
		assert.NoError(t, err)
		assert.Equal(t, want, got)
		repo.AssertExpectations(t)
	})

	t.Run("blank description becomes nil", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		repo.On("CreateTransfer", uint(10), uint(1), uint(2), mock.Anything,
			mock.MatchedBy(func(d *string) bool { return d == nil }),
		).Return(&models.Transfer{}, nil)

		_, err := svc.CreateTransfer(10, CreateTransferRequest{
			FromAccountID: 1, ToAccountID: 2, Amount: "1", Description: "   ",
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unparseable amount never reaches the repository", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		_, err := svc.CreateTransfer(10, CreateTransferRequest{
			FromAccountID: 1, ToAccountID: 2, Amount: "ten rubles",
		})
		assert.Error(t, err)
		de, ok := err.(*errors.DomainError)
		assert.True(t, ok)
		assert.Equal(t, errors.CategoryBadRequest, de.Category)
		repo.AssertNotCalled(t, "CreateTransfer",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_SearchPayments(t *testing.T) {
	t.Run("builds the filter from the raw query values", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		repo.On("SearchTransfers", uint(10),
			mock.MatchedBy(func(f repositories.TransferSearchFilter) bool {
				return f.Status != nil && *f.Status == models.PaymentStatusFailed &&
					f.FromAccountID != nil && *f.FromAccountID == 3 &&
					f.ToAccountID == nil &&
					f.Currency != nil && *f.Currency == "USD" &&
					f.CreatedFrom != nil && f.CreatedFrom.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) &&
					f.CreatedTo == nil
			}), 50, 0,
		).Return(&repositories.TransferSearchPage{Items: []models.Transfer{{ID: 1}}, HasMore: true}, nil)

		page, err := svc.SearchPayments(10, SearchRequest{
			Status:        "failed",
			FromAccountID: 3,
			Currency:      "usd",
			CreatedFrom:   "2026-01-01T00:00:00Z",
			Limit:         50,
		})
		assert.NoError(t, err)
		assert.True(t, page.HasMore)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 50, page.Limit)
		repo.AssertExpectations(t)
	})

	t.Run("invalid status is rejected before the query", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		_, err := svc.SearchPayments(10, SearchRequest{Status: "DONE", Limit: 50})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "SearchTransfers",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid timestamp is rejected before the query", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		_, err := svc.SearchPayments(10, SearchRequest{CreatedFrom: "yesterday", Limit: 50})
		assert.Error(t, err)
		de, ok := err.(*errors.DomainError)
		assert.True(t, ok)
		assert.Equal(t, errors.CategoryBadRequest, de.Category)
	})

	t.Run("empty page serializes as an empty slice", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		repo.On("SearchTransfers", uint(10), mock.Anything, 50, 0).
			Return(&repositories.TransferSearchPage{Items: nil, HasMore: false}, nil)

		page, err := svc.SearchPayments(10, SearchRequest{Limit: 50})
		assert.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore)
	})
}

func TestService_ListRefunds(t *testing.T) {
	t.Run("nil result becomes an empty slice", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		repo.On("ListRefunds", uint(10), uint(4)).Return([]models.Transfer(nil), nil)

		refunds, err := svc.ListRefunds(10, 4)
		assert.NoError(t, err)
		assert.NotNil(t, refunds)
		assert.Empty(t, refunds)
	})

	t.Run("repository error passes through", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		svc := NewService(repo)

		repo.On("ListRefunds", uint(10), uint(4)).
			Return(nil, errors.NotFound("payment not found"))

		_, err := svc.ListRefunds(10, 4)
		assert.Error(t, err)
		assert.Equal(t, "payment not found", err.Error())
	})
}
