package limits

import (
	"context"
	"testing"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLimitsRepository struct {
	mock.Mock
}

func (m *MockLimitsRepository) FindProfile(ownerID uint) (*models.LimitProfile, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LimitProfile), args.Error(1)
}

func (m *MockLimitsRepository) SpentBetween(ownerID uint, from, to time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

type fixedRates struct {
	perUnit map[string]decimal.Decimal
}

func (f fixedRates) RubPerUnit(_ context.Context, currency string) (decimal.Decimal, error) {
	if currency == "RUB" {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := f.perUnit[currency]
	if !ok {
		return decimal.Zero, errors.BadRequest("no exchange rate for " + currency)
	}
	return rate, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProfile() *models.LimitProfile {
	return &models.LimitProfile{
		OwnerID:      10,
		BaseCurrency: "RUB",
		PerTxn:       dec("1000"),
		Daily:        dec("5000"),
		Monthly:      dec("20000"),
		Currencies:   "RUB,USD",
	}
}

func newTestService(repo *MockLimitsRepository, rates RateProvider) *service {
	return &service{
		repo:  repo,
		rates: rates,
		now:   func() time.Time { return time.Date(2026, 8, 15, 13, 30, 0, 0, time.UTC) },
	}
}

func TestService_GetUsage(t *testing.T) {
	repo := new(MockLimitsRepository)
	svc := newTestService(repo, fixedRates{perUnit: map[string]decimal.Decimal{"USD": dec("80")}})

	dayStart := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	repo.On("FindProfile", uint(10)).Return(testProfile(), nil)
	repo.On("SpentBetween", uint(10), dayStart, dayStart.Add(24*time.Hour)).
		Return(map[string]decimal.Decimal{"RUB": dec("100"), "USD": dec("10")}, nil)
	repo.On("SpentBetween", uint(10), monthStart, monthStart.AddDate(0, 1, 0)).
		Return(map[string]decimal.Decimal{"RUB": dec("4000")}, nil)

	usage, err := svc.GetUsage(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, "2026-08-15", usage.Day)
	assert.Equal(t, "2026-08-01", usage.MonthStart)
	// 100 RUB + 10 USD * 80
	assert.True(t, usage.DailyUsed.Equal(dec("900")))
	assert.True(t, usage.DailyRemaining.Equal(dec("4100")))
	assert.True(t, usage.MonthlyUsed.Equal(dec("4000")))
	assert.True(t, usage.MonthlyRemaining.Equal(dec("16000")))
	repo.AssertExpectations(t)
}

func TestService_CheckTransfer(t *testing.T) {
	rates := fixedRates{perUnit: map[string]decimal.Decimal{"USD": dec("80")}}
	noSpend := map[string]decimal.Decimal{}

	t.Run("owners without a profile are unrestricted", func(t *testing.T) {
		repo := new(MockLimitsRepository)
		repo.On("FindProfile", uint(10)).Return(nil, errors.NotFound("limits profile not found"))

		svc := newTestService(repo, rates)
		assert.NoError(t, svc.CheckTransfer(context.Background(), 10, "RUB", dec("999999")))
	})

	t.Run("disallowed currency", func(t *testing.T) {
		repo := new(MockLimitsRepository)
		repo.On("FindProfile", uint(10)).Return(testProfile(), nil)

		svc := newTestService(repo, rates)
		err := svc.CheckTransfer(context.Background(), 10, "EUR", dec("10"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("per-transaction limit checks the converted amount", func(t *testing.T) {
		repo := new(MockLimitsRepository)
		repo.On("FindProfile", uint(10)).Return(testProfile(), nil)

		svc := newTestService(repo, rates)
		// 13 USD * 80 = 1040 RUB > 1000
		err := svc.CheckTransfer(context.Background(), 10, "USD", dec("13"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "per-transaction limit")
	})

	t.Run("daily limit accounts for prior spend", func(t *testing.T) {
		repo := new(MockLimitsRepository)
		repo.On("FindProfile", uint(10)).Return(testProfile(), nil)
		repo.On("SpentBetween", uint(10), mock.Anything, mock.Anything).
			Return(map[string]decimal.Decimal{"RUB": dec("4500")}, nil).Once()
		repo.On("SpentBetween", uint(10), mock.Anything, mock.Anything).
			Return(noSpend, nil)

		svc := newTestService(repo, rates)
		err := svc.CheckTransfer(context.Background(), 10, "RUB", dec("600"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "daily limit")
	})

	t.Run("monthly limit accounts for prior spend", func(t *testing.T) {
		repo := new(MockLimitsRepository)
		repo.On("FindProfile", uint(10)).Return(testProfile(), nil)
		repo.On("SpentBetween", uint(10), mock.Anything, mock.Anything).
			Return(noSpend, nil).Once()
		repo.On("SpentBetween", uint(10), mock.Anything, mock.Anything).
			Return(map[string]decimal.Decimal{"RUB": dec("19900")}, nil)

		svc := newTestService(repo, rates)
		err := svc.CheckTransfer(context.Background(), 10, "RUB", dec("200"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "monthly limit")
	})

	t.Run("transfer inside all limits passes", func(t *testing.T) {
		repo := new(MockLimitsRepository)
		repo.On("FindProfile", uint(10)).Return(testProfile(), nil)
		repo.On("SpentBetween", uint(10), mock.Anything, mock.Anything).Return(noSpend, nil)

		svc := newTestService(repo, rates)
		assert.NoError(t, svc.CheckTransfer(context.Background(), 10, "USD", dec("12")))
	})
}

func TestRemaining(t *testing.T) {
	assert.True(t, Remaining(dec("100"), dec("40")).Equal(dec("60")))
	assert.True(t, Remaining(dec("100"), dec("100")).Equal(dec("0")))
	assert.True(t, Remaining(dec("100"), dec("150")).Equal(dec("0")))
}
