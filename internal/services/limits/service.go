// Package limits reports and enforces per-owner spending limits. Enforcement
// runs as a pre-transfer check in the validation layer; the transfer engine
// itself never consults limits.
package limits

import (
	"context"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"

	"github.com/shopspring/decimal"
)

// RateProvider converts currencies into rubles for limit accounting.
type RateProvider interface {
	RubPerUnit(ctx context.Context, currency string) (decimal.Decimal, error)
}

// UsageReport describes how much of the daily and monthly limit is consumed,
// in the profile's base currency.
type UsageReport struct {
	OwnerID          uint            `json:"owner_id"`
	Day              string          `json:"day"`
	DailyLimit       decimal.Decimal `json:"daily_limit"`
	DailyUsed        decimal.Decimal `json:"daily_used"`
	DailyRemaining   decimal.Decimal `json:"daily_remaining"`
	MonthStart       string          `json:"month_start"`
	MonthlyLimit     decimal.Decimal `json:"monthly_limit"`
	MonthlyUsed      decimal.Decimal `json:"monthly_used"`
	MonthlyRemaining decimal.Decimal `json:"monthly_remaining"`
}

type Service interface {
	GetProfile(ownerID uint) (*models.LimitProfile, error)
	GetUsage(ctx context.Context, ownerID uint) (*UsageReport, error)
	CheckTransfer(ctx context.Context, ownerID uint, currency string, amount decimal.Decimal) error
}

type service struct {
	repo  repositories.LimitsRepository
	rates RateProvider
	now   func() time.Time
}

func NewService(repo repositories.LimitsRepository, rates RateProvider) Service {
	if repo == nil {
		panic("limits repository is required")
	}
	if rates == nil {
		panic("rate provider is required")
	}
	return &service{repo: repo, rates: rates, now: time.Now}
}

func (s *service) GetProfile(ownerID uint) (*models.LimitProfile, error) {
	return s.repo.FindProfile(ownerID)
}

func (s *service) GetUsage(ctx context.Context, ownerID uint) (*UsageReport, error) {
	profile, err := s.repo.FindProfile(ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	dailyUsed, err := s.usedBetween(ctx, ownerID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	monthlyUsed, err := s.usedBetween(ctx, ownerID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	return &UsageReport{
		OwnerID:          ownerID,
		Day:              dayStart.Format("2006-01-02"),
		DailyLimit:       profile.Daily,
		DailyUsed:        dailyUsed,
		DailyRemaining:   Remaining(profile.Daily, dailyUsed),
		MonthStart:       monthStart.Format("2006-01-02"),
		MonthlyLimit:     profile.Monthly,
		MonthlyUsed:      monthlyUsed,
		MonthlyRemaining: Remaining(profile.Monthly, monthlyUsed),
	}, nil
}

// CheckTransfer verifies an intended movement against the owner's profile.
// Owners without a profile are unrestricted.
func (s *service) CheckTransfer(ctx context.Context, ownerID uint, currency string, amount decimal.Decimal) error {
	profile, err := s.repo.FindProfile(ownerID)
	if err != nil {
		if de, ok := err.(*errors.DomainError); ok && de.Category == errors.CategoryNotFound {
			return nil
		}
		return err
	}

	if !profile.AllowsCurrency(currency) {
		return errors.Conflict("currency is not allowed by limits profile")
	}

	amountRub, err := s.toRub(ctx, currency, amount)
	if err != nil {
		return err
	}
	if amountRub.GreaterThan(profile.PerTxn) {
		return errors.Conflict("per-transaction limit exceeded")
	}

	usage, err := s.GetUsage(ctx, ownerID)
	if err != nil {
		return err
	}
	if amountRub.GreaterThan(usage.DailyRemaining) {
		return errors.Conflict("daily limit exceeded")
	}
	if amountRub.GreaterThan(usage.MonthlyRemaining) {
		return errors.Conflict("monthly limit exceeded")
	}
	return nil
}

func (s *service) usedBetween(ctx context.Context, ownerID uint, from, to time.Time) (decimal.Decimal, error) {
	spent, err := s.repo.SpentBetween(ownerID, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for currency, amount := range spent {
		rub, err := s.toRub(ctx, currency, amount)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(rub)
	}
	return total, nil
}

func (s *service) toRub(ctx context.Context, currency string, amount decimal.Decimal) (decimal.Decimal, error) {
	rate, err := s.rates.RubPerUnit(ctx, currency)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// Remaining is the non-negative difference between a limit and its usage.
func Remaining(limit, used decimal.Decimal) decimal.Decimal {
	remaining := limit.Sub(used)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
