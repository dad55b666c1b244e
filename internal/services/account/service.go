// Package account covers account opening, owner-scoped lookup and deposits.
package account

import (
	"strings"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"
	"ledgerpay/internal/repositories"

	"github.com/shopspring/decimal"
)

// OpenAccountRequest opens a new account for the caller.
type OpenAccountRequest struct {
	Currency string `json:"currency"`
	Alias    string `json:"alias"`
}

// DepositRequest adds funds to an owned account.
type DepositRequest struct {
	Amount string `json:"amount"`
}

type Service interface {
	OpenAccount(ownerID uint, req OpenAccountRequest) (*models.Account, error)
	GetAccount(ownerID, accountID uint) (*models.Account, error)
	Deposit(ownerID, accountID uint, req DepositRequest) (*models.Account, error)
}

type service struct {
	repo repositories.AccountRepository
}

func NewService(repo repositories.AccountRepository) Service {
	if repo == nil {
		panic("account repository is required")
	}
	return &service{repo: repo}
}

func (s *service) OpenAccount(ownerID uint, req OpenAccountRequest) (*models.Account, error) {
	account := &models.Account{
		OwnerID:  ownerID,
		Currency: strings.ToUpper(strings.TrimSpace(req.Currency)),
	}
	if alias := strings.TrimSpace(req.Alias); alias != "" {
		account.Alias = &alias
	}
	if err := s.repo.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *service) GetAccount(ownerID, accountID uint) (*models.Account, error) {
	account, err := s.repo.FindByID(accountID)
	if err != nil {
		return nil, err
	}
	// Foreign accounts look absent.
	if account.OwnerID != ownerID {
		return nil, errors.NotFound("account not found")
	}
	return account, nil
}

func (s *service) Deposit(ownerID, accountID uint, req DepositRequest) (*models.Account, error) {
	account, err := s.GetAccount(ownerID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, errors.Conflict("account is not active")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, errors.BadRequest("amount must be a valid decimal number")
	}
	amount, derr := repositories.NormalizeAmount(amount)
	if derr != nil {
		return nil, derr
	}
	if !amount.IsPositive() {
		return nil, errors.BadRequest("amount must be positive")
	}

	return s.repo.Deposit(accountID, amount)
}
