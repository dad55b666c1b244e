package repositories

import (
	stderrors "errors"
	"strings"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository persists accounts and exposes the locked-read and
// balance-delta primitives the payment engine runs inside its transaction.
type AccountRepository interface {
	Create(account *models.Account) error
	FindByID(id uint) (*models.Account, error)
	Deposit(accountID uint, amount decimal.Decimal) (*models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *models.Account) error {
	account.Balance = decimal.Zero
	account.IsActive = true
	account.Currency = strings.ToUpper(strings.TrimSpace(account.Currency))
	return r.db.Create(account).Error
}

func (r *accountRepository) FindByID(id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.Take(&account, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(ReasonAccountNotFound)
		}
		return nil, err
	}
	return &account, nil
}

// Deposit adds amount to the account balance under a row lock.
func (r *accountRepository) Deposit(accountID uint, amount decimal.Decimal) (*models.Account, error) {
	var account models.Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockAccount(tx, accountID)
		if err != nil {
			return err
		}
		if !locked.IsActive {
			return errors.Conflict(ReasonAccountNotActive)
		}
		if err := applyBalanceDelta(tx, accountID, amount); err != nil {
			return err
		}
		return tx.Take(&account, accountID).Error
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// lockAccount reads an account row under an exclusive row lock. It must be
// called on a transaction handle; the lock is held until commit or rollback.
func lockAccount(tx *gorm.DB, id uint) (*lockedAccount, error) {
	var account models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&account, id).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(ReasonAccountNotFound)
		}
		return nil, err
	}
	return &lockedAccount{
		ID:       account.ID,
		OwnerID:  account.OwnerID,
		Currency: normalizeCurrency(account.Currency),
		Balance:  account.Balance,
		IsActive: account.IsActive,
	}, nil
}

// applyBalanceDelta adds a signed amount to the stored balance. Exactly one
// row must be affected; anything else means the row vanished mid-transaction.
func applyBalanceDelta(tx *gorm.DB, id uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errors.NotFound(ReasonAccountNotFound)
	}
	return nil
}
