package repositories

import (
	stderrors "errors"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferSearchFilter narrows a transfer search. Nil fields are ignored.
type TransferSearchFilter struct {
	Status        *string
	FromAccountID *uint
	ToAccountID   *uint
	Currency      *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// TransferSearchPage is one page of search results. HasMore is derived by
// fetching limit+1 rows, so no separate count query runs.
type TransferSearchPage struct {
	Items   []models.Transfer
	HasMore bool
}

// OwnerAccountSlice is the caller-owned side of a payment, balance included.
type OwnerAccountSlice struct {
	ID       uint            `json:"id"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	IsActive bool            `json:"is_active"`
}

// CounterpartyAccountRef identifies the other side without exposing its
// balance or owner.
type CounterpartyAccountRef struct {
	ID       uint   `json:"id"`
	Currency string `json:"currency"`
}

// PaymentDetails is the single-row join of a transfer and both its accounts.
type PaymentDetails struct {
	ID          uint                   `json:"id"`
	Status      string                 `json:"status"`
	Kind        string                 `json:"kind"`
	From        OwnerAccountSlice      `json:"from"`
	To          CounterpartyAccountRef `json:"to"`
	Amount      decimal.Decimal        `json:"amount"`
	Currency    string                 `json:"currency"`
	Description *string                `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// PaymentRepository is the transfer/refund engine and its read paths. Each
// write operation runs as exactly one database transaction; concurrent
// correctness is delegated to row locks acquired in canonical order.
type PaymentRepository interface {
	CreateTransfer(initiatedBy, fromAccountID, toAccountID uint, amount decimal.Decimal, description *string) (*models.Transfer, error)
	CreateRefund(initiatedBy, originalPaymentID uint) (*models.Transfer, error)
	FindPaymentDetails(initiatedBy, paymentID uint) (*PaymentDetails, error)
	SearchTransfers(initiatedBy uint, filter TransferSearchFilter, limit int, offset int) (*TransferSearchPage, error)
	ListRefunds(initiatedBy, originalPaymentID uint) ([]models.Transfer, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// newTransferRecord builds a TRANSFER row. RefundOf stays nil; refund rows
// are only constructible through newRefundRecord.
func newTransferRecord(initiatedBy, fromID, toID uint, amount decimal.Decimal, currency, status string, description *string) *models.Transfer {
	return &models.Transfer{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Currency:      currency,
		Status:        status,
		Kind:          models.PaymentKindTransfer,
		Description:   description,
		Reference:     uuid.NewString(),
		InitiatedBy:   initiatedBy,
	}
}

// newRefundRecord builds a REFUND row pointing at the original transfer. The
// amount, currency and account pair always mirror the original; the REFUND
// kind means the movement runs in the reverse direction.
func newRefundRecord(original *models.Transfer, status string) *models.Transfer {
	refundOf := original.ID
	return &models.Transfer{
		FromAccountID: original.FromAccountID,
		ToAccountID:   original.ToAccountID,
		Amount:        original.Amount,
		Currency:      original.Currency,
		Status:        status,
		Kind:          models.PaymentKindRefund,
		RefundOf:      &refundOf,
		Reference:     uuid.NewString(),
		InitiatedBy:   original.InitiatedBy,
	}
}

// CreateTransfer moves amount between two accounts atomically.
//
// Both account rows are locked in ascending-id order regardless of direction.
// Failures before both accounts are resolved and caller-owned roll back
// without writing anything; failures after that point commit a FAILED audit
// row and surface the reason. No balance mutation ever accompanies a failure.
func (r *paymentRepository) CreateTransfer(initiatedBy, fromAccountID, toAccountID uint, amount decimal.Decimal, description *string) (*models.Transfer, error) {
	amount, err := NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errors.BadRequest("amount must be positive")
	}

	var created *models.Transfer
	var failure *errors.DomainError

	err = r.db.Transaction(func(tx *gorm.DB) error {
		firstID, secondID := CanonicalLockOrder(fromAccountID, toAccountID)

		a1, err := lockAccount(tx, firstID)
		if err != nil {
			return err
		}
		a2, err := lockAccount(tx, secondID)
		if err != nil {
			return err
		}

		from, to := a1, a2
		if a1.ID != fromAccountID {
			from, to = a2, a1
		}

		// Foreign accounts are indistinguishable from absent ones.
		if from.OwnerID != initiatedBy {
			return errors.NotFound(ReasonAccountNotFound)
		}

		if reason, failed := firstTransferFailure(from, to, amount); failed {
			record := newTransferRecord(initiatedBy, fromAccountID, toAccountID,
				amount, from.Currency, models.PaymentStatusFailed, description)
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			// Commit the audit row, surface the reason afterwards.
			failure = failureError(reason)
			return nil
		}

		if err := applyBalanceDelta(tx, from.ID, amount.Neg()); err != nil {
			return err
		}
		if err := applyBalanceDelta(tx, to.ID, amount); err != nil {
			return err
		}

		record := newTransferRecord(initiatedBy, fromAccountID, toAccountID,
			amount, from.Currency, models.PaymentStatusCompleted, description)
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	return created, nil
}

// CreateRefund reverses a COMPLETED transfer at most once.
//
// The original row is locked first, scoped to the initiator, which closes the
// race between two concurrent refund attempts: the uniqueness check runs
// under that lock. Account locks then follow the same canonical order as
// CreateTransfer.
func (r *paymentRepository) CreateRefund(initiatedBy, originalPaymentID uint) (*models.Transfer, error) {
	var created *models.Transfer
	var failure *errors.DomainError

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var original models.Transfer
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND initiated_by = ?", originalPaymentID, initiatedBy).
			Take(&original).Error
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NotFound(ReasonPaymentNotFound)
			}
			return err
		}

		if !models.ValidStatus(original.Status) || !models.ValidKind(original.Kind) {
			return errors.Internal("invalid payment record")
		}
		if original.Kind != models.PaymentKindTransfer || original.Status != models.PaymentStatusCompleted {
			return errors.Conflict(ReasonRefundNotAllowed)
		}

		var refunds int64
		if err := tx.Model(&models.Transfer{}).
			Where("refund_of = ?", original.ID).
			Count(&refunds).Error; err != nil {
			return err
		}
		if refunds > 0 {
			return errors.Conflict(ReasonRefundExists)
		}

		firstID, secondID := CanonicalLockOrder(original.FromAccountID, original.ToAccountID)

		a1, err := lockAccount(tx, firstID)
		if err != nil {
			return err
		}
		a2, err := lockAccount(tx, secondID)
		if err != nil {
			return err
		}

		from, to := a1, a2
		if a1.ID != original.FromAccountID {
			from, to = a2, a1
		}

		if reason, failed := firstRefundFailure(initiatedBy, from, to, original.Amount); failed {
			record := newRefundRecord(&original, models.PaymentStatusFailed)
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			failure = failureError(reason)
			return nil
		}

		// Reverse of the original movement.
		if err := applyBalanceDelta(tx, to.ID, original.Amount.Neg()); err != nil {
			return err
		}
		if err := applyBalanceDelta(tx, from.ID, original.Amount); err != nil {
			return err
		}

		record := newRefundRecord(&original, models.PaymentStatusCompleted)
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	return created, nil
}

type paymentDetailsRow struct {
	ID           uint
	Status       string
	Kind         string
	Amount       decimal.Decimal
	Currency     string
	Description  *string
	CreatedAt    time.Time
	FromID       uint
	FromCurrency string
	FromBalance  decimal.Decimal
	FromActive   bool
	ToID         uint
	ToCurrency   string
}

// FindPaymentDetails joins a transfer with both accounts, scoped to the
// initiator. Read-only, no locks.
func (r *paymentRepository) FindPaymentDetails(initiatedBy, paymentID uint) (*PaymentDetails, error) {
	var row paymentDetailsRow
	err := r.db.Table("transfers AS t").
		Select(`t.id, t.status, t.kind, t.amount, t.currency, t.description, t.created_at,
			fa.id AS from_id, fa.currency AS from_currency, fa.balance AS from_balance, fa.is_active AS from_active,
			ta.id AS to_id, ta.currency AS to_currency`).
		Joins("JOIN accounts AS fa ON fa.id = t.from_account_id").
		Joins("JOIN accounts AS ta ON ta.id = t.to_account_id").
		Where("t.id = ? AND t.initiated_by = ?", paymentID, initiatedBy).
		Take(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(ReasonPaymentNotFound)
		}
		return nil, err
	}

	if !models.ValidStatus(row.Status) || !models.ValidKind(row.Kind) {
		return nil, errors.Internal("invalid payment record")
	}

	return &PaymentDetails{
		ID:     row.ID,
		Status: row.Status,
		Kind:   row.Kind,
		From: OwnerAccountSlice{
			ID:       row.FromID,
			Currency: normalizeCurrency(row.FromCurrency),
			Balance:  row.FromBalance,
			IsActive: row.FromActive,
		},
		To: CounterpartyAccountRef{
			ID:       row.ToID,
			Currency: normalizeCurrency(row.ToCurrency),
		},
		Amount:      row.Amount,
		Currency:    normalizeCurrency(row.Currency),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}, nil
}

// SearchTransfers returns one page of the initiator's transfers, newest
// first, id as the tie-break for equal timestamps.
func (r *paymentRepository) SearchTransfers(initiatedBy uint, filter TransferSearchFilter, limit int, offset int) (*TransferSearchPage, error) {
	q := r.db.Model(&models.Transfer{}).Where("initiated_by = ?", initiatedBy)

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.FromAccountID != nil {
		q = q.Where("from_account_id = ?", *filter.FromAccountID)
	}
	if filter.ToAccountID != nil {
		q = q.Where("to_account_id = ?", *filter.ToAccountID)
	}
	if filter.Currency != nil {
		q = q.Where("currency = ?", normalizeCurrency(*filter.Currency))
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	var rows []models.Transfer
	err := q.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	return &TransferSearchPage{Items: rows, HasMore: hasMore}, nil
}

// ListRefunds returns every refund of the given payment, oldest first. The
// original payment must belong to the initiator.
func (r *paymentRepository) ListRefunds(initiatedBy, originalPaymentID uint) ([]models.Transfer, error) {
	var original models.Transfer
	err := r.db.Where("id = ? AND initiated_by = ?", originalPaymentID, initiatedBy).
		Take(&original).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(ReasonPaymentNotFound)
		}
		return nil, err
	}

	var refunds []models.Transfer
	err = r.db.Where("refund_of = ? AND kind = ?", originalPaymentID, models.PaymentKindRefund).
		Order("created_at ASC").
		Find(&refunds).Error
	if err != nil {
		return nil, err
	}
	return refunds, nil
}
