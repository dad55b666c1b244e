package repositories

import (
	stderrors "errors"
	"time"

	"ledgerpay/internal/errors"
	"ledgerpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LimitsRepository reads limit profiles and aggregates spending from the
// transfer log. Usage counts COMPLETED TRANSFER rows only; failed attempts
// and refunds do not consume limit.
type LimitsRepository interface {
	FindProfile(ownerID uint) (*models.LimitProfile, error)
	SpentBetween(ownerID uint, from, to time.Time) (map[string]decimal.Decimal, error)
}

type limitsRepository struct {
	db *gorm.DB
}

func NewLimitsRepository(db *gorm.DB) LimitsRepository {
	return &limitsRepository{db: db}
}

func (r *limitsRepository) FindProfile(ownerID uint) (*models.LimitProfile, error) {
	var profile models.LimitProfile
	err := r.db.Where("owner_id = ?", ownerID).Take(&profile).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("limits profile not found")
		}
		return nil, err
	}
	return &profile, nil
}

type spentRow struct {
	Currency string
	Total    decimal.Decimal
}

// SpentBetween sums completed outgoing transfer amounts per currency for the
// half-open interval [from, to).
func (r *limitsRepository) SpentBetween(ownerID uint, from, to time.Time) (map[string]decimal.Decimal, error) {
	var rows []spentRow
	err := r.db.Model(&models.Transfer{}).
		Select("currency, COALESCE(SUM(amount), 0) AS total").
		Where("initiated_by = ? AND status = ? AND kind = ?",
			ownerID, models.PaymentStatusCompleted, models.PaymentKindTransfer).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("currency").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		spent[normalizeCurrency(row.Currency)] = row.Total
	}
	return spent, nil
}
