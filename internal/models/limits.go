package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LimitProfile caps how much an owner may move per transaction, per day and
// per month, expressed in the profile's base currency. Currencies lists the
// 3-letter codes the owner is allowed to transact in (comma separated).
type LimitProfile struct {
	OwnerID      uint            `gorm:"primarykey" json:"owner_id"`
	BaseCurrency string          `gorm:"type:char(3);not null;default:'RUB'" json:"base_currency"`
	PerTxn       decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"per_txn"`
	Daily        decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"daily"`
	Monthly      decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"monthly"`
	Currencies   string          `gorm:"not null;default:''" json:"currencies"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AllowedCurrencies returns the parsed currency allow-list.
func (p *LimitProfile) AllowedCurrencies() []string {
	if p.Currencies == "" {
		return nil
	}
	parts := strings.Split(p.Currencies, ",")
	out := make([]string, 0, len(parts))
	for _, c := range parts {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// AllowsCurrency reports whether the profile permits transacting in code.
// An empty allow-list permits every currency.
func (p *LimitProfile) AllowsCurrency(code string) bool {
	allowed := p.AllowedCurrencies()
	if len(allowed) == 0 {
		return true
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range allowed {
		if c == code {
			return true
		}
	}
	return false
}
