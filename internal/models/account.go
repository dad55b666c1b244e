package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a single-currency balance owned by one user. The balance is
// only ever mutated inside a transfer/refund transaction or a deposit; the
// currency is immutable after creation.
type Account struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	OwnerID   uint            `gorm:"index;not null" json:"owner_id"`
	Currency  string          `gorm:"type:char(3);not null" json:"currency"`
	Alias     *string         `json:"alias,omitempty"`
	Balance   decimal.Decimal `gorm:"type:numeric(19,4);not null;default:0" json:"balance"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}
