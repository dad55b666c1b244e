package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses. PENDING is part of the status vocabulary for forward
// compatibility with an asynchronous settlement path; the synchronous engine
// never persists it.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment kinds. A REFUND row reverses the movement recorded by the TRANSFER
// row it points at through RefundOf.
const (
	PaymentKindTransfer = "TRANSFER"
	PaymentKindRefund   = "REFUND"
)

// Transfer is an immutable audit row describing one attempted money movement.
// It is written exactly once, as the terminal step of a transfer or refund
// attempt, and is never updated or deleted. FAILED attempts are recorded too,
// as long as both accounts could be resolved and the source is caller-owned.
type Transfer struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	FromAccountID uint            `gorm:"index;not null" json:"from_account_id"`
	ToAccountID   uint            `gorm:"index;not null" json:"to_account_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	Currency      string          `gorm:"type:char(3);not null" json:"currency"`
	Status        string          `gorm:"not null" json:"status"`
	Kind          string          `gorm:"not null;default:'TRANSFER'" json:"kind"`
	RefundOf      *uint           `gorm:"index" json:"refund_of,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Reference     string          `gorm:"uniqueIndex;not null" json:"reference"`
	InitiatedBy   uint            `gorm:"index;not null" json:"initiated_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ValidStatus reports whether a persisted status value is part of the
// vocabulary. Anything else is treated as storage corruption.
func ValidStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// ValidKind reports whether a persisted kind value is part of the vocabulary.
func ValidKind(k string) bool {
	return k == PaymentKindTransfer || k == PaymentKindRefund
}
