package repositories

import (
	"strings"

	"ledgerpay/internal/errors"

	"github.com/shopspring/decimal"
)

// Failure reasons surfaced by the transfer/refund engine. Inactive
// destinations and currency mismatches deliberately read as "account not
// found" so a caller cannot probe accounts belonging to other owners.
const (
	ReasonAccountNotActive  = "account is not active"
	ReasonAccountNotFound   = "account not found"
	ReasonInsufficientFunds = "insufficient funds"
	ReasonPaymentNotFound   = "payment not found"
	ReasonRefundNotAllowed  = "refund not allowed"
	ReasonRefundExists      = "refund already exists"
)

// amountScale is the fixed scale of every persisted amount.
const amountScale = 4

// lockedAccount is the view of an account row read under FOR UPDATE.
type lockedAccount struct {
	ID       uint
	OwnerID  uint
	Currency string
	Balance  decimal.Decimal
	IsActive bool
}

// CanonicalLockOrder returns the two account ids in ascending order. Every
// code path that locks two accounts must acquire the locks in this order;
// it is the sole deadlock-avoidance mechanism.
func CanonicalLockOrder(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// NormalizeAmount fixes the amount to exactly four fractional digits. Amounts
// that would need rounding are rejected rather than silently truncated.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	normalized := amount.Round(amountScale)
	if !normalized.Equal(amount) {
		return decimal.Zero, errors.BadRequest("amount scale must not exceed 4 digits")
	}
	return normalized, nil
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// transferRule is one row of the transfer decision table. Rules run in slice
// order; the first rule whose failed func fires names the failure reason.
type transferRule struct {
	failed func(from, to *lockedAccount, amount decimal.Decimal) bool
	reason string
}

var transferRules = []transferRule{
	{
		failed: func(from, _ *lockedAccount, _ decimal.Decimal) bool {
			return !from.IsActive
		},
		reason: ReasonAccountNotActive,
	},
	{
		failed: func(_, to *lockedAccount, _ decimal.Decimal) bool {
			return !to.IsActive
		},
		reason: ReasonAccountNotFound,
	},
	{
		failed: func(from, to *lockedAccount, _ decimal.Decimal) bool {
			return normalizeCurrency(from.Currency) != normalizeCurrency(to.Currency)
		},
		reason: ReasonAccountNotFound,
	},
	{
		failed: func(from, _ *lockedAccount, amount decimal.Decimal) bool {
			return from.Balance.LessThan(amount)
		},
		reason: ReasonInsufficientFunds,
	},
}

// firstTransferFailure evaluates the transfer decision table in order.
func firstTransferFailure(from, to *lockedAccount, amount decimal.Decimal) (string, bool) {
	for _, rule := range transferRules {
		if rule.failed(from, to, amount) {
			return rule.reason, true
		}
	}
	return "", false
}

// refundRule is one row of the refund decision table. A refund moves the
// original amount back from the original destination to the original source,
// so the balance check runs against the destination account.
type refundRule struct {
	failed func(initiatedBy uint, from, to *lockedAccount, amount decimal.Decimal) bool
	reason string
}

var refundRules = []refundRule{
	{
		failed: func(initiatedBy uint, from, _ *lockedAccount, _ decimal.Decimal) bool {
			return from.OwnerID != initiatedBy
		},
		reason: ReasonAccountNotFound,
	},
	{
		failed: func(_ uint, from, _ *lockedAccount, _ decimal.Decimal) bool {
			return !from.IsActive
		},
		reason: ReasonAccountNotActive,
	},
	{
		failed: func(_ uint, _, to *lockedAccount, _ decimal.Decimal) bool {
			return !to.IsActive
		},
		reason: ReasonAccountNotFound,
	},
	{
		failed: func(_ uint, from, to *lockedAccount, _ decimal.Decimal) bool {
			return normalizeCurrency(from.Currency) != normalizeCurrency(to.Currency)
		},
		reason: ReasonAccountNotFound,
	},
	{
		failed: func(_ uint, _, to *lockedAccount, amount decimal.Decimal) bool {
			return to.Balance.LessThan(amount)
		},
		reason: ReasonInsufficientFunds,
	},
}

// firstRefundFailure evaluates the refund decision table in order.
func firstRefundFailure(initiatedBy uint, from, to *lockedAccount, amount decimal.Decimal) (string, bool) {
	for _, rule := range refundRules {
		if rule.failed(initiatedBy, from, to, amount) {
			return rule.reason, true
		}
	}
	return "", false
}

// failureError maps an engine failure reason to its error category.
func failureError(reason string) *errors.DomainError {
	switch reason {
	case ReasonAccountNotFound, ReasonPaymentNotFound:
		return errors.NotFound(reason)
	case ReasonAccountNotActive, ReasonInsufficientFunds,
		ReasonRefundNotAllowed, ReasonRefundExists:
		return errors.Conflict(reason)
	default:
		return errors.Internal(reason)
	}
}
