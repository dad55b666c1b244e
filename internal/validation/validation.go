// Package validation holds the request-shape checks that run before a use
// case is invoked. Each use case gets an explicit, ordered list of validator
// functions; the first failing rule wins. No reflection, no annotations.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ledgerpay/internal/errors"

	"github.com/shopspring/decimal"
)

// SupportedCurrencies is the closed set of currency codes accounts may use.
var SupportedCurrencies = map[string]bool{
	"RUB": true,
	"USD": true,
	"EUR": true,
}

const (
	maxDescriptionLength = 255
	maxIntegerDigits     = 15
	minPasswordLength    = 8
	MinSearchLimit       = 1
	MaxSearchLimit       = 200
)

var (
	amountPattern = regexp.MustCompile(`^\d+(?:\.\d{1,4})?$`)
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]{2,}$`)
)

// Rule is a single validation check.
type Rule func() *errors.DomainError

// Run evaluates rules in order and returns the first failure.
func Run(rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

// PositiveID requires a non-zero identifier.
func PositiveID(name string, id uint) Rule {
	return func() *errors.DomainError {
		if id == 0 {
			return errors.BadRequest(name + " must be positive")
		}
		return nil
	}
}

// DistinctAccounts rejects self-transfers.
func DistinctAccounts(fromID, toID uint) Rule {
	return func() *errors.DomainError {
		if fromID == toID {
			return errors.BadRequest("fromAccountId and toAccountId must be different")
		}
		return nil
	}
}

// Amount requires a plain positive decimal with at most 4 fractional and 15
// integer digits.
func Amount(value string) Rule {
	return func() *errors.DomainError {
		s := strings.TrimSpace(value)
		if s == "" {
			return errors.BadRequest("amount must not be blank")
		}
		if !amountPattern.MatchString(s) {
			return errors.BadRequest("amount must be a plain decimal with scale <= 4")
		}
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return errors.BadRequest("amount must be a valid decimal number")
		}
		if !amount.IsPositive() {
			return errors.BadRequest("amount must be positive")
		}
		intPart := s
		if dot := strings.IndexByte(s, '.'); dot >= 0 {
			intPart = s[:dot]
		}
		integerDigits := len(strings.TrimLeft(intPart, "0"))
		if integerDigits > maxIntegerDigits {
			return errors.BadRequest(fmt.Sprintf("amount integer digits must be <= %d", maxIntegerDigits))
		}
		return nil
	}
}

// Description bounds the free-text description length.
func Description(value string) Rule {
	return func() *errors.DomainError {
		if len(value) > maxDescriptionLength {
			return errors.BadRequest(fmt.Sprintf("description is too long (max %d)", maxDescriptionLength))
		}
		return nil
	}
}

// Currency requires a supported 3-letter code.
func Currency(value string) Rule {
	return func() *errors.DomainError {
		code := strings.ToUpper(strings.TrimSpace(value))
		if len(code) != 3 {
			return errors.BadRequest("currency must be a 3-letter code")
		}
		if !SupportedCurrencies[code] {
			return errors.BadRequest(fmt.Sprintf("currency '%s' is not supported", code))
		}
		return nil
	}
}

// OptionalCurrency is Currency, skipped when the value is empty.
func OptionalCurrency(value string) Rule {
	return func() *errors.DomainError {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return Currency(value)()
	}
}

// PageBounds constrains search pagination.
func PageBounds(limit, offset int) Rule {
	return func() *errors.DomainError {
		if limit < MinSearchLimit || limit > MaxSearchLimit {
			return errors.BadRequest(fmt.Sprintf("limit must be in %d..%d", MinSearchLimit, MaxSearchLimit))
		}
		if offset < 0 {
			return errors.BadRequest("offset must be >= 0")
		}
		return nil
	}
}

// TimeRange requires createdFrom <= createdTo when both are present and
// parseable. Parse failures are left for the service to report.
func TimeRange(createdFrom, createdTo string) Rule {
	return func() *errors.DomainError {
		from, errFrom := time.Parse(time.RFC3339, strings.TrimSpace(createdFrom))
		to, errTo := time.Parse(time.RFC3339, strings.TrimSpace(createdTo))
		if errFrom != nil || errTo != nil {
			return nil
		}
		if from.After(to) {
			return errors.BadRequest("createdFrom must be <= createdTo")
		}
		return nil
	}
}

// Email requires a plausible address.
func Email(value string) Rule {
	return func() *errors.DomainError {
		if !emailPattern.MatchString(strings.TrimSpace(value)) {
			return errors.BadRequest("email format is invalid")
		}
		return nil
	}
}

// Password enforces the minimum password policy.
func Password(value string) Rule {
	return func() *errors.DomainError {
		if strings.TrimSpace(value) == "" || len(value) < minPasswordLength {
			return errors.BadRequest(fmt.Sprintf("password does not meet policy (min length %d)", minPasswordLength))
		}
		return nil
	}
}

// NotBlank requires a non-empty trimmed value.
func NotBlank(name, value string) Rule {
	return func() *errors.DomainError {
		if strings.TrimSpace(value) == "" {
			return errors.BadRequest(name + " must not be blank")
		}
		return nil
	}
}
