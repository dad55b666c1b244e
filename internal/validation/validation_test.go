package validation

import (
	"strings"
	"testing"

	"ledgerpay/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	calls := 0
	counting := func(err *errors.DomainError) Rule {
		return func() *errors.DomainError {
			calls++
			return err
		}
	}

	t.Run("all rules pass", func(t *testing.T) {
		calls = 0
		assert.NoError(t, Run(counting(nil), counting(nil)))
		assert.Equal(t, 2, calls)
	})

	t.Run("first failure wins and stops evaluation", func(t *testing.T) {
		calls = 0
		first := errors.BadRequest("first")
		err := Run(counting(first), counting(errors.BadRequest("second")))
		assert.Equal(t, first, err)
		assert.Equal(t, 1, calls)
	})
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "integer", value: "10"},
		{name: "scale 4", value: "0.0001"},
		{name: "fifteen integer digits", value: "999999999999999.9999"},
		{name: "leading zeros do not count", value: "000000000000000001"},
		{name: "blank", value: "  ", wantErr: "amount must not be blank"},
		{name: "negative", value: "-1", wantErr: "plain decimal"},
		{name: "scientific notation", value: "1e3", wantErr: "plain decimal"},
		{name: "scale 5", value: "1.00001", wantErr: "plain decimal"},
		{name: "bare dot", value: ".5", wantErr: "plain decimal"},
		{name: "zero", value: "0", wantErr: "amount must be positive"},
		{name: "zero with scale", value: "0.0000", wantErr: "amount must be positive"},
		{name: "sixteen integer digits", value: "9999999999999999", wantErr: "integer digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Amount(tt.value)()
			if tt.wantErr == "" {
				assert.Nil(t, err)
				return
			}
			assert.NotNil(t, err)
			assert.Contains(t, err.Message, tt.wantErr)
			assert.Equal(t, errors.CategoryBadRequest, err.Category)
		})
	}
}

func TestPositiveIDAndDistinctAccounts(t *testing.T) {
	assert.Nil(t, PositiveID("fromAccountId", 1)())
	assert.NotNil(t, PositiveID("fromAccountId", 0)())

	assert.Nil(t, DistinctAccounts(1, 2)())
	err := DistinctAccounts(3, 3)()
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "must be different")
}

func TestDescription(t *testing.T) {
	assert.Nil(t, Description("")())
	assert.Nil(t, Description(strings.Repeat("a", 255))())
	assert.NotNil(t, Description(strings.Repeat("a", 256))())
}

func TestCurrency(t *testing.T) {
	assert.Nil(t, Currency("RUB")())
	assert.Nil(t, Currency("usd")())
	assert.Nil(t, Currency(" eur ")())

	err := Currency("GBP")()
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "not supported")

	err = Currency("RUBL")()
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "3-letter")
}

func TestOptionalCurrency(t *testing.T) {
	assert.Nil(t, OptionalCurrency("")())
	assert.Nil(t, OptionalCurrency("  ")())
	assert.Nil(t, OptionalCurrency("RUB")())
	assert.NotNil(t, OptionalCurrency("XXX")())
}

func TestPageBounds(t *testing.T) {
	assert.Nil(t, PageBounds(1, 0)())
	assert.Nil(t, PageBounds(200, 1000)())
	assert.NotNil(t, PageBounds(0, 0)())
	assert.NotNil(t, PageBounds(201, 0)())
	assert.NotNil(t, PageBounds(50, -1)())
}

func TestTimeRange(t *testing.T) {
	assert.Nil(t, TimeRange("2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z")())
	assert.Nil(t, TimeRange("", "")())
	assert.Nil(t, TimeRange("not-a-time", "2026-01-02T00:00:00Z")())

	err := TimeRange("2026-01-02T00:00:00Z", "2026-01-01T00:00:00Z")()
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "createdFrom must be <= createdTo")
}

func TestEmail(t *testing.T) {
	assert.Nil(t, Email("user@example.com")())
	assert.NotNil(t, Email("")())
	assert.NotNil(t, Email("user@example")())
	assert.NotNil(t, Email("not an email")())
}

func TestPassword(t *testing.T) {
	assert.Nil(t, Password("longenough")())
	assert.NotNil(t, Password("short")())
	assert.NotNil(t, Password("        ")())
}

func TestNotBlank(t *testing.T) {
	assert.Nil(t, NotBlank("firstName", "Ada")())
	err := NotBlank("firstName", "   ")()
	assert.NotNil(t, err)
	assert.Contains(t, err.Message, "firstName")
}
