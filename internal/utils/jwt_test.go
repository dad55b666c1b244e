package utils

import (
	"testing"

	"ledgerpay/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseTokens(t *testing.T) {
	claims := &models.UserClaims{UserID: 42, Email: "ada@example.com"}

	access, refresh, err := GenerateTokens(claims, "secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	for _, token := range []string{access, refresh} {
		parsed, err := ParseToken(token, "secret")
		assert.NoError(t, err)
		assert.Equal(t, uint(42), parsed.UserID)
		assert.Equal(t, "ada@example.com", parsed.Email)
		assert.Equal(t, "ledgerpay-api", parsed.Issuer)
		assert.Equal(t, "42", parsed.Subject)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	access, _, err := GenerateTokens(&models.UserClaims{UserID: 42}, "secret")
	assert.NoError(t, err)

	_, err = ParseToken(access, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.Error(t, err)
}

func TestGenerateTokens_EmptySecret(t *testing.T) {
	_, _, err := GenerateTokens(&models.UserClaims{UserID: 42}, "")
	assert.Error(t, err)
}
