package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Feria Gastronómica 2026", "feria-gastronmica-2026"},
		{"  Rock en el Parque  ", "rock-en-el-parque"},
		{"Hello_World--Again", "hello-world-again"},
		{"¡¿?!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.in), tt.in)
	}
}

func TestUniqueSlugSuffix(t *testing.T) {
	got := UniqueSlugSuffix("my-event")
	assert.True(t, strings.HasPrefix(got, "my-event-"))
	assert.Greater(t, len(got), len("my-event-"))
}

func TestGenerateShareableCode(t *testing.T) {
	code := GenerateShareableCode(8)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.Contains(t, shareableAlphabet, string(r))
	}

	// ambiguous characters are excluded from the alphabet
	for _, bad := range []string{"I", "O", "0", "1"} {
		assert.NotContains(t, shareableAlphabet, bad)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
