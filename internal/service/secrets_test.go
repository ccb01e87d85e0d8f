package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLoginCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := generateLoginCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashLoginCode(t *testing.T) {
	// sha256("123456")
	assert.Equal(t, "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92", hashLoginCode("123456", ""))

	peppered := hashLoginCode("123456", "pep")
	assert.Len(t, peppered, 64)
	assert.NotEqual(t, hashLoginCode("123456", ""), peppered)
	assert.Equal(t, peppered, hashLoginCode("123456", "pep"))
}

func TestGenerateSessionID(t *testing.T) {
	a, err := generateSessionID()
	require.NoError(t, err)
	b, err := generateSessionID()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Regexp(t, `^[0-9a-f]{64}$`, a)
	assert.NotEqual(t, a, b)
}

func TestDeriveNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ann.lee@x.com", "Ann Lee"},
		{"john__doe-smith@x.com", "John Doe Smith"},
		{"new@x.com", "New"},
		{"o'neil@x.com", "O'neil"},
		{"...@x.com", "User"},
		{"@x.com", "User"},
		{"élodie.r@x.com", "Élodie R"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveNameFromEmail(tt.email))
		})
	}
}
