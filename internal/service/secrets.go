package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

const (
	loginCodeMin   = 100000
	loginCodeSpan  = 900000 // коды 100000..999999
	sessionIDBytes = 32
)

// generateLoginCode возвращает шестизначный код, равномерно распределенный по 100000..999999
func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(loginCodeSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(loginCodeMin+n.Int64(), 10), nil
}

// hashLoginCode: sha256(code) в hex, с перцем sha256(pepper + ":" + code)
func hashLoginCode(code, pepper string) string {
	input := code
	if pepper != "" {
		input = pepper + ":" + code
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// generateSessionID возвращает 64 hex-символа из 32 случайных байт
func generateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// deriveNameFromEmail строит имя из локальной части адреса:
// "ann.lee_x" -> "Ann Lee X". Пустая локальная часть дает "User".
func deriveNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	if len(tokens) == 0 {
		return entity.DefaultUserName
	}
	for i, tok := range tokens {
		r, size := utf8.DecodeRuneInString(tok)
		tokens[i] = string(unicode.ToUpper(r)) + tok[size:]
	}
	return strings.Join(tokens, " ")
}
