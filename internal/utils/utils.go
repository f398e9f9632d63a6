package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

const digits = "0123456789"

// GenerateRoomCode returns a short numeric room code. Uniqueness among active
// rooms is the registry's job (create retries on collision).
func GenerateRoomCode() (string, error) {
	code := make([]byte, internal.RoomCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeAnswer case-folds, strips diacritics, and trims a free-text answer
// so that e.g. "  Hà Nội " compares equal to "ha noi". The đ/Đ letters do not
// decompose under NFD and are mapped explicitly.
func NormalizeAnswer(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ReplaceAll(s, "đ", "d")
	return s
}
