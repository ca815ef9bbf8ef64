package invitation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// codeAlphabet omits characters that are easily confused (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Code length bounds.
const (
	MinCodeLength     = 6
	MaxCodeLength     = 32
	DefaultCodeLength = 8
)

// Code is an invitation code.
type Code string

// NewCode returns a random code of length n drawn from codeAlphabet.
func NewCode(n int) (Code, error) {
	if n < MinCodeLength || n > MaxCodeLength {
		return "", fmt.Errorf("invitation code length %d out of range %d..%d", n, MinCodeLength, MaxCodeLength)
	}
	limit := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for range n {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generating invitation code: %w", err)
		}
		b.WriteByte(codeAlphabet[idx.Int64()])
	}
	return Code(b.String()), nil
}

// IsValid reports whether c could have been produced by NewCode.
func (c Code) IsValid() bool {
	if len(c) < MinCodeLength || len(c) > MaxCodeLength {
		return false
	}
	for _, r := range string(c) {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (c Code) String() string {
	return string(c)
}
