package sorting

import (
	"bytes"
	"cmp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompareUUID orders UUIDs by their byte representation.
func CompareUUID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// CompareFold orders strings case-insensitively, falling back to a
// case-sensitive comparison so the order is total.
func CompareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// CompareTime orders timestamps chronologically.
func CompareTime(a, b time.Time) int {
	return a.Compare(b)
}

// CompareOrdered orders any ordered value.
func CompareOrdered[T cmp.Ordered](a, b T) int {
	return cmp.Compare(a, b)
}
