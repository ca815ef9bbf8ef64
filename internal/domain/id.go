package domain

import (
	"github.com/google/uuid"
)

// ParseUUID parses s as a non-nil UUID. Failures are reported as a
// ValidationError on field.
func ParseUUID(field, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, NewFieldError(field, MsgRequired)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, NewFieldError(field, "must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, NewFieldError(field, "must not be the nil UUID")
	}
	return u, nil
}
